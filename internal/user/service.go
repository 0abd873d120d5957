package user

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// Service implements the user operations on top of a Repository.
type Service struct {
	repo Repository
	log  logging.Logger
}

// NewService builds a user service.
func NewService(repo Repository, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{repo: repo, log: log.Named("user")}
}

// List returns every record ordered by id.
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "list users")
	}
	return users, nil
}

// GetFlexible resolves an identifier that may be a numeric record id, an
// external id, or a nickname, in that order.
func (s *Service) GetFlexible(ctx context.Context, identifier string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "identifier must not be blank")
	}

	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		u, err := s.repo.ByID(ctx, id)
		return s.translated(u, err, identifier)
	}

	u, err := s.repo.ByExternalID(ctx, identifier)
	if errors.Is(err, ErrNotFound) {
		u, err = s.repo.ByNickname(ctx, identifier)
	}
	return s.translated(u, err, identifier)
}

// Create registers a new record keyed by externalID.  The nickname starts as
// the external id; job overrides the default when non-blank.
func (s *Service) Create(ctx context.Context, externalID, job string) (*User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "external id must not be blank")
	}

	u := newUser(externalID, "")
	if strings.TrimSpace(job) != "" {
		u.Job = job
	}

	stored, err := s.repo.Save(ctx, u)
	if errors.Is(err, ErrConflict) {
		return nil, apperrors.New(apperrors.ErrCodeUserAlreadyExists, "user already exists").
			WithDetail("externalId=" + externalID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "create user")
	}
	s.log.Info("user created",
		logging.Int64("user_id", stored.ID),
		logging.String("external_id", stored.ExternalID))
	return stored, nil
}

// UpsertSession creates or refreshes the record for a world-client login.
// An existing record keeps its gold; nickname and job are updated only when
// the caller supplies non-blank values.
func (s *Service) UpsertSession(ctx context.Context, externalID, nickname, job string) (*User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "external id must not be blank")
	}

	u, err := s.repo.ByExternalID(ctx, externalID)
	if errors.Is(err, ErrNotFound) {
		// Legacy records were keyed by nickname before external ids
		// existed; adopt them instead of creating duplicates.
		u, err = s.repo.ByNickname(ctx, externalID)
	}
	switch {
	case errors.Is(err, ErrNotFound):
		u = newUser(externalID, nickname)
	case err != nil:
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "lookup user")
	}

	if u.ExternalID == "" {
		u.ExternalID = externalID
	}
	if strings.TrimSpace(nickname) != "" {
		u.Nickname = nickname
	} else if strings.TrimSpace(u.Nickname) == "" {
		u.Nickname = externalID
	}
	if strings.TrimSpace(job) != "" {
		u.Job = job
	}

	stored, err := s.repo.Save(ctx, u)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "upsert user")
	}
	return stored, nil
}

// ApplyReward credits mini-game gold.  Unsuccessful rounds and non-positive
// amounts are no-ops that still return the current record.  A game listed in
// RequiredJobByGame pays out only when the player's job matches.
func (s *Service) ApplyReward(ctx context.Context, externalID, gameType string, success bool, earnedGold int64) (*User, error) {
	u, err := s.repo.ByExternalID(ctx, externalID)
	if err != nil {
		return s.translated(nil, err, externalID)
	}

	if !success || earnedGold <= 0 {
		return u, nil
	}

	if strings.TrimSpace(gameType) == "" {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "gameType must be provided")
	}
	if requiredJob, gated := RequiredJobByGame[gameType]; gated && u.Job != requiredJob {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "직업이 일치하지 않습니다.").
			WithDetail("required=" + requiredJob)
	}

	u.Gold += earnedGold
	stored, err := s.repo.Save(ctx, u)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "apply reward")
	}
	s.log.Info("reward applied",
		logging.String("external_id", externalID),
		logging.String("game", gameType),
		logging.Int64("gold", earnedGold))
	return stored, nil
}

// UpdateJob sets the job for a record looked up by numeric id.
func (s *Service) UpdateJob(ctx context.Context, id int64, job string) (*User, error) {
	u, err := s.repo.ByID(ctx, id)
	if err != nil {
		return s.translated(nil, err, strconv.FormatInt(id, 10))
	}
	u.Job = job
	stored, err := s.repo.Save(ctx, u)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "update job")
	}
	return stored, nil
}

// UpdateJobByName sets the job for a record looked up by external id or
// nickname.
func (s *Service) UpdateJobByName(ctx context.Context, identifier, job string) (*User, error) {
	u, err := s.byExternalOrNickname(ctx, identifier)
	if err != nil {
		return nil, err
	}
	u.Job = job
	stored, err := s.repo.Save(ctx, u)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "update job")
	}
	return stored, nil
}

// AddGold adjusts gold by a signed amount for a record looked up by numeric
// id.
func (s *Service) AddGold(ctx context.Context, id int64, amount int64) (*User, error) {
	u, err := s.repo.ByID(ctx, id)
	if err != nil {
		return s.translated(nil, err, strconv.FormatInt(id, 10))
	}
	u.Gold += amount
	stored, err := s.repo.Save(ctx, u)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "update gold")
	}
	return stored, nil
}

// PortalMove returns the job and gold shown when the player crosses a portal.
func (s *Service) PortalMove(ctx context.Context, identifier string) (*ProfileSummary, error) {
	u, err := s.byExternalOrNickname(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &ProfileSummary{Job: u.Job, Gold: u.Gold}, nil
}

func (s *Service) byExternalOrNickname(ctx context.Context, identifier string) (*User, error) {
	u, err := s.repo.ByExternalID(ctx, identifier)
	if errors.Is(err, ErrNotFound) {
		u, err = s.repo.ByNickname(ctx, identifier)
	}
	return s.translated(u, err, identifier)
}

func (s *Service) translated(u *User, err error, identifier string) (*User, error) {
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, ErrNotFound):
		return nil, apperrors.New(apperrors.ErrCodeUserNotFound, "user not found").
			WithDetail("identifier=" + identifier)
	default:
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "lookup user")
	}
}
