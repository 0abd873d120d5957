package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/turtlebank/teenfin/internal/catalog"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/llm"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// State names one stage of the per-request pipeline.
type State string

const (
	StateValidating   State = "VALIDATING"
	StateScoring      State = "SCORING"
	StatePrompting    State = "PROMPTING"
	StateCallingModel State = "CALLING_MODEL"
	StateParsing      State = "PARSING"
	StateDone         State = "DONE"
	StateFailed       State = "FAILED"
)

// ResultCache stores finished results keyed by an answer-set digest so
// identical surveys can skip the model round trip.  Implementations must be
// safe for concurrent use; both methods are best-effort.
type ResultCache interface {
	Get(ctx context.Context, key string) (*RecommendationResult, bool)
	Set(ctx context.Context, key string, result *RecommendationResult)
}

// CompletedEvent describes one finished recommendation for downstream
// consumers.
type CompletedEvent struct {
	RequestID    string    `json:"requestId"`
	AnswerDigest string    `json:"answerDigest"`
	SavingsCount int       `json:"savingsCount"`
	CardsCount   int       `json:"cardsCount"`
	FromFallback bool      `json:"fromFallback"`
	FromCache    bool      `json:"fromCache"`
	ElapsedMS    int64     `json:"elapsedMs"`
	CompletedAt  time.Time `json:"completedAt"`
}

// EventPublisher emits pipeline completion events.  Publishing is fire and
// forget; failures must never affect the request outcome.
type EventPublisher interface {
	RecommendationCompleted(ctx context.Context, event CompletedEvent)
}

// PipelineMetrics records per-stage timings and failure kinds.
type PipelineMetrics interface {
	ObserveStage(state State, elapsed time.Duration)
	RecordFailure(code apperrors.ErrorCode)
}

// Options carry the service's optional collaborators and tunables.  Zero
// values disable the corresponding feature.
type Options struct {
	CandidateLimit int
	Limits         ParserLimits
	Temperature    float64
	TopP           float64
	EnableFallback bool
	Cache          ResultCache
	Events         EventPublisher
	Metrics        PipelineMetrics
}

// Service is the recommendation orchestrator.  It wires context building,
// scoring, prompting, the model call, and parsing into one request/response
// cycle and maps failures onto the error taxonomy.
type Service struct {
	catalog  *catalog.Catalog
	selector *Selector
	composer *Composer
	parser   *Parser
	gateway  llm.Gateway
	opts     Options
	log      logging.Logger
}

// NewService builds a Service.  gateway may be llm.Disabled{} when no
// provider is configured.
func NewService(cat *catalog.Catalog, gateway llm.Gateway, opts Options, log logging.Logger) *Service {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = 6
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.6
	}
	if opts.TopP == 0 {
		opts.TopP = 0.9
	}
	return &Service{
		catalog:  cat,
		selector: NewSelector(),
		composer: NewComposer(log),
		parser:   NewParser(opts.Limits, log),
		gateway:  gateway,
		opts:     opts,
		log:      log,
	}
}

// Recommend runs the full pipeline for one request.  requestID is carried
// into logs and events only.
func (s *Service) Recommend(ctx context.Context, requestID string, req Request) (*RecommendationResult, error) {
	started := time.Now()

	// VALIDATING: every questionId must resolve before any scoring work.
	stageStart := time.Now()
	for _, answer := range req.Answers {
		if err := s.catalog.ValidateAnswerQuestion(answer.QuestionID); err != nil {
			return nil, s.fail(StateValidating, err)
		}
	}
	s.observe(StateValidating, stageStart)

	answers := NewAnswerMap(req.Answers)
	digest := answerDigest(answers, req.PromptParams)

	if s.opts.Cache != nil {
		if cached, ok := s.opts.Cache.Get(ctx, digest); ok {
			s.log.Debug("recommendation served from cache",
				logging.String("request_id", requestID))
			s.publish(ctx, requestID, digest, cached, started, false, true)
			return cached, nil
		}
	}

	// SCORING: never fails.
	stageStart = time.Now()
	surveyCtx := BuildSurveyContext(answers)
	ranked := s.selector.Select(s.catalog.Products(), surveyCtx)
	if len(ranked) > s.opts.CandidateLimit {
		ranked = ranked[:s.opts.CandidateLimit]
	}
	s.observe(StateScoring, stageStart)
	if len(ranked) == 0 {
		return nil, s.fail(StateScoring, apperrors.New(apperrors.ErrCodeRecoNoCandidates,
			"no candidate products available for recommendation"))
	}

	// PROMPTING: never fails.
	stageStart = time.Now()
	questions := make(map[string]catalog.SurveyQuestion, len(s.catalog.Questions()))
	for _, q := range s.catalog.Questions() {
		questions[q.ID] = q
	}
	prompt := s.composer.Compose(answers, questions, surveyCtx, req.PromptParams, ranked)
	s.observe(StatePrompting, stageStart)

	// CALLING_MODEL: disabled gateway and empty responses are both
	// service-unavailable, distinct from parse failures.
	stageStart = time.Now()
	raw, err := s.callModel(ctx, prompt)
	s.observe(StateCallingModel, stageStart)
	if err != nil {
		if s.opts.EnableFallback {
			if result := FallbackResult(ranked, s.parser.limits); result != nil {
				s.log.Warn("model unavailable, serving fallback recommendation",
					logging.String("request_id", requestID),
					logging.Err(err))
				s.publish(ctx, requestID, digest, result, started, true, false)
				return result, nil
			}
		}
		return nil, s.fail(StateCallingModel, err)
	}

	// PARSING.
	stageStart = time.Now()
	result, err := s.parser.Parse(raw, prompt.Candidates)
	s.observe(StateParsing, stageStart)
	if err != nil {
		return nil, s.fail(StateParsing, err)
	}

	// DONE.
	if s.opts.Cache != nil {
		s.opts.Cache.Set(ctx, digest, result)
	}
	s.log.Info("recommendation completed",
		logging.String("request_id", requestID),
		logging.Int("savings", len(result.Savings)),
		logging.Int("cards", len(result.Cards)),
		logging.Duration("elapsed", time.Since(started)))
	s.publish(ctx, requestID, digest, result, started, false, false)
	return result, nil
}

// callModel invokes the gateway and maps its sentinel errors onto the error
// taxonomy.  Timeouts and cancellations count as "no response."
func (s *Service) callModel(ctx context.Context, prompt PromptContext) (string, error) {
	if !s.gateway.Enabled() {
		return "", apperrors.New(apperrors.ErrCodeRecoModelDisabled,
			"language model gateway is not configured")
	}

	raw, err := s.gateway.Generate(ctx, prompt.SystemInstruction, prompt.UserPrompt, llm.GenerationParams{
		Temperature:    s.opts.Temperature,
		TopP:           s.opts.TopP,
		ResponseSchema: ResponseSchema(),
		SchemaName:     ResponseSchemaName,
	})
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrDisabled):
			return "", apperrors.Wrap(err, apperrors.ErrCodeRecoModelDisabled,
				"language model gateway is not configured")
		default:
			return "", apperrors.Wrap(err, apperrors.ErrCodeRecoModelNoResponse,
				"language model returned no response")
		}
	}
	return raw, nil
}

func (s *Service) fail(state State, err error) error {
	code := apperrors.GetCode(err)
	s.log.Warn("recommendation pipeline failed",
		logging.String("state", string(state)),
		logging.String("code", string(code)),
		logging.Err(err))
	if s.opts.Metrics != nil {
		s.opts.Metrics.RecordFailure(code)
	}
	return err
}

func (s *Service) observe(state State, since time.Time) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveStage(state, time.Since(since))
	}
}

func (s *Service) publish(ctx context.Context, requestID, digest string,
	result *RecommendationResult, started time.Time, fromFallback, fromCache bool) {
	if s.opts.Events == nil {
		return
	}
	s.opts.Events.RecommendationCompleted(ctx, CompletedEvent{
		RequestID:    requestID,
		AnswerDigest: digest,
		SavingsCount: len(result.Savings),
		CardsCount:   len(result.Cards),
		FromFallback: fromFallback,
		FromCache:    fromCache,
		ElapsedMS:    time.Since(started).Milliseconds(),
		CompletedAt:  time.Now().UTC(),
	})
}

// answerDigest produces a stable cache key from the normalized answer set
// and prompt parameters.  Question order does not affect the digest.
func answerDigest(answers *AnswerMap, promptParams map[string]string) string {
	ids := append([]string(nil), answers.QuestionIDs()...)
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		selected := append([]string(nil), answers.Get(id)...)
		sort.Strings(selected)
		fmt.Fprintf(&b, "%s=%s;", id, strings.Join(selected, ","))
	}
	if len(promptParams) > 0 {
		if data, err := json.Marshal(promptParams); err == nil {
			b.Write(data)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
