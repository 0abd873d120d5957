// Package user keeps the lightweight player records behind the service:
// who logged in from the world client, what job they picked, and how much
// gold they earned in the mini games.
package user

import (
	"context"
	"errors"
	"time"
)

// Defaults applied to newly created records.
const (
	DefaultJob  = "무직"
	DefaultGold = 100
)

// RequiredJobByGame gates game rewards on the player's current job.  A game
// absent from the map pays out regardless of job.
var RequiredJobByGame = map[string]string{
	"stock":       "프리랜서",
	"typing":      "회사원",
	"calculating": "자영업자",
}

// User is one player record.  ExternalID is the identifier assigned by the
// world client and is unique across records; Nickname defaults to it.
type User struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"externalId"`
	Nickname   string    `json:"nickname"`
	Job        string    `json:"job"`
	Gold       int64     `json:"gold"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ProfileSummary is the reduced view returned on portal moves.
type ProfileSummary struct {
	Job  string `json:"job"`
	Gold int64  `json:"gold"`
}

// Repository-level sentinels.  The service layer translates them into coded
// application errors; repositories stay free of HTTP concerns.
var (
	ErrNotFound = errors.New("user: not found")
	ErrConflict = errors.New("user: external id already exists")
)

// Repository stores user records.
type Repository interface {
	ByID(ctx context.Context, id int64) (*User, error)
	ByExternalID(ctx context.Context, externalID string) (*User, error)
	ByNickname(ctx context.Context, nickname string) (*User, error)
	List(ctx context.Context) ([]User, error)

	// Save inserts when ID is zero and updates otherwise, returning the
	// stored record.  Inserting a duplicate ExternalID yields ErrConflict.
	Save(ctx context.Context, u *User) (*User, error)
}

// newUser builds a record with defaults filled in, mirroring what the
// repositories persist for omitted columns.
func newUser(externalID, nickname string) *User {
	if nickname == "" {
		nickname = externalID
	}
	return &User{
		ExternalID: externalID,
		Nickname:   nickname,
		Job:        DefaultJob,
		Gold:       DefaultGold,
		CreatedAt:  time.Now().UTC(),
	}
}
