// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/intake"
	"github.com/macrotrack/api/internal/domain/nutrition"
	"github.com/macrotrack/api/internal/domain/user"
	"github.com/macrotrack/api/internal/domain/vitals"
)

var (
	// ErrNotFound is returned by repositories and caches when nothing matches
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	Update(ctx context.Context, user *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// GoalProfileRepository stores one goal profile per user
type GoalProfileRepository interface {
	// Upsert inserts or replaces the user's profile. Last write wins.
	Upsert(ctx context.Context, profile *goals.GoalProfile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*goals.GoalProfile, error)
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// VitalsRepository is an append-only log of readings
type VitalsRepository interface {
	Create(ctx context.Context, reading *vitals.Reading) error
	// ListByUserID returns readings newest first
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*vitals.Reading, error)
}

// FoodRepository stores food entries a user picked from lookups
type FoodRepository interface {
	Create(ctx context.Context, entry *intake.FoodEntry) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*intake.FoodEntry, error)
	Latest(ctx context.Context, userID uuid.UUID) (*intake.FoodEntry, error)
}

// DailyIntakeRepository keeps per-day totals
type DailyIntakeRepository interface {
	// Increment adds n to the totals for the user and day, creating the row on
	// first use. The addition happens in the store.
	Increment(ctx context.Context, userID uuid.UUID, day string, n intake.Nutrients) (*intake.DailyIntake, error)
	Find(ctx context.Context, userID uuid.UUID, day string) (*intake.DailyIntake, error)
}

// UnitOfWork runs fn with repositories bound to a single transaction
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx TxRepositories) error) error
}

// TxRepositories are the repositories available inside a transaction
type TxRepositories struct {
	GoalProfiles GoalProfileRepository
	Vitals       VitalsRepository
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	// Get returns ErrNotFound on a miss
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}

// NutritionProvider answers per-100g facts for a food name. A reply that
// arrives but cannot be parsed is reported as nutrition.ErrUnparsableReply;
// any other error means the upstream could not be reached.
type NutritionProvider interface {
	Name() string
	Lookup(ctx context.Context, food string) (nutrition.Facts, error)
}

// LookupObserver is told where each nutrition lookup was answered from
type LookupObserver interface {
	ObserveLookup(source nutrition.Source, took time.Duration)
}

// AccessToken is a signed bearer token with its identifying claims
type AccessToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID) (*AccessToken, error)
}

// TokenRevoker remembers revoked token ids until they would expire anyway
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Clock abstracts the current time for day boundaries and timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now implements Clock
func (SystemClock) Now() time.Time { return time.Now().UTC() }
