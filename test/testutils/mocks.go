// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/intake"
	"github.com/macrotrack/api/internal/domain/nutrition"
	"github.com/macrotrack/api/internal/domain/shared"
	"github.com/macrotrack/api/internal/domain/user"
	"github.com/macrotrack/api/internal/domain/vitals"
	"github.com/macrotrack/api/internal/ports/outbound"
)

// MockUserRepository provides a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func userOrNil(v interface{}) *user.User {
	if v == nil {
		return nil
	}
	return v.(*user.User)
}

// MockGoalProfileRepository provides a mock implementation of GoalProfileRepository
type MockGoalProfileRepository struct {
	mock.Mock
}

func (m *MockGoalProfileRepository) Upsert(ctx context.Context, g *goals.GoalProfile) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGoalProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*goals.GoalProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goals.GoalProfile), args.Error(1)
}

func (m *MockGoalProfileRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockVitalsRepository provides a mock implementation of VitalsRepository
type MockVitalsRepository struct {
	mock.Mock
}

func (m *MockVitalsRepository) Create(ctx context.Context, r *vitals.Reading) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockVitalsRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*vitals.Reading, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vitals.Reading), args.Error(1)
}

// MockFoodRepository provides a mock implementation of FoodRepository
type MockFoodRepository struct {
	mock.Mock
}

func (m *MockFoodRepository) Create(ctx context.Context, e *intake.FoodEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockFoodRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*intake.FoodEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*intake.FoodEntry), args.Error(1)
}

func (m *MockFoodRepository) Latest(ctx context.Context, userID uuid.UUID) (*intake.FoodEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intake.FoodEntry), args.Error(1)
}

// MockDailyIntakeRepository provides a mock implementation of DailyIntakeRepository
type MockDailyIntakeRepository struct {
	mock.Mock
}

func (m *MockDailyIntakeRepository) Increment(ctx context.Context, userID uuid.UUID, day string, n intake.Nutrients) (*intake.DailyIntake, error) {
	args := m.Called(ctx, userID, day, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intake.DailyIntake), args.Error(1)
}

func (m *MockDailyIntakeRepository) Find(ctx context.Context, userID uuid.UUID, day string) (*intake.DailyIntake, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intake.DailyIntake), args.Error(1)
}

// MockCacheRepository is a mock implementation of the cache repository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockNutritionProvider provides a mock implementation of NutritionProvider
type MockNutritionProvider struct {
	mock.Mock
}

func (m *MockNutritionProvider) Name() string { return "mock" }

func (m *MockNutritionProvider) Lookup(ctx context.Context, food string) (nutrition.Facts, error) {
	args := m.Called(ctx, food)
	return args.Get(0).(nutrition.Facts), args.Error(1)
}

// MockTokenIssuer provides a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateAccessToken(userID uuid.UUID) (*outbound.AccessToken, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.AccessToken), args.Error(1)
}

// MockTokenRevoker provides a mock implementation of TokenRevoker
type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	return m.Called(ctx, tokenID, until).Error(0)
}

func (m *MockTokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// RecordingDispatcher collects dispatched events
type RecordingDispatcher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

// Dispatch records the event
func (d *RecordingDispatcher) Dispatch(e shared.DomainEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
	return nil
}

// Register is a no-op
func (d *RecordingDispatcher) Register(string, shared.EventHandler) {}

// Names returns the names of the recorded events in order
func (d *RecordingDispatcher) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.events))
	for _, e := range d.events {
		names = append(names, e.EventName())
	}
	return names
}

// Events returns the recorded events
func (d *RecordingDispatcher) Events() []shared.DomainEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]shared.DomainEvent(nil), d.events...)
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now implements outbound.Clock
func (c FixedClock) Now() time.Time { return c.At }

// InlineUnitOfWork runs the callback against the given repositories without a
// real transaction
type InlineUnitOfWork struct {
	Repos outbound.TxRepositories
}

// WithinTx implements outbound.UnitOfWork
func (u InlineUnitOfWork) WithinTx(_ context.Context, fn func(tx outbound.TxRepositories) error) error {
	return fn(u.Repos)
}
