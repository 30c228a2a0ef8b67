package gorm_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/macrotrack/api/internal/domain/intake"
	"github.com/macrotrack/api/internal/domain/user"
	gormRepo "github.com/macrotrack/api/internal/infrastructure/persistence/gorm"
	"github.com/macrotrack/api/internal/ports/outbound"
	"github.com/macrotrack/api/test/testutils"
)

// RepositoryTestSuite runs the GORM repositories against in-memory SQLite
type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	factory *testutils.Factory

	users    *gormRepo.UserRepository
	profiles *gormRepo.GoalProfileRepository
	vitals   *gormRepo.VitalsRepository
	foods    *gormRepo.FoodRepository
	days     *gormRepo.DailyIntakeRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutils.NewSQLiteDB(s.T())
	s.factory = testutils.NewFactory(42)

	s.users = gormRepo.NewUserRepository(s.db)
	s.profiles = gormRepo.NewGoalProfileRepository(s.db)
	s.vitals = gormRepo.NewVitalsRepository(s.db)
	s.foods = gormRepo.NewFoodRepository(s.db)
	s.days = gormRepo.NewDailyIntakeRepository(s.db)
}

func (s *RepositoryTestSuite) createUser() *user.User {
	u := s.factory.User()
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RepositoryTestSuite) TestUserRepository() {
	s.Run("Create_ShouldRoundTrip", func() {
		u := s.createUser()

		byID, err := s.users.FindByID(s.ctx, u.ID())
		s.Require().NoError(err)
		s.Equal(u.Username(), byID.Username())
		s.Equal(u.Email(), byID.Email())
		s.NoError(byID.CheckPassword(testutils.TestPassword))

		byEmail, err := s.users.FindByEmail(s.ctx, "  "+u.Email()+" ")
		s.Require().NoError(err)
		s.Equal(u.ID(), byEmail.ID())

		byName, err := s.users.FindByUsername(s.ctx, u.Username())
		s.Require().NoError(err)
		s.Equal(u.ID(), byName.ID())
	})

	s.Run("DuplicateUsername_ShouldReturnErrDuplicate", func() {
		u := s.createUser()
		reg := s.factory.Registration()
		reg.Username = u.Username()
		dup, err := user.NewUser(reg, testutils.TestBCryptCost)
		s.Require().NoError(err)

		s.ErrorIs(s.users.Create(s.ctx, dup), outbound.ErrDuplicate)
	})

	s.Run("Missing_ShouldReturnErrNotFound", func() {
		_, err := s.users.FindByID(s.ctx, uuid.New())
		s.ErrorIs(err, outbound.ErrNotFound)
		s.ErrorIs(s.users.UpdateLastLogin(s.ctx, uuid.New(), time.Now()), outbound.ErrNotFound)
	})

	s.Run("UpdateLastLogin_ShouldPersist", func() {
		u := s.createUser()
		at := time.Now().UTC().Truncate(time.Second)
		s.Require().NoError(s.users.UpdateLastLogin(s.ctx, u.ID(), at))

		got, err := s.users.FindByID(s.ctx, u.ID())
		s.Require().NoError(err)
		s.Require().NotNil(got.LastLoginAt())
		s.WithinDuration(at, *got.LastLoginAt(), time.Second)
	})
}

func (s *RepositoryTestSuite) TestGoalProfileRepository() {
	u := s.createUser()

	exists, err := s.profiles.Exists(s.ctx, u.ID())
	s.Require().NoError(err)
	s.False(exists)

	_, err = s.profiles.FindByUserID(s.ctx, u.ID())
	s.ErrorIs(err, outbound.ErrNotFound)

	first := s.factory.GoalProfile(u.ID())
	s.Require().NoError(s.profiles.Upsert(s.ctx, first))

	second := s.factory.GoalProfile(u.ID())
	s.Require().NoError(s.profiles.Upsert(s.ctx, second))

	got, err := s.profiles.FindByUserID(s.ctx, u.ID())
	s.Require().NoError(err)
	s.InDelta(second.Profile.WeightKg, got.Profile.WeightKg, 1e-9)
	s.Equal(second.Goals, got.Goals)

	var rows int64
	s.Require().NoError(s.db.Model(&gormRepo.GoalProfileModel{}).Where("user_id = ?", u.ID()).Count(&rows).Error)
	s.Equal(int64(1), rows)
}

func (s *RepositoryTestSuite) TestVitalsRepository() {
	u := s.createUser()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.vitals.Create(s.ctx, s.factory.Reading(u.ID(), base.Add(time.Duration(i)*time.Minute))))
	}

	readings, err := s.vitals.ListByUserID(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Require().Len(readings, 3)
	s.True(readings[0].RecordedAt.After(readings[1].RecordedAt), "newest first")

	other, err := s.vitals.ListByUserID(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.Empty(other)
}

func (s *RepositoryTestSuite) TestFoodRepository() {
	u := s.createUser()

	_, err := s.foods.Latest(s.ctx, u.ID())
	s.ErrorIs(err, outbound.ErrNotFound)

	base := time.Now().UTC().Add(-time.Hour)
	var last *intake.FoodEntry
	for i := 0; i < 3; i++ {
		last = s.factory.FoodEntry(u.ID(), base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.foods.Create(s.ctx, last))
	}

	latest, err := s.foods.Latest(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Equal(last.ID, latest.ID)
	s.Equal(last.FoodName, latest.FoodName)
	s.Equal(last.Nutrients, latest.Nutrients)

	all, err := s.foods.ListByUserID(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *RepositoryTestSuite) TestDailyIntakeRepository() {
	u := s.createUser()
	day := "2026-10-15"

	_, err := s.days.Find(s.ctx, u.ID(), day)
	s.ErrorIs(err, outbound.ErrNotFound)

	add := intake.Nutrients{EnergyKcal: 100, ProteinG: 5, CarbG: 10, FatG: 2, FibreG: 1}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.days.Increment(s.ctx, u.ID(), day, add)
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.days.Find(s.ctx, u.ID(), day)
	s.Require().NoError(err)
	s.InDelta(500, got.Calories, 1e-9)
	s.InDelta(25, got.Nutrients.Protein, 1e-9)
	s.InDelta(5, got.Nutrients.Fiber, 1e-9)

	_, err = s.days.Find(s.ctx, u.ID(), "2026-10-16")
	s.ErrorIs(err, outbound.ErrNotFound)
}

func (s *RepositoryTestSuite) TestUnitOfWorkRollsBack() {
	u := s.createUser()
	uow := gormRepo.NewUnitOfWork(s.db)
	boom := errors.New("boom")

	err := uow.WithinTx(s.ctx, func(tx outbound.TxRepositories) error {
		s.Require().NoError(tx.Vitals.Create(s.ctx, s.factory.Reading(u.ID(), time.Now().UTC())))
		s.Require().NoError(tx.GoalProfiles.Upsert(s.ctx, s.factory.GoalProfile(u.ID())))
		return boom
	})
	s.ErrorIs(err, boom)

	readings, err := s.vitals.ListByUserID(s.ctx, u.ID())
	s.Require().NoError(err)
	s.Empty(readings)

	exists, err := s.profiles.Exists(s.ctx, u.ID())
	s.Require().NoError(err)
	s.False(exists)
}
