package goals

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/vitals"
	"github.com/macrotrack/api/internal/infrastructure/persistence/gorm"
	"github.com/macrotrack/api/internal/infrastructure/persistence/memory"
	"github.com/macrotrack/api/internal/ports/outbound"
	apperrors "github.com/macrotrack/api/pkg/errors"
	"github.com/macrotrack/api/test/testutils"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func referenceCommand() SetGoalsCommand {
	return SetGoalsCommand{
		Height:        f64(180),
		Weight:        f64(80),
		Age:           intp(30),
		Gender:        "male",
		ActivityLevel: f64(1.55),
		WeightGoal:    f64(0),
	}
}

// GoalsServiceTestSuite runs the service against SQLite and the in-memory cache
type GoalsServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	cache      *memory.CacheRepository
	dispatcher *testutils.RecordingDispatcher
	users      *gorm.UserRepository
	service    *Service
	userID     uuid.UUID
	now        time.Time
}

func TestGoalsServiceSuite(t *testing.T) {
	suite.Run(t, new(GoalsServiceTestSuite))
}

func (suite *GoalsServiceTestSuite) SetupTest() {
	db := testutils.NewSQLiteDB(suite.T())
	suite.ctx = context.Background()
	suite.cache = memory.NewCacheRepository(time.Minute)
	suite.T().Cleanup(func() { _ = suite.cache.Close() })
	suite.dispatcher = &testutils.RecordingDispatcher{}
	suite.users = gorm.NewUserRepository(db)
	suite.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	u := testutils.NewFactory(7).User()
	suite.Require().NoError(suite.users.Create(suite.ctx, u))
	suite.userID = u.ID()

	suite.service = NewService(
		gorm.NewGoalProfileRepository(db),
		gorm.NewVitalsRepository(db),
		gorm.NewUnitOfWork(db),
		suite.cache,
		suite.dispatcher,
		testutils.FixedClock{At: suite.now},
		10*time.Minute,
		zaptest.NewLogger(suite.T()),
	)
}

func (suite *GoalsServiceTestSuite) TestSetGoals() {
	suite.Run("ReferenceProfile_ShouldComputeTargets", func() {
		suite.SetupTest()

		dto, err := suite.service.SetGoals(suite.ctx, suite.userID, referenceCommand())

		suite.Require().NoError(err)
		suite.Equal(24.69, dto.BMI)
		suite.Equal("Normal weight", dto.BMICategory)
		suite.Equal(2759, dto.MaintenanceCalories)
		suite.Equal(2759.0, dto.AdjustedCalories)
		suite.Equal(goals.Macros{Protein: 80, Carbs: 437, Fats: 77, Fiber: 39}, dto.DailyMacros)
		suite.Equal("Moderately Active", dto.ActivityLabel)
		suite.Equal([]string{goals.EventGoalsUpdated}, suite.dispatcher.Names())
	})

	suite.Run("ZeroWeightGoal_ShouldBeAccepted", func() {
		suite.SetupTest()
		cmd := referenceCommand()
		cmd.WeightGoal = f64(0)

		_, err := suite.service.SetGoals(suite.ctx, suite.userID, cmd)
		suite.NoError(err)
	})

	suite.Run("LossGoal_ShouldKeepMaintenanceSeparate", func() {
		suite.SetupTest()
		cmd := referenceCommand()
		cmd.WeightGoal = f64(-0.5)

		dto, err := suite.service.SetGoals(suite.ctx, suite.userID, cmd)

		suite.Require().NoError(err)
		suite.Equal(2759, dto.MaintenanceCalories)
		suite.Equal(2209.0, dto.AdjustedCalories)
	})

	suite.Run("MissingField_ShouldFailValidation", func() {
		suite.SetupTest()
		cmd := referenceCommand()
		cmd.WeightGoal = nil

		_, err := suite.service.SetGoals(suite.ctx, suite.userID, cmd)

		testutils.AssertAppError(suite.T(), err, apperrors.CodeValidationFailed, http.StatusBadRequest)
	})

	suite.Run("UnknownGender_ShouldFailValidation", func() {
		suite.SetupTest()
		cmd := referenceCommand()
		cmd.Gender = "other"

		_, err := suite.service.SetGoals(suite.ctx, suite.userID, cmd)

		testutils.AssertAppError(suite.T(), err, apperrors.CodeValidationFailed, http.StatusBadRequest)
		suite.Empty(suite.dispatcher.Names())
	})

	suite.Run("SecondWrite_ShouldReplaceFirst", func() {
		suite.SetupTest()
		_, err := suite.service.SetGoals(suite.ctx, suite.userID, referenceCommand())
		suite.Require().NoError(err)
		_, err = suite.service.GetGoals(suite.ctx, suite.userID)
		suite.Require().NoError(err)

		cmd := referenceCommand()
		cmd.Weight = f64(90)
		_, err = suite.service.SetGoals(suite.ctx, suite.userID, cmd)
		suite.Require().NoError(err)

		dto, err := suite.service.GetGoals(suite.ctx, suite.userID)
		suite.Require().NoError(err)
		suite.Equal(90.0, dto.Weight)
	})
}

func (suite *GoalsServiceTestSuite) TestGetGoals() {
	suite.Run("NoProfile_ShouldBeNotFound", func() {
		suite.SetupTest()

		_, err := suite.service.GetGoals(suite.ctx, suite.userID)

		testutils.AssertAppError(suite.T(), err, apperrors.CodeProfileNotFound, http.StatusNotFound)
	})

	suite.Run("StoredProfile_ShouldBeCached", func() {
		suite.SetupTest()
		_, err := suite.service.SetGoals(suite.ctx, suite.userID, referenceCommand())
		suite.Require().NoError(err)

		dto, err := suite.service.GetGoals(suite.ctx, suite.userID)
		suite.Require().NoError(err)
		suite.Equal(2759, dto.MaintenanceCalories)

		exists, err := suite.cache.Exists(suite.ctx, cacheKeyPrefix+suite.userID.String())
		suite.Require().NoError(err)
		suite.True(exists)
	})
}

func (suite *GoalsServiceTestSuite) TestRecordVitals() {
	suite.Run("NewWeight_ShouldRecomputeTargets", func() {
		suite.SetupTest()
		_, err := suite.service.SetGoals(suite.ctx, suite.userID, referenceCommand())
		suite.Require().NoError(err)
		_, err = suite.service.GetGoals(suite.ctx, suite.userID)
		suite.Require().NoError(err)

		res, err := suite.service.RecordVitals(suite.ctx, suite.userID, RecordVitalsCommand{
			SugarReading:  f64(95),
			WeightReading: f64(78),
		})

		suite.Require().NoError(err)
		suite.Equal(78.0, res.Vitals.WeightReading)
		suite.Equal(2728, res.UserDetails.MaintenanceCalories)
		suite.Equal(78.0, res.UserDetails.Weight)
		suite.Equal(180.0, res.UserDetails.Height)

		exists, err := suite.cache.Exists(suite.ctx, cacheKeyPrefix+suite.userID.String())
		suite.Require().NoError(err)
		suite.False(exists)

		suite.Equal([]string{
			goals.EventGoalsUpdated,
			goals.EventGoalsUpdated,
			vitals.EventRecorded,
		}, suite.dispatcher.Names())
	})

	suite.Run("NoProfile_ShouldBeNotFound", func() {
		suite.SetupTest()

		_, err := suite.service.RecordVitals(suite.ctx, suite.userID, RecordVitalsCommand{
			SugarReading:  f64(95),
			WeightReading: f64(78),
		})

		testutils.AssertAppError(suite.T(), err, apperrors.CodeProfileNotFound, http.StatusNotFound)

		history, err := suite.service.ListVitals(suite.ctx, suite.userID)
		suite.Require().NoError(err)
		suite.Empty(history.Vitals)
	})

	suite.Run("MissingReading_ShouldFailValidation", func() {
		suite.SetupTest()

		_, err := suite.service.RecordVitals(suite.ctx, suite.userID, RecordVitalsCommand{SugarReading: f64(95)})

		testutils.AssertAppError(suite.T(), err, apperrors.CodeValidationFailed, http.StatusBadRequest)
	})

	suite.Run("NonPositiveWeight_ShouldFailValidation", func() {
		suite.SetupTest()

		_, err := suite.service.RecordVitals(suite.ctx, suite.userID, RecordVitalsCommand{
			SugarReading:  f64(95),
			WeightReading: f64(0),
		})

		testutils.AssertAppError(suite.T(), err, apperrors.CodeValidationFailed, http.StatusBadRequest)
	})
}

func (suite *GoalsServiceTestSuite) TestListVitals() {
	suite.Run("Readings_ShouldBeNewestFirst", func() {
		suite.SetupTest()
		_, err := suite.service.SetGoals(suite.ctx, suite.userID, referenceCommand())
		suite.Require().NoError(err)

		for i, w := range []float64{80, 79, 78} {
			suite.service.clock = testutils.FixedClock{At: suite.now.Add(time.Duration(i) * time.Hour)}
			_, err := suite.service.RecordVitals(suite.ctx, suite.userID, RecordVitalsCommand{
				SugarReading:  f64(100),
				WeightReading: f64(w),
			})
			suite.Require().NoError(err)
		}

		history, err := suite.service.ListVitals(suite.ctx, suite.userID)

		suite.Require().NoError(err)
		suite.Require().Len(history.Vitals, 3)
		suite.Equal(78.0, history.Vitals[0].WeightReading)
		suite.Equal(history.Vitals[0], history.LatestVitals)
	})

	suite.Run("NoReadings_ShouldHaveNoLatest", func() {
		suite.SetupTest()

		history, err := suite.service.ListVitals(suite.ctx, suite.userID)

		suite.Require().NoError(err)
		suite.Nil(history.LatestVitals)
	})
}

func TestGetGoalsCacheErrorFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	gp := testutils.NewFactory(1).GoalProfile(userID)

	cache := new(testutils.MockCacheRepository)
	cache.On("Get", ctx, cacheKeyPrefix+userID.String()).Return(nil, errors.New("connection refused"))
	cache.On("Set", ctx, cacheKeyPrefix+userID.String(), mock.Anything, 10*time.Minute).Return(nil)

	profiles := new(testutils.MockGoalProfileRepository)
	profiles.On("FindByUserID", ctx, userID).Return(gp, nil)

	svc := NewService(profiles, nil, testutils.InlineUnitOfWork{}, cache,
		&testutils.RecordingDispatcher{}, outbound.SystemClock{}, 10*time.Minute, zaptest.NewLogger(t))

	dto, err := svc.GetGoals(ctx, userID)
	if err != nil {
		t.Fatalf("GetGoals: %v", err)
	}
	if dto.MaintenanceCalories != gp.Goals.MaintenanceCalories {
		t.Fatalf("maintenance = %d, want %d", dto.MaintenanceCalories, gp.Goals.MaintenanceCalories)
	}
	cache.AssertExpectations(t)
	profiles.AssertExpectations(t)
}
