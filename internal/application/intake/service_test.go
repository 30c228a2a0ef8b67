package intake

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/intake"
	"github.com/macrotrack/api/internal/infrastructure/persistence/gorm"
	apperrors "github.com/macrotrack/api/pkg/errors"
	"github.com/macrotrack/api/test/testutils"
)

type IntakeServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	factory  *testutils.Factory
	profiles *gorm.GoalProfileRepository
	foods    *gorm.FoodRepository
	days     *gorm.DailyIntakeRepository
	service  *Service
	userID   uuid.UUID
	now      time.Time
}

func TestIntakeServiceSuite(t *testing.T) {
	suite.Run(t, new(IntakeServiceTestSuite))
}

func (suite *IntakeServiceTestSuite) SetupTest() {
	db := testutils.NewSQLiteDB(suite.T())
	suite.ctx = context.Background()
	suite.factory = testutils.NewFactory(11)
	suite.now = time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)

	u := suite.factory.User()
	suite.Require().NoError(gorm.NewUserRepository(db).Create(suite.ctx, u))
	suite.userID = u.ID()

	suite.profiles = gorm.NewGoalProfileRepository(db)
	suite.foods = gorm.NewFoodRepository(db)
	suite.days = gorm.NewDailyIntakeRepository(db)
	suite.service = suite.newService(time.UTC)
}

func (suite *IntakeServiceTestSuite) newService(loc *time.Location) *Service {
	return NewService(suite.foods, suite.days, suite.profiles,
		testutils.FixedClock{At: suite.now}, loc, zaptest.NewLogger(suite.T()))
}

func (suite *IntakeServiceTestSuite) TestAddFood() {
	suite.Run("ValidEntry_ShouldBeStored", func() {
		suite.SetupTest()
		gi := 36.0

		entry, err := suite.service.AddFood(suite.ctx, suite.userID, AddFoodCommand{
			FoodName:      "Apple",
			EnergyKcal:    52,
			ProteinG:      0.3,
			CarbG:         14,
			FatG:          0.2,
			FibreG:        2.4,
			GlycemicIndex: &gi,
		})

		suite.Require().NoError(err)
		suite.Equal("Apple", entry.FoodName)
		suite.Equal(suite.userID, entry.UserID)
		suite.Require().NotNil(entry.GlycemicIndex)
		suite.Equal(36.0, *entry.GlycemicIndex)
	})

	suite.Run("BlankName_ShouldFailValidation", func() {
		suite.SetupTest()

		_, err := suite.service.AddFood(suite.ctx, suite.userID, AddFoodCommand{FoodName: "  "})

		testutils.AssertAppError(suite.T(), err, apperrors.CodeValidationFailed, http.StatusBadRequest)
	})

	suite.Run("NegativeAmount_ShouldFailValidation", func() {
		suite.SetupTest()

		_, err := suite.service.AddFood(suite.ctx, suite.userID, AddFoodCommand{FoodName: "rice", CarbG: -1})

		testutils.AssertAppError(suite.T(), err, apperrors.CodeValidationFailed, http.StatusBadRequest)
	})
}

func (suite *IntakeServiceTestSuite) TestSelectedAndLatest() {
	suite.Run("NoFoods_ShouldReturnEmptyAndNotFound", func() {
		suite.SetupTest()

		entries, err := suite.service.SelectedFoods(suite.ctx, suite.userID)
		suite.Require().NoError(err)
		suite.NotNil(entries)
		suite.Empty(entries)

		_, err = suite.service.LatestFood(suite.ctx, suite.userID)
		testutils.AssertAppError(suite.T(), err, apperrors.CodeFoodNotFound, http.StatusNotFound)
	})

	suite.Run("SeveralFoods_ShouldReturnNewest", func() {
		suite.SetupTest()
		for i, name := range []string{"oats", "banana", "chicken"} {
			suite.service.clock = testutils.FixedClock{At: suite.now.Add(time.Duration(i) * time.Minute)}
			_, err := suite.service.AddFood(suite.ctx, suite.userID, AddFoodCommand{FoodName: name, EnergyKcal: 100})
			suite.Require().NoError(err)
		}

		entries, err := suite.service.SelectedFoods(suite.ctx, suite.userID)
		suite.Require().NoError(err)
		suite.Len(entries, 3)

		latest, err := suite.service.LatestFood(suite.ctx, suite.userID)
		suite.Require().NoError(err)
		suite.Equal("chicken", latest.FoodName)
	})
}

func (suite *IntakeServiceTestSuite) TestDashboard() {
	suite.Run("NothingLogged_ShouldReturnZeros", func() {
		suite.SetupTest()

		dash, err := suite.service.Dashboard(suite.ctx, suite.userID)

		suite.Require().NoError(err)
		suite.Equal("2024-03-01", dash.Day)
		suite.Zero(dash.Calories)
		suite.Equal(intake.DailyTotals{}, dash.Nutrients)
		suite.Nil(dash.Goals)
		suite.Nil(dash.Remaining)
	})

	suite.Run("Additions_ShouldAccumulate", func() {
		suite.SetupTest()
		add := DashboardCommand{EnergyKcal: 250, ProteinG: 20, CarbG: 30, FatG: 5, FibreG: 4}

		_, err := suite.service.AddToDashboard(suite.ctx, suite.userID, add)
		suite.Require().NoError(err)
		totals, err := suite.service.AddToDashboard(suite.ctx, suite.userID, add)
		suite.Require().NoError(err)

		suite.Equal(500.0, totals.Calories)
		suite.Equal(intake.DailyTotals{Protein: 40, Carbs: 60, Fats: 10, Fiber: 8}, totals.Nutrients)

		dash, err := suite.service.Dashboard(suite.ctx, suite.userID)
		suite.Require().NoError(err)
		suite.Equal(500.0, dash.Calories)
	})

	suite.Run("NegativeAmount_ShouldFailValidation", func() {
		suite.SetupTest()

		_, err := suite.service.AddToDashboard(suite.ctx, suite.userID, DashboardCommand{EnergyKcal: -5})

		testutils.AssertAppError(suite.T(), err, apperrors.CodeValidationFailed, http.StatusBadRequest)
	})

	suite.Run("Timezone_ShouldDecideTheDay", func() {
		suite.SetupTest()
		suite.service = suite.newService(time.FixedZone("UTC+2", 2*60*60))

		totals, err := suite.service.AddToDashboard(suite.ctx, suite.userID, DashboardCommand{EnergyKcal: 100})

		suite.Require().NoError(err)
		suite.Equal("2024-03-02", totals.Day)
	})

	suite.Run("WithGoals_ShouldReportRemaining", func() {
		suite.SetupTest()
		p, err := goals.NewProfile(80, 180, 30, "male", 1.55, 0)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.profiles.Upsert(suite.ctx, goals.NewGoalProfile(suite.userID, p, suite.now)))

		_, err = suite.service.AddToDashboard(suite.ctx, suite.userID,
			DashboardCommand{EnergyKcal: 759, ProteinG: 30, CarbG: 137, FatG: 27, FibreG: 9})
		suite.Require().NoError(err)

		dash, err := suite.service.Dashboard(suite.ctx, suite.userID)

		suite.Require().NoError(err)
		suite.Require().NotNil(dash.Remaining)
		suite.Equal(Remaining{Calories: 2000, Protein: 50, Carbs: 300, Fats: 50, Fiber: 30}, *dash.Remaining)
	})
}
