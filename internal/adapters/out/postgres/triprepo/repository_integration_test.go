package triprepo_test

import (
	"context"
	"testing"
	"time"

	"fleet/internal/adapters/out/postgres/triprepo"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TripRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *triprepo.GormTripRepository
}

func (suite *TripRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&triprepo.TripDTO{}))
}

func (suite *TripRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE trips").Error)
	suite.repository = triprepo.NewGormTripRepository(suite.db)
}

func (suite *TripRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *TripRepositoryIntegrationTestSuite) addTrip(vehicleID, driverID kernel.UUID, status trip.Status) *trip.Trip {
	t, err := trip.NewTrip(kernel.NewUUID(), vehicleID, driverID, 1200)
	suite.Require().NoError(err)
	suite.Require().NoError(t.SetStatus(status))
	suite.Require().NoError(suite.repository.Add(context.Background(), t))
	return t
}

func (suite *TripRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrips() {
	ctx := context.Background()
	vehicleID, driverID := kernel.NewUUID(), kernel.NewUUID()
	t := suite.addTrip(vehicleID, driverID, trip.Draft)

	got, err := suite.repository.Get(ctx, t.ID())

	suite.Require().NoError(err)
	suite.Equal(vehicleID, got.VehicleID())
	suite.Equal(driverID, got.DriverID())
	suite.Equal(trip.Draft, got.Status())
	suite.InDelta(1200, got.CargoWeight(), 0)
	suite.Nil(got.StartOdometer())
	suite.Nil(got.EndOdometer())
}

func (suite *TripRepositoryIntegrationTestSuite) TestUpdate_Odometers() {
	ctx := context.Background()
	t := suite.addTrip(kernel.NewUUID(), kernel.NewUUID(), trip.Draft)

	suite.Require().NoError(t.StartAt(100))
	suite.Require().NoError(t.FinishAt(250))
	suite.Require().NoError(t.SetStatus(trip.Completed))
	suite.Require().NoError(suite.repository.Update(ctx, t))

	got, err := suite.repository.Get(ctx, t.ID())
	suite.Require().NoError(err)
	suite.Equal(trip.Completed, got.Status())
	suite.Require().NotNil(got.StartOdometer())
	suite.Require().NotNil(got.EndOdometer())
	suite.InDelta(100, *got.StartOdometer(), 0)
	suite.InDelta(250, *got.EndOdometer(), 0)
}

func (suite *TripRepositoryIntegrationTestSuite) TestUpdateStatus_Missing_ReturnsNotFound() {
	err := suite.repository.UpdateStatus(context.Background(), kernel.NewUUID(), trip.Cancelled)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *TripRepositoryIntegrationTestSuite) TestCountDispatched() {
	ctx := context.Background()
	vehicleID, driverID := kernel.NewUUID(), kernel.NewUUID()
	suite.addTrip(vehicleID, driverID, trip.Dispatched)
	suite.addTrip(vehicleID, kernel.NewUUID(), trip.Dispatched)
	suite.addTrip(vehicleID, driverID, trip.Completed)
	suite.addTrip(kernel.NewUUID(), driverID, trip.Draft)

	byVehicle, err := suite.repository.CountDispatchedByVehicle(ctx, vehicleID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), byVehicle)

	byDriver, err := suite.repository.CountDispatchedByDriver(ctx, driverID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), byDriver)

	none, err := suite.repository.CountDispatchedByDriver(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Zero(none)
}

func (suite *TripRepositoryIntegrationTestSuite) TestGetAll() {
	suite.addTrip(kernel.NewUUID(), kernel.NewUUID(), trip.Draft)
	suite.addTrip(kernel.NewUUID(), kernel.NewUUID(), trip.Cancelled)

	got, err := suite.repository.GetAll(context.Background())

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func TestTripRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(TripRepositoryIntegrationTestSuite))
}
