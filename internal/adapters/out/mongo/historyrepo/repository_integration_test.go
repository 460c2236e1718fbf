package historyrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fleet/internal/adapters/out/mongo/historyrepo"
	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/clock"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

var start = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)

type MongoHistoryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	client     *mongo.Client
	db         *mongo.Database
	clock      *clock.Fixed
	repository *historyrepo.MongoHistoryRepository
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForLog("Waiting for connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "27017")
	suite.Require().NoError(err)

	client, err := historyrepo.Connect(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()), 10*time.Second)
	suite.Require().NoError(err)
	suite.client = client
	suite.db = client.Database("fleet_test")
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(suite.db.Drop(ctx))
	suite.clock = clock.NewFixed(start)
	suite.repository = historyrepo.NewMongoHistoryRepository(suite.db, suite.clock)
	suite.Require().NoError(suite.repository.EnsureIndexes(ctx))
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	if suite.client != nil {
		suite.Require().NoError(suite.client.Disconnect(ctx))
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(ctx))
	}
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) append(entityType kernel.EntityType, id kernel.UUID, from, to, reason string) *history.Record {
	entry, err := history.NewEntry(entityType, id, from, to, reason)
	suite.Require().NoError(err)
	rec, err := suite.repository.Append(context.Background(), entry)
	suite.Require().NoError(err)
	return rec
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) TestAppend_AssignsIncreasingSequences() {
	id := kernel.NewUUID()

	first := suite.append(kernel.EntityTypeVehicle, id, "available", "in-shop", "brake check")
	second := suite.append(kernel.EntityTypeVehicle, id, "in-shop", "available", "")

	suite.Equal(first.Sequence()+1, second.Sequence())
	suite.Equal(start, first.CreatedAt())
	suite.Require().NotNil(first.Reason())
	suite.Equal("brake check", *first.Reason())
	suite.Nil(second.Reason())
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) TestLatest_RoundTripsTheRecord() {
	ctx := context.Background()
	id := kernel.NewUUID()
	suite.append(kernel.EntityTypeDriver, id, "on-duty", "off-duty", "")
	last := suite.append(kernel.EntityTypeDriver, id, "off-duty", "on-duty", "shift start")

	got, err := suite.repository.Latest(ctx, kernel.EntityTypeDriver, id)

	suite.Require().NoError(err)
	suite.Equal(last.ID(), got.ID())
	suite.Equal(last.Sequence(), got.Sequence())
	suite.Equal(kernel.EntityTypeDriver, got.EntityType())
	suite.Equal("off-duty", got.PreviousStatus())
	suite.Equal("on-duty", got.NewStatus())
	suite.Equal("shift start", got.ReasonText())
	suite.Equal(start, got.CreatedAt())
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) TestLatest_NoHistory_ReturnsNotFound() {
	_, err := suite.repository.Latest(context.Background(), kernel.EntityTypeTrip, kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) TestQuery_InclusiveRangeAscending() {
	ctx := context.Background()
	id := kernel.NewUUID()
	suite.append(kernel.EntityTypeTrip, id, "", "draft", "")
	suite.clock.Advance(time.Hour)
	dispatched := suite.append(kernel.EntityTypeTrip, id, "draft", "dispatched", "")
	suite.clock.Advance(time.Hour)
	completed := suite.append(kernel.EntityTypeTrip, id, "dispatched", "completed", "")

	got, err := suite.repository.Query(ctx, kernel.EntityTypeTrip, id, start.Add(time.Hour), start.Add(2*time.Hour))

	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal(dispatched.ID(), got[0].ID())
	suite.Equal(completed.ID(), got[1].ID())
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) TestList_PagesNewestFirst() {
	ctx := context.Background()
	id := kernel.NewUUID()
	var recs []*history.Record
	for _, to := range []string{"in-shop", "available", "on-trip", "available"} {
		recs = append(recs, suite.append(kernel.EntityTypeVehicle, id, "", to, ""))
	}

	page, err := suite.repository.List(ctx, kernel.EntityTypeVehicle, id, 2, 1)
	suite.Require().NoError(err)
	suite.Require().Len(page, 2)
	suite.Equal(recs[2].ID(), page[0].ID(), "same timestamp, sequence decides")
	suite.Equal(recs[1].ID(), page[1].ID())

	all, err := suite.repository.List(ctx, kernel.EntityTypeVehicle, id, 0, 0)
	suite.Require().NoError(err)
	suite.Len(all, 4)
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) TestRecent() {
	ctx := context.Background()
	suite.append(kernel.EntityTypeVehicle, kernel.NewUUID(), "available", "in-shop", "")
	suite.clock.Advance(2 * time.Hour)
	fresh := suite.append(kernel.EntityTypeVehicle, kernel.NewUUID(), "available", "in-shop", "")
	suite.append(kernel.EntityTypeDriver, kernel.NewUUID(), "on-duty", "off-duty", "")

	got, err := suite.repository.Recent(ctx, kernel.EntityTypeVehicle, start.Add(time.Hour), 10)

	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal(fresh.ID(), got[0].ID())
}

func (suite *MongoHistoryRepositoryIntegrationTestSuite) TestPurgeOlderThan() {
	ctx := context.Background()
	id := kernel.NewUUID()
	suite.append(kernel.EntityTypeVehicle, id, "available", "in-shop", "")
	suite.append(kernel.EntityTypeVehicle, id, "in-shop", "available", "")
	suite.clock.Advance(100 * 24 * time.Hour)
	kept := suite.append(kernel.EntityTypeVehicle, id, "available", "retired", "")

	purged, err := suite.repository.PurgeOlderThan(ctx, start.Add(90*24*time.Hour))

	suite.Require().NoError(err)
	suite.Equal(int64(2), purged)
	got, err := suite.repository.Latest(ctx, kernel.EntityTypeVehicle, id)
	suite.Require().NoError(err)
	suite.Equal(kept.ID(), got.ID())
}

func TestMongoHistoryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(MongoHistoryRepositoryIntegrationTestSuite))
}
