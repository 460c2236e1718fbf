package historyrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionName = "status_changes"
	countersName   = "counters"
	sequenceKey    = "status_changes"
)

var (
	newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "sequence", Value: -1}}
	oldestFirst = bson.D{{Key: "created_at", Value: 1}, {Key: "sequence", Value: 1}}
)

// Connect opens a client and pings it, giving up after timeout.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, nil
}

// MongoHistoryRepository implements ports.StatusHistoryRepository on a
// MongoDB database. Sequences come from a counter document incremented
// atomically on every append.
type MongoHistoryRepository struct {
	changes  *mongo.Collection
	counters *mongo.Collection
	clock    ports.Clock
}

var _ ports.StatusHistoryRepository = (*MongoHistoryRepository)(nil)

func NewMongoHistoryRepository(db *mongo.Database, clock ports.Clock) *MongoHistoryRepository {
	return &MongoHistoryRepository{
		changes:  db.Collection(collectionName),
		counters: db.Collection(countersName),
		clock:    clock,
	}
}

// EnsureIndexes creates the indexes the queries rely on. It is idempotent.
func (r *MongoHistoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.changes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "entity_type", Value: 1},
			{Key: "entity_id", Value: 1},
			{Key: "created_at", Value: -1},
			{Key: "sequence", Value: -1},
		}},
		{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "sequence", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (r *MongoHistoryRepository) Append(ctx context.Context, entry history.Entry) (*history.Record, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	seq, err := r.nextSequence(ctx)
	if err != nil {
		return nil, err
	}

	createdAt := r.clock.Now().UTC().Truncate(time.Millisecond)
	doc := fromEntry(kernel.NewUUID(), seq, entry, createdAt)
	if _, err := r.changes.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	return toDomain(doc)
}

func (r *MongoHistoryRepository) Latest(
	ctx context.Context,
	entityType kernel.EntityType,
	entityID kernel.UUID,
) (*history.Record, error) {
	if err := errors.Join(entityType.Validate(), entityID.Validate()); err != nil {
		return nil, err
	}

	var doc statusChangeDocument
	err := r.changes.FindOne(ctx, entityFilter(entityType, entityID), options.FindOne().SetSort(newestFirst)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NewObjectNotFoundError("history of "+entityType.String(), entityID.String())
		}
		return nil, err
	}

	return toDomain(doc)
}

func (r *MongoHistoryRepository) Query(
	ctx context.Context,
	entityType kernel.EntityType,
	entityID kernel.UUID,
	from, to time.Time,
) ([]*history.Record, error) {
	if err := errors.Join(entityType.Validate(), entityID.Validate()); err != nil {
		return nil, err
	}

	filter := entityFilter(entityType, entityID)
	filter["created_at"] = bson.M{"$gte": from.UTC(), "$lte": to.UTC()}
	return r.find(ctx, filter, options.Find().SetSort(oldestFirst))
}

func (r *MongoHistoryRepository) List(
	ctx context.Context,
	entityType kernel.EntityType,
	entityID kernel.UUID,
	limit, offset int,
) ([]*history.Record, error) {
	if err := errors.Join(entityType.Validate(), entityID.Validate()); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(newestFirst).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, entityFilter(entityType, entityID), opts)
}

func (r *MongoHistoryRepository) Recent(
	ctx context.Context,
	entityType kernel.EntityType,
	since time.Time,
	limit int,
) ([]*history.Record, error) {
	if err := entityType.Validate(); err != nil {
		return nil, err
	}

	filter := bson.M{
		"entity_type": entityType.String(),
		"created_at":  bson.M{"$gte": since.UTC()},
	}
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, filter, opts)
}

func (r *MongoHistoryRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.changes.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoHistoryRepository) nextSequence(ctx context.Context) (int64, error) {
	var counter counterDocument
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": sequenceKey},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next history sequence: %w", err)
	}
	return counter.Value, nil
}

func (r *MongoHistoryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*history.Record, error) {
	cursor, err := r.changes.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []statusChangeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]*history.Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := toDomain(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func entityFilter(entityType kernel.EntityType, entityID kernel.UUID) bson.M {
	return bson.M{
		"entity_type": entityType.String(),
		"entity_id":   entityID.String(),
	}
}
