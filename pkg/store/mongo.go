package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/waffleviz/waffle/pkg/dataset"
	"github.com/waffleviz/waffle/pkg/errors"
)

// mongoCollection is where dataset records live.
const mongoCollection = "datasets"

// MongoStore persists records in MongoDB for multi-instance deployments.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and uses the named database.
// The connection is verified with a ping before the store is returned.
func NewMongoStore(ctx context.Context, uri, db string) (*MongoStore, error) {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		col:    client.Database(db).Collection(mongoCollection),
	}, nil
}

// Put validates and stores a dataset under a fresh ID.
func (s *MongoStore) Put(ctx context.Context, ds dataset.Dataset) (*Record, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:        uuid.NewString(),
		Dataset:   ds,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "store dataset")
	}
	return rec, nil
}

// Get retrieves a record by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "load dataset %s", id)
	}
	return &rec, nil
}

// List returns all records, newest first.
func (s *MongoStore) List(ctx context.Context) ([]*Record, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "list datasets")
	}
	defer cur.Close(ctx)

	var recs []*Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "decode datasets")
	}
	return recs, nil
}

// Delete removes a record by ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, err, "delete dataset %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
