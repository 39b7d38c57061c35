package sink

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/promiscuity/pkg/cache"
	"github.com/matzehuels/promiscuity/pkg/observability"
)

// DefaultDatabase and DefaultCollection are used when a MongoSink is
// created with empty names.
const (
	DefaultDatabase   = "promiscuity"
	DefaultCollection = "analyses"
)

// MongoSink inserts records into a MongoDB collection.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSink connects to uri and pings the primary.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: mongo ping: %v", cache.ErrNetwork, err)
	}
	return &MongoSink{client: client, coll: client.Database(database).Collection(collection)}, nil
}

// Write inserts rec, retrying transient failures with backoff.
func (s *MongoSink) Write(ctx context.Context, rec Record) error {
	start := time.Now()
	err := cache.RetryWithBackoff(ctx, func() error {
		if _, err := s.coll.InsertOne(ctx, rec); err != nil {
			if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
				return cache.Retryable(fmt.Errorf("%w: mongo insert: %v", cache.ErrNetwork, err))
			}
			return fmt.Errorf("mongo insert: %w", err)
		}
		return nil
	})
	observability.Sink().OnWrite(ctx, "mongo", time.Since(start), err)
	return err
}

// Count returns the number of stored records for runID.
func (s *MongoSink) Count(ctx context.Context, runID string) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"run_id": runID})
	if err != nil {
		return 0, fmt.Errorf("mongo count: %w", err)
	}
	return n, nil
}

// Close disconnects the client.
func (s *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Sink = (*MongoSink)(nil)
