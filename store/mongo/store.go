// Package mongo stores lendbook blobs as documents in a MongoDB collection
// through Grove.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/lendbook"
	lendstore "github.com/xraph/lendbook/store"
)

// Collection name constants.
const (
	colBlobs = "lendbook_blobs"
)

// compile-time interface check
var _ lendstore.Store = (*Store)(nil)

type blobDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Open connects to MongoDB at uri. database overrides the name in the URI
// when non-empty.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	var opts []mongodriver.MongoOption
	if database != "" {
		opts = append(opts, mongodriver.WithDatabase(database))
	}

	drv := mongodriver.New()
	if err := drv.Open(ctx, uri, opts...); err != nil {
		return nil, fmt.Errorf("lendbook/mongo: open: %w", err)
	}
	db, err := grove.Open(drv)
	if err != nil {
		return nil, fmt.Errorf("lendbook/mongo: grove: %w", err)
	}
	return New(db), nil
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for the lendbook collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("lendbook/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc blobDoc
	err := s.mdb.Collection(colBlobs).
		FindOne(ctx, bson.M{"_id": key}).
		Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, lendbook.ErrKeyNotFound
		}
		return nil, fmt.Errorf("lendbook/mongo: get %q: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	update := bson.M{"$set": bson.M{
		"value":      string(value),
		"updated_at": now(),
	}}
	_, err := s.mdb.Collection(colBlobs).UpdateOne(ctx,
		bson.M{"_id": key},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("lendbook/mongo: set %q: %w", key, err)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for the lendbook collections.
// The blob key is the document _id, which is already unique.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colBlobs: {
			{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		},
	}
}
