package archive

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/leymap/pkg/errors"
)

const (
	defaultMongoDatabase = "leymap"
	mongoCollection      = "layouts"
	mongoConnectTimeout  = 10 * time.Second
)

// MongoStore keeps records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses the named database, "leymap" when
// empty.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultMongoDatabase
	}
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(mongoConnectTimeout).
		SetServerSelectionTimeout(mongoConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "mongodb ping failed")
	}

	s := &MongoStore{client: client, coll: client.Database(database).Collection(mongoCollection)}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	return s, nil
}

// Save upserts r.
func (s *MongoStore) Save(ctx context.Context, r *Record) error {
	r.prepare()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save layout %s: %w", r.ID, err)
	}
	return nil
}

// Get loads one record.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var r Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "no archived layout %q", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load layout %s: %w", id, err)
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

// List returns summaries, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"layout": 0})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query layouts: %w", err)
	}
	defer cur.Close(ctx)

	var out []Summary
	for cur.Next(ctx) {
		var r Record
		if err := cur.Decode(&r); err != nil {
			return nil, fmt.Errorf("failed to decode layout: %w", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r.Summary())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating layouts: %w", err)
	}
	return out, nil
}

// Delete removes one record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete layout %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "no archived layout %q", id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
