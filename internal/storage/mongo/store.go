// Package mongo provides MongoDB storage for discovered projects.
package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/storage"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection projects live in.
const CollectionName = "projects"

// Store is a storage.ProjectStore backed by MongoDB.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	projects *mongo.Collection
	now      func() time.Time
}

// NewStore connects, pings and prepares indexes.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(dbName)
	log.Info().Str("db", dbName).Msg("Connected to MongoDB")

	store := &Store{
		client:   client,
		db:       db,
		projects: db.Collection(CollectionName),
		now:      time.Now,
	}

	if err := store.createIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to create project indexes")
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// createIndexes creates the indexes the bot queries rely on.
func (s *Store) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "address", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "chain", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "risk_score", Value: 1}}},
		{Keys: bson.D{{Key: "pair_age_hours", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := s.projects.Indexes().CreateMany(ctx, indexes)
	return err
}

// InsertIfAbsent upserts every project with $setOnInsert so existing records keep their
// first-seen values. The bulk write is unordered: one bad document does not stop the rest.
func (s *Store) InsertIfAbsent(ctx context.Context, projects []models.Project) (storage.UpsertResult, error) {
	var res storage.UpsertResult
	if len(projects) == 0 {
		return res, nil
	}

	now := s.now().UTC()
	writes := make([]mongo.WriteModel, 0, len(projects))
	for _, p := range projects {
		if p.Address == "" {
			return res, storage.ErrEmptyAddress
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"address": p.Address}).
			SetUpdate(bson.M{"$setOnInsert": p}).
			SetUpsert(true))
	}

	out, err := s.projects.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	res = upsertResult(out)
	if err != nil {
		return res, fmt.Errorf("bulk insert projects: %w", err)
	}
	return res, nil
}

// upsertResult counts only acknowledged writes, so documents rejected by a failed bulk
// write are neither inserted nor existing.
func upsertResult(out *mongo.BulkWriteResult) storage.UpsertResult {
	if out == nil {
		return storage.UpsertResult{}
	}
	return storage.UpsertResult{
		Inserted: int(out.UpsertedCount),
		Existing: int(out.MatchedCount),
	}
}

// Find returns matching projects.
func (s *Store) Find(ctx context.Context, filter storage.Filter, opts storage.FindOptions) ([]models.Project, error) {
	findOpts := options.Find().SetSort(sortFor(opts.Sort))
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.projects.Find(ctx, buildFilter(filter), findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Count returns the number of matching projects.
func (s *Store) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	return s.projects.CountDocuments(ctx, buildFilter(filter))
}

func sortFor(order storage.SortOrder) bson.D {
	if order == storage.SortYoungest {
		return bson.D{
			{Key: "age_unknown", Value: 1},
			{Key: "pair_age_hours", Value: 1},
			{Key: "created_at", Value: -1},
			{Key: "address", Value: 1},
		}
	}
	return bson.D{{Key: "created_at", Value: -1}, {Key: "address", Value: 1}}
}

func buildFilter(f storage.Filter) bson.M {
	q := bson.M{}
	if f.Chain != "" {
		q["chain"] = f.Chain
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	switch {
	case f.Risk != "":
		q["risk_score"] = f.Risk
	case f.ExcludeRisk != "":
		q["risk_score"] = bson.M{"$ne": f.ExcludeRisk}
	}
	if f.HasTelegram {
		q["telegram"] = bson.M{"$nin": bson.A{"", nil}}
	}
	if f.MaxAgeHours > 0 {
		q["pair_age_hours"] = bson.M{"$lt": f.MaxAgeHours}
		q["age_unknown"] = bson.M{"$ne": true}
	}
	if f.NameContains != "" {
		q["name"] = bson.M{"$regex": regexp.QuoteMeta(f.NameContains), "$options": "i"}
	}
	return q
}
