package archive

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names inside the archive database.
const (
	issuesCollection = "issues"
	daysCollection   = "day_entries"
)

// MongoStore persists the archive in two collections with keyed upserts:
// issues by date_str, day entries by (slug, date_str).
type MongoStore struct {
	client *mongo.Client
	issues *mongo.Collection
	days   *mongo.Collection
}

// mongoDayDoc is a DayEntry tagged with its owning slug for storage.
type mongoDayDoc struct {
	Slug     string `bson:"slug"`
	DayEntry `bson:",inline"`
}

// NewMongoStore connects to MongoDB and prepares the two collections.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client: client,
		issues: db.Collection(issuesCollection),
		days:   db.Collection(daysCollection),
	}, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Load reads the whole archive, newest first.
func (s *MongoStore) Load(ctx context.Context) (*State, error) {
	st := NewState()

	cursor, err := s.issues.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date_str", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("load issue index: %w", err)
	}
	if err := cursor.All(ctx, &st.Issues); err != nil {
		return nil, fmt.Errorf("decode issue index: %w", err)
	}

	dayCursor, err := s.days.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date_str", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("load source archive: %w", err)
	}
	var docs []mongoDayDoc
	if err := dayCursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode source archive: %w", err)
	}
	for _, doc := range docs {
		st.Sources[doc.Slug] = append(st.Sources[doc.Slug], doc.DayEntry)
	}

	return st, nil
}

// Save upserts every entry by its natural key. Day entries go first and the
// issue index last: the index is the record of which dates exist, so a
// failure in between leaves a readable archive rather than dangling index
// entries.
func (s *MongoStore) Save(ctx context.Context, st *State) error {
	upsert := options.Update().SetUpsert(true)

	for slug, entries := range st.Sources {
		for _, entry := range entries {
			doc := mongoDayDoc{Slug: slug, DayEntry: entry}
			filter := bson.M{"slug": slug, "date_str": entry.DateKey}
			if _, err := s.days.UpdateOne(ctx, filter, bson.M{"$set": doc}, upsert); err != nil {
				return fmt.Errorf("upsert day entry %s/%s: %w", slug, entry.DateKey, err)
			}
		}
	}

	for _, issue := range st.Issues {
		filter := bson.M{"date_str": issue.DateKey}
		if _, err := s.issues.UpdateOne(ctx, filter, bson.M{"$set": issue}, upsert); err != nil {
			return fmt.Errorf("upsert issue %s: %w", issue.DateKey, err)
		}
	}

	return nil
}
