package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inboxatlas/inboxatlas/pkg/category"
)

const mongoConnectTimeout = 10 * time.Second

// MongoStore implements Store on MongoDB for self-hosted deployments.
//
// Collections: categories, classifications, patterns, rules, drafts.
// Category documents use ObjectID identifiers; parent links store the
// parent's ObjectID hex so they survive JSON round trips.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to MongoDB and verifies the connection.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("store: mongo ping: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		coll string
		keys bson.D
		opts *options.IndexOptions
	}{
		{"categories", bson.D{{Key: "name", Value: 1}}, unique},
		{"classifications", bson.D{{Key: "email_id", Value: 1}}, unique},
		{"patterns", bson.D{{Key: "pattern_type", Value: 1}, {Key: "description", Value: 1}}, unique},
		{"rules", bson.D{{Key: "category", Value: 1}}, unique},
		{"drafts", bson.D{{Key: "email_id", Value: 1}}, nil},
	}

	for _, idx := range indexes {
		model := mongo.IndexModel{Keys: idx.keys, Options: idx.opts}
		if _, err := s.db.Collection(idx.coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("store: index on %s: %w", idx.coll, err)
		}
	}
	return nil
}

// mongoCategory is the categories document shape.
type mongoCategory struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	ParentID   string             `bson:"parent_id,omitempty"`
	EmailCount int                `bson:"email_count"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d mongoCategory) record() category.Record {
	rec := category.Record{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		EmailCount: d.EmailCount,
	}
	if d.ParentID != "" {
		rec.Parent = d.ParentID
	}
	return rec
}

// =============================================================================
// Categories
// =============================================================================

// UpsertCategory creates a category or re-parents an existing one.
func (s *MongoStore) UpsertCategory(ctx context.Context, name, parent string) (category.Record, error) {
	coll := s.db.Collection("categories")

	parentID := ""
	if parent != "" {
		var row mongoCategory
		err := coll.FindOne(ctx, bson.M{"name": parent}).Decode(&row)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return category.Record{}, fmt.Errorf("parent category %q: %w", parent, ErrNotFound)
		}
		if err != nil {
			return category.Record{}, err
		}
		parentID = row.ID.Hex()
	}

	update := bson.M{
		"$set":         bson.M{"parent_id": parentID},
		"$setOnInsert": bson.M{"name": name, "email_count": 0, "created_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var row mongoCategory
	if err := coll.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&row); err != nil {
		return category.Record{}, err
	}
	return row.record(), nil
}

// ListCategories returns all categories in insertion order (ObjectIDs
// are time-ordered).
func (s *MongoStore) ListCategories(ctx context.Context) ([]category.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.db.Collection("categories").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []category.Record
	for cur.Next(ctx) {
		var row mongoCategory
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.record())
	}
	return out, cur.Err()
}

// GetCategory returns a category by name.
func (s *MongoStore) GetCategory(ctx context.Context, name string) (category.Record, error) {
	var row mongoCategory
	err := s.db.Collection("categories").FindOne(ctx, bson.M{"name": name}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return category.Record{}, fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return category.Record{}, err
	}
	return row.record(), nil
}

// =============================================================================
// Classifications
// =============================================================================

// SaveClassification upserts by email id and bumps the category count
// for first-time ids.
func (s *MongoStore) SaveClassification(ctx context.Context, c Classification) error {
	if c.ClassifiedAt.IsZero() {
		c.ClassifiedAt = time.Now().UTC()
	}

	res, err := s.db.Collection("classifications").ReplaceOne(ctx,
		bson.M{"email_id": c.EmailID}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}

	if res.UpsertedCount > 0 {
		_, err = s.db.Collection("categories").UpdateOne(ctx,
			bson.M{"name": c.Category},
			bson.M{"$inc": bson.M{"email_count": 1}})
		if err != nil {
			return err
		}
	}
	return nil
}

// ListClassifications returns recent classifications, newest first.
func (s *MongoStore) ListClassifications(ctx context.Context, limit int) ([]Classification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "classified_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.db.Collection("classifications").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Classification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// Patterns, Rules, Drafts
// =============================================================================

// mongoPattern and mongoRule carry ObjectID identifiers; the shared
// record types use string ids, so documents are converted on read.
type mongoPattern struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Type        string             `bson:"pattern_type"`
	Description string             `bson:"description"`
	Confidence  float64            `bson:"confidence"`
	Examples    []string           `bson:"examples,omitempty"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type mongoRule struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Category       string             `bson:"category"`
	Tone           string             `bson:"tone"`
	Formality      string             `bson:"formality"`
	ResponseLength string             `bson:"response_length,omitempty"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

// SavePattern upserts a communication pattern.
func (s *MongoStore) SavePattern(ctx context.Context, p Pattern) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	update := bson.M{"$set": bson.M{
		"confidence": p.Confidence,
		"examples":   p.Examples,
		"updated_at": p.UpdatedAt,
	}}
	filter := bson.M{"pattern_type": p.Type, "description": p.Description}
	_, err := s.db.Collection("patterns").UpdateOne(ctx, filter, update,
		options.Update().SetUpsert(true))
	return err
}

// GetPatterns returns patterns, optionally filtered by type.
func (s *MongoStore) GetPatterns(ctx context.Context, patternType string) ([]Pattern, error) {
	filter := bson.M{}
	if patternType != "" {
		filter["pattern_type"] = patternType
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.db.Collection("patterns").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoPattern
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]Pattern, 0, len(docs))
	for _, d := range docs {
		out = append(out, Pattern{
			ID:          d.ID.Hex(),
			Type:        d.Type,
			Description: d.Description,
			Confidence:  d.Confidence,
			Examples:    d.Examples,
			UpdatedAt:   d.UpdatedAt,
		})
	}
	return out, nil
}

// SaveRule upserts the response rule for a category.
func (s *MongoStore) SaveRule(ctx context.Context, r ResponseRule) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}

	update := bson.M{"$set": bson.M{
		"tone":            r.Tone,
		"formality":       r.Formality,
		"response_length": r.ResponseLength,
		"updated_at":      r.UpdatedAt,
	}}
	_, err := s.db.Collection("rules").UpdateOne(ctx,
		bson.M{"category": r.Category}, update, options.Update().SetUpsert(true))
	return err
}

// GetRules returns response rules, optionally filtered by category.
func (s *MongoStore) GetRules(ctx context.Context, categoryName string) ([]ResponseRule, error) {
	filter := bson.M{}
	if categoryName != "" {
		filter["category"] = categoryName
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.db.Collection("rules").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoRule
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]ResponseRule, 0, len(docs))
	for _, d := range docs {
		out = append(out, ResponseRule{
			ID:             d.ID.Hex(),
			Category:       d.Category,
			Tone:           d.Tone,
			Formality:      d.Formality,
			ResponseLength: d.ResponseLength,
			UpdatedAt:      d.UpdatedAt,
		})
	}
	return out, nil
}

// SaveDraft stores a generated draft.
func (s *MongoStore) SaveDraft(ctx context.Context, d Draft) error {
	if d.Status == "" {
		d.Status = "pending"
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	doc := bson.M{
		"email_id":   d.EmailID,
		"subject":    d.Subject,
		"body":       d.Body,
		"status":     d.Status,
		"created_at": d.CreatedAt,
	}
	_, err := s.db.Collection("drafts").InsertOne(ctx, doc)
	return err
}

// =============================================================================
// Stats
// =============================================================================

// Stats counts documents per collection and derives email totals and
// depth from the category list.
func (s *MongoStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	counts := []struct {
		coll string
		dest *int
	}{
		{"categories", &st.Categories},
		{"classifications", &st.Classifications},
		{"patterns", &st.Patterns},
		{"rules", &st.Rules},
		{"drafts", &st.Drafts},
	}
	for _, c := range counts {
		n, err := s.db.Collection(c.coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			return Stats{}, err
		}
		*c.dest = int(n)
	}

	records, err := s.ListCategories(ctx)
	if err != nil {
		return Stats{}, err
	}
	f := category.BuildForest(records)
	st.Emails = f.TotalEmails()
	st.MaxDepth = f.MaxDepth()
	st.TopCategories = topCategories(records, 5)

	return st, nil
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
