package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/PhotoSearch/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArchivedPage is the stored form of an accepted page.
type ArchivedPage struct {
	ID        string      `bson:"_id"`
	Query     string      `bson:"query"`
	Page      domain.Page `bson:"page"`
	FetchedAt time.Time   `bson:"fetched_at"`
}

// MongoArchive keeps the latest copy of every (query, page) pair.
type MongoArchive struct {
	collection *mongo.Collection
	now        func() time.Time
}

// Ensure MongoArchive implements domain.PageArchive
var _ domain.PageArchive = (*MongoArchive)(nil)

func NewMongoArchive(client *mongo.Client, dbName, collectionName string) (*MongoArchive, error) {
	archive := &MongoArchive{
		collection: client.Database(dbName).Collection(collectionName),
		now:        func() time.Time { return time.Now().UTC() },
	}

	if err := archive.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return archive, nil
}

func (a *MongoArchive) createIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "query", Value: 1},
				{Key: "fetched_at", Value: -1},
			},
			Options: options.Index().SetName("query_fetched_at_idx"),
		},
	}

	opts := options.CreateIndexes().SetMaxTime(10 * time.Second)
	_, err := a.collection.Indexes().CreateMany(ctx, models, opts)
	return err
}

// PageKey is the document id of a page: the query and page number joined by '|'.
// Recent items use the empty query.
func PageKey(query string, pageNumber int) string {
	return query + "|" + strconv.Itoa(pageNumber)
}

func (a *MongoArchive) Save(ctx context.Context, query string, page *domain.Page) error {
	doc := ArchivedPage{
		ID:        PageKey(query, page.PageNumber),
		Query:     query,
		Page:      *page,
		FetchedAt: a.now(),
	}

	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := a.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to archive page %s: %w", doc.ID, err)
	}
	return nil
}

// Find returns the stored page, or nil when it was never archived.
func (a *MongoArchive) Find(ctx context.Context, query string, pageNumber int) (*ArchivedPage, error) {
	var doc ArchivedPage
	err := a.collection.FindOne(ctx, bson.M{"_id": PageKey(query, pageNumber)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load archived page: %w", err)
	}
	return &doc, nil
}
