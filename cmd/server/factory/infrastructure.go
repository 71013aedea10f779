// Package factory provides dependency injection constructors for infrastructure components.
package factory

import (
	"context"
	"errors"
	"time"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/gateway"
	"github.com/PhotoSearch/internal/infra/queue"
	"github.com/PhotoSearch/internal/infra/repository"
	"github.com/PhotoSearch/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// NewMongoClient creates a MongoDB client with lifecycle management.
// It returns a nil client when the archive is disabled.
func NewMongoClient(lc fx.Lifecycle, cfg *config.Config) (*mongo.Client, error) {
	if !cfg.ArchiveEnabled() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

// NewPageArchive creates the MongoDB page archive, or nil when it is disabled.
func NewPageArchive(client *mongo.Client, cfg *config.Config) (domain.PageArchive, error) {
	if client == nil {
		return nil, nil
	}
	if cfg.MongoDBName == "" || cfg.MongoColl == "" {
		return nil, errors.New("mongo database or collection not configured")
	}
	return repository.NewMongoArchive(client, cfg.MongoDBName, cfg.MongoColl)
}

// NewEventProducer publishes screen states to Kafka, or to the log when no broker is set.
// The broadcaster owns the producer and closes it on stop.
func NewEventProducer(cfg *config.Config) (domain.EventProducer, error) {
	if !cfg.EventsEnabled() {
		return gateway.NewLogSink(), nil
	}
	if cfg.KafkaTopic == "" {
		return nil, errors.New("kafka topic not configured")
	}
	return queue.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic), nil
}
