package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"moviesapi/internal/config"
)

// MongoClientOptions translates the config into driver options.
func MongoClientOptions(c config.MongoConfig) (*options.ClientOptions, error) {
	if c.URI == "" || c.Database == "" || c.Collection == "" {
		return nil, fmt.Errorf("invalid mongo config: uri, database, and collection are required")
	}
	opts := options.Client().ApplyURI(c.URI).SetAppName("moviesapi")
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(c.MaxPoolSize))
	}
	if c.ConnectTimeoutSec > 0 {
		opts.SetConnectTimeout(time.Duration(c.ConnectTimeoutSec) * time.Second)
	}
	return opts, nil
}

// NewMongo connects to MongoDB, pings the primary and returns the client and
// the movies collection.
func NewMongo(ctx context.Context, c config.MongoConfig) (*mongo.Client, *mongo.Collection, error) {
	opts, err := MongoClientOptions(c)
	if err != nil {
		return nil, nil, err
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(c.Database).Collection(c.Collection), nil
}
