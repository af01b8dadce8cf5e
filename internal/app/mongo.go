package app

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/tasklist/internal/config"
	"github.com/adanyl0v/tasklist/internal/kv"
)

var globalMongoClient *mongo.Client

func mustConnectMongo() kv.Store {
	cfg := config.Global().Mongo

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout)

	var err error
	globalMongoClient, err = mongo.Connect(context.Background(), clientOpts)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to mongo")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = globalMongoClient.Ping(ctx, nil)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping mongo")
		panic(err)
	}
	globalLogger.Info().
		Str("database", cfg.Database).
		Str("collection", cfg.Collection).
		Msg("connected to mongo")

	collection := globalMongoClient.Database(cfg.Database).Collection(cfg.Collection)
	return kv.NewMongoStore(collection)
}

func disconnectMongo() {
	if globalMongoClient == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Global().Mongo.PingTimeout)
	defer cancel()

	err := globalMongoClient.Disconnect(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to disconnect from mongo")
		return
	}
	globalLogger.Info().Msg("disconnected from mongo")
}
