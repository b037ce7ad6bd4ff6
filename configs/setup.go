package configs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB connects to MongoDB and pings it before returning. Fatal on
// failure; there is nothing to serve without a database.
func ConnectDB(cfg *Config) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to MongoDB")
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("pinging MongoDB")
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("connected to MongoDB")
	return client
}

// GetCollection returns a handle to a named collection in the configured
// database.
func GetCollection(client *mongo.Client, cfg *Config, name string) *mongo.Collection {
	return client.Database(cfg.DatabaseName).Collection(name)
}
