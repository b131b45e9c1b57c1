package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

var (
	// MongoDB is the operational database
	MongoDB *mongo.Database
	// Redis client
	Redis *redisclient.Client
)

// indexSpec describes an index the API relies on
type indexSpec struct {
	collection func(*Config) string
	name       string
	keys       bson.D
	unique     bool
	sparse     bool
}

var requiredIndexes = []indexSpec{
	{collection: func(c *Config) string { return c.UserCollection }, name: "username_1", keys: bson.D{{Key: "username", Value: 1}}, unique: true},
	// cpf stays non-unique: the intake form does not prevent duplicates and the synchronizer tolerates them
	{collection: func(c *Config) string { return c.EmployeeCollection }, name: "cpf_1", keys: bson.D{{Key: "cpf", Value: 1}}},
	{collection: func(c *Config) string { return c.EmployeeCollection }, name: "nome_1", keys: bson.D{{Key: "nome", Value: 1}}},
	{collection: func(c *Config) string { return c.EmployeeCollection }, name: "updatedAt_1", keys: bson.D{{Key: "updatedAt", Value: 1}}},
	{collection: func(c *Config) string { return c.SupplierCollection }, name: "codigo_fornecedor_1", keys: bson.D{{Key: "codigo_fornecedor", Value: 1}}, unique: true, sparse: true},
	{collection: func(c *Config) string { return c.SupplierCollection }, name: "cnpj_1", keys: bson.D{{Key: "cnpj", Value: 1}}},
	{collection: func(c *Config) string { return c.SupplierTypeCollection }, name: "tipoFornecedor_1", keys: bson.D{{Key: "tipoFornecedor", Value: 1}}, unique: true},
	{collection: func(c *Config) string { return c.ClientCollection }, name: "cnpj_1", keys: bson.D{{Key: "cnpj", Value: 1}}},
	{collection: func(c *Config) string { return c.BranchCollection }, name: "filial_1", keys: bson.D{{Key: "filial", Value: 1}}, unique: true},
	{collection: func(c *Config) string { return c.PSLCollection }, name: "data_-1", keys: bson.D{{Key: "data", Value: -1}}},
	{collection: func(c *Config) string { return c.ActivityLogCollection }, name: "createdAt_-1", keys: bson.D{{Key: "createdAt", Value: -1}}},
	{collection: func(c *Config) string { return c.SyncStateCollection }, name: "key_1", keys: bson.D{{Key: "key", Value: 1}}, unique: true},
}

// ConnectMongo opens a traced MongoDB client and verifies it with a ping
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// InitMongoDB initializes the operational MongoDB connection and its indexes
func InitMongoDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, AppConfig.MongoURI)
	if err != nil {
		logging.Logger.Fatal("failed to initialize MongoDB",
			zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
			zap.Error(err))
	}

	MongoDB = client.Database(AppConfig.MongoDatabase)

	if err := EnsureIndexes(context.Background(), MongoDB); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}

	logging.Logger.Info("Connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
}

// InitRedis initializes the Redis connection. A failed ping is logged, not fatal:
// the cache and the login throttle degrade to no-ops.
func InitRedis() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	Redis = redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", AppConfig.RedisURI),
			zap.Error(err))
		return
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", AppConfig.RedisURI))
}

// maskMongoURI masks the credentials of a MongoDB URI
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at < 0 {
		return uri
	}
	scheme := "mongodb://"
	if strings.HasPrefix(uri, "mongodb+srv://") {
		scheme = "mongodb+srv://"
	}
	return scheme + "****:****@" + uri[at+1:]
}

// MaskMongoURI is the exported form used by commands that log foreign endpoints
func MaskMongoURI(uri string) string {
	return maskMongoURI(uri)
}

// EnsureIndexes creates required indexes if they don't exist
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	logger := logging.Logger.Named("database")
	logger.Info("ensuring required indexes exist")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, spec := range requiredIndexes {
		if err := ensureIndex(ctx, database.Collection(spec.collection(AppConfig)), spec, logger); err != nil {
			return err
		}
	}

	logger.Info("all required indexes verified")
	return nil
}

// ensureIndex creates one index unless an index with the same name already exists
func ensureIndex(ctx context.Context, collection *mongo.Collection, spec indexSpec, logger *logging.SafeLogger) error {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes of %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if name, ok := index["name"].(string); ok && name == spec.name {
			logger.Debug("index already exists",
				zap.String("collection", collection.Name()),
				zap.String("index", spec.name))
			return nil
		}
	}

	indexOptions := options.Index().SetName(spec.name)
	if spec.unique {
		indexOptions.SetUnique(true)
	}
	if spec.sparse {
		indexOptions.SetSparse(true)
	}

	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.keys, Options: indexOptions})
	if err != nil {
		// Another instance may have created it concurrently
		if mongo.IsDuplicateKeyError(err) {
			logger.Info("index already exists (created by another instance)",
				zap.String("collection", collection.Name()),
				zap.String("index", spec.name))
			return nil
		}
		return fmt.Errorf("failed to create index %s on %s: %w", spec.name, collection.Name(), err)
	}

	logger.Info("created index",
		zap.String("collection", collection.Name()),
		zap.String("index", spec.name))
	return nil
}
