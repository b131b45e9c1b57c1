package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grupolocar/locar-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocalStamp is the projection of a local employee used by the freshness check
type LocalStamp struct {
	CPF       interface{}
	Timestamp interface{}
}

// DocumentCursor streams documents; *mongo.Cursor satisfies it
type DocumentCursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// RemoteEmployeeStore is the intake side of the synchronizer
type RemoteEmployeeStore interface {
	// All reads every document in full
	All(ctx context.Context) ([]bson.M, error)
	// UpdatedSince streams documents whose updatedAt is after watermark
	UpdatedSince(ctx context.Context, watermark time.Time) (DocumentCursor, error)
	Close(ctx context.Context) error
}

// LocalEmployeeStore is the operational side of the synchronizer
type LocalEmployeeStore interface {
	// Stamps reads cpf and data_envio_local of every local document, in natural order
	Stamps(ctx context.Context) ([]LocalStamp, error)
	// UpsertByCPF writes the remote fields onto the document with the same cpf
	UpsertByCPF(ctx context.Context, doc bson.M) (inserted bool, err error)
	// UpsertByID writes an ordered batch keyed by _id
	UpsertByID(ctx context.Context, docs []bson.M) (inserted, updated int, err error)
	Watermark(ctx context.Context, key string) (time.Time, error)
	SaveWatermark(ctx context.Context, key string, watermark time.Time) error
	Close(ctx context.Context) error
}

// SyncConnector opens both sides of a run. Each call opens a fresh connection.
type SyncConnector interface {
	OpenRemote(ctx context.Context, uri string) (RemoteEmployeeStore, error)
	OpenLocal(ctx context.Context, uri string) (LocalEmployeeStore, error)
}

// MongoSyncConnector connects to MongoDB deployments with the official driver
type MongoSyncConnector struct {
	remoteDatabase   string
	remoteCollection string
	localDatabase    string
	localCollection  string
	stateCollection  string
}

// NewMongoSyncConnector builds a connector for the configured databases and collections
func NewMongoSyncConnector(cfg *config.Config) *MongoSyncConnector {
	return &MongoSyncConnector{
		remoteDatabase:   cfg.SyncRemoteDatabase,
		remoteCollection: cfg.SyncRemoteCollection,
		localDatabase:    cfg.SyncLocalDatabase,
		localCollection:  cfg.SyncLocalCollection,
		stateCollection:  cfg.SyncStateCollection,
	}
}

// OpenRemote connects to the intake deployment
func (c *MongoSyncConnector) OpenRemote(ctx context.Context, uri string) (RemoteEmployeeStore, error) {
	client, err := config.ConnectMongo(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote MongoDB: %w", err)
	}
	return &mongoRemoteStore{
		client:     client,
		collection: client.Database(c.remoteDatabase).Collection(c.remoteCollection),
	}, nil
}

// OpenLocal connects to the operational deployment
func (c *MongoSyncConnector) OpenLocal(ctx context.Context, uri string) (LocalEmployeeStore, error) {
	client, err := config.ConnectMongo(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to local MongoDB: %w", err)
	}
	database := client.Database(c.localDatabase)
	return &mongoLocalStore{
		client:     client,
		collection: database.Collection(c.localCollection),
		state:      database.Collection(c.stateCollection),
	}, nil
}

type mongoRemoteStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func (s *mongoRemoteStore) All(ctx context.Context) ([]bson.M, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query remote employees: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode remote employees: %w", err)
	}
	return docs, nil
}

func (s *mongoRemoteStore) UpdatedSince(ctx context.Context, watermark time.Time) (DocumentCursor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"updatedAt": bson.M{"$gt": watermark}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query remote employees since %s: %w", watermark.Format(time.RFC3339), err)
	}
	return cursor, nil
}

func (s *mongoRemoteStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoLocalStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	state      *mongo.Collection
}

func (s *mongoLocalStore) Stamps(ctx context.Context) ([]LocalStamp, error) {
	opts := options.Find().SetProjection(bson.M{"cpf": 1, "data_envio_local": 1})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query local employees: %w", err)
	}
	defer cursor.Close(ctx)

	var stamps []LocalStamp
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode local employee: %w", err)
		}
		stamps = append(stamps, LocalStamp{CPF: doc["cpf"], Timestamp: doc["data_envio_local"]})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read local employees: %w", err)
	}
	return stamps, nil
}

func (s *mongoLocalStore) UpsertByCPF(ctx context.Context, doc bson.M) (bool, error) {
	update := upsertUpdate(doc)
	result, err := s.collection.UpdateOne(ctx, bson.M{"cpf": doc["cpf"]}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return result.UpsertedCount > 0, nil
}

func (s *mongoLocalStore) UpsertByID(ctx context.Context, docs []bson.M) (int, int, error) {
	if len(docs) == 0 {
		return 0, 0, nil
	}
	writes := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		set := bson.M{}
		for k, v := range doc {
			if k != "_id" {
				set[k] = v
			}
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": doc["_id"]}).
			SetUpdate(bson.M{"$set": set}).
			SetUpsert(true))
	}

	result, err := s.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if result == nil {
		return 0, 0, err
	}
	return int(result.UpsertedCount), int(result.MatchedCount), err
}

func (s *mongoLocalStore) Watermark(ctx context.Context, key string) (time.Time, error) {
	var state struct {
		Watermark time.Time `bson:"watermark"`
	}
	err := s.state.FindOne(ctx, bson.M{"key": key}).Decode(&state)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read sync watermark: %w", err)
	}
	return state.Watermark, nil
}

func (s *mongoLocalStore) SaveWatermark(ctx context.Context, key string, watermark time.Time) error {
	_, err := s.state.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"watermark": watermark, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save sync watermark: %w", err)
	}
	return nil
}

func (s *mongoLocalStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// upsertUpdate sets every remote field but only assigns _id when the document is created,
// since _id is immutable on existing local documents
func upsertUpdate(doc bson.M) bson.M {
	set := bson.M{}
	for k, v := range doc {
		if k != "_id" {
			set[k] = v
		}
	}
	update := bson.M{"$set": set}
	if id, ok := doc["_id"]; ok {
		update["$setOnInsert"] = bson.M{"_id": id}
	}
	return update
}
