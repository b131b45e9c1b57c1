package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Counter names in the counters collection
const (
	CounterClients   = "clientes"
	CounterSuppliers = "fornecedores"
)

// SequenceService hands out increasing numbers from the counters collection
type SequenceService struct {
	database *mongo.Database
	logger   *logging.SafeLogger
}

// NewSequenceService creates a new sequence service
func NewSequenceService(database *mongo.Database, logger *logging.SafeLogger) *SequenceService {
	return &SequenceService{database: database, logger: logger}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// Next atomically increments and returns the counter
func (s *SequenceService) Next(ctx context.Context, name string) (int64, error) {
	collection := s.database.Collection(config.AppConfig.CounterCollection)
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter counterDoc
	err := collection.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		s.logger.Error("failed to increment counter", zap.String("counter", name), zap.Error(err))
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	return counter.Seq, nil
}

// Peek returns the value the next call to Next will hand out, without consuming it
func (s *SequenceService) Peek(ctx context.Context, name string) (int64, error) {
	collection := s.database.Collection(config.AppConfig.CounterCollection)

	var counter counterDoc
	err := collection.FindOne(ctx, bson.M{"_id": name}).Decode(&counter)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	return counter.Seq + 1, nil
}

// EnsureAtLeast raises the counter to value when it is behind, so imported codes are never reissued
func (s *SequenceService) EnsureAtLeast(ctx context.Context, name string, value int64) error {
	collection := s.database.Collection(config.AppConfig.CounterCollection)
	_, err := collection.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"seq": value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to raise counter %s: %w", name, err)
	}
	return nil
}

// sequenceValue extracts the counter value of a PREFIX-0000000001 code
func sequenceValue(prefix, code string) (int64, bool) {
	if !models.IsSequenceCode(prefix, code) {
		return 0, false
	}
	value, err := strconv.ParseInt(code[len(prefix)+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// assignCode returns code when it is set, raising the counter past it, or draws a new one
func (s *SequenceService) assignCode(ctx context.Context, counter, prefix, code string) (string, error) {
	if code != "" {
		if value, ok := sequenceValue(prefix, code); ok {
			if err := s.EnsureAtLeast(ctx, counter, value); err != nil {
				return "", err
			}
		}
		return code, nil
	}
	next, err := s.Next(ctx, counter)
	if err != nil {
		return "", err
	}
	return models.FormatSequenceCode(prefix, next), nil
}

// NextCode previews the next code of a counter
func (s *SequenceService) NextCode(ctx context.Context, counter, prefix string) (string, error) {
	next, err := s.Peek(ctx, counter)
	if err != nil {
		return "", err
	}
	return models.FormatSequenceCode(prefix, next), nil
}
