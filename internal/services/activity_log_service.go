package services

import (
	"context"
	"fmt"
	"time"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ActivityLogService stores the user activity trail
type ActivityLogService struct {
	database *mongo.Database
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewActivityLogService creates a new activity log service instance
func NewActivityLogService(database *mongo.Database, logger *logging.SafeLogger) *ActivityLogService {
	return &ActivityLogService{database: database, logger: logger, now: time.Now}
}

func (s *ActivityLogService) collection() *mongo.Collection {
	return s.database.Collection(config.AppConfig.ActivityLogCollection)
}

// Latest returns the most recent entries, newest first
func (s *ActivityLogService) Latest(ctx context.Context) ([]models.ActivityLog, error) {
	entries := []models.ActivityLog{}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(models.ActivityLogLimit)
	if err := findAll(ctx, s.collection(), bson.M{}, &entries, opts); err != nil {
		return nil, err
	}
	return entries, nil
}

// Record validates and stores one entry
func (s *ActivityLogService) Record(ctx context.Context, entry *models.ActivityLog) (*models.ActivityLog, error) {
	entry.Normalize(s.now())
	if err := models.ValidationErr(entry.Validate()); err != nil {
		return nil, err
	}
	entry.ID = primitive.NilObjectID

	res, err := s.collection().InsertOne(ctx, entry)
	if err != nil {
		s.logger.Error("failed to record activity", zap.String("acao", entry.Acao), zap.Error(err))
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return entry, nil
}

// InsertBatch stores already normalized entries in one unordered bulk write
func (s *ActivityLogService) InsertBatch(ctx context.Context, entries []models.ActivityLog) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	operations := make([]mongo.WriteModel, 0, len(entries))
	for i := range entries {
		operations = append(operations, mongo.NewInsertOneModel().SetDocument(entries[i]))
	}

	result, err := s.collection().BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false))
	if err != nil {
		inserted := 0
		if result != nil {
			inserted = int(result.InsertedCount)
		}
		return inserted, fmt.Errorf("failed to insert activity batch: %w", err)
	}
	return int(result.InsertedCount), nil
}
