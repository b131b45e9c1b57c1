package services

import (
	"context"
	"fmt"
	"time"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// PSLService handles PSL occurrences
type PSLService struct {
	database *mongo.Database
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewPSLService creates a new PSL service instance
func NewPSLService(database *mongo.Database, logger *logging.SafeLogger) *PSLService {
	return &PSLService{database: database, logger: logger, now: time.Now}
}

func (s *PSLService) collection() *mongo.Collection {
	return s.database.Collection(config.AppConfig.PSLCollection)
}

// buildPSLFilter translates the query filter; Fim is inclusive
func buildPSLFilter(f models.PSLFilter) bson.M {
	filter := bson.M{}
	if filial := utils.UpperLettersOnly(f.Filial); filial != "" {
		filter["filial"] = filial
	}
	if ocorrencia := utils.NormalizeFreeText(f.Ocorrencia); ocorrencia != "" {
		filter["ocorrencia_psl"] = utils.ExactRegex(ocorrencia)
	}

	period := bson.M{}
	if !f.Inicio.IsZero() {
		period["$gte"] = f.Inicio
	}
	if !f.Fim.IsZero() {
		period["$lte"] = f.Fim
	}
	if len(period) > 0 {
		filter["data"] = period
	}
	return filter
}

// List returns the occurrences matching the filter, newest first
func (s *PSLService) List(ctx context.Context, f models.PSLFilter) ([]models.PSL, error) {
	records := []models.PSL{}
	opts := options.Find().SetSort(bson.D{{Key: "data", Value: -1}})
	if err := findAll(ctx, s.collection(), buildPSLFilter(f), &records, opts); err != nil {
		return nil, err
	}
	return records, nil
}

// Create validates and inserts an occurrence
func (s *PSLService) Create(ctx context.Context, record *models.PSL) (*models.PSL, error) {
	record.Normalize()
	if err := models.ValidationErr(record.Validate()); err != nil {
		return nil, err
	}

	now := s.now()
	record.ID = primitive.NilObjectID
	record.CreatedAt = now
	record.UpdatedAt = now

	res, err := s.collection().InsertOne(ctx, record)
	if err != nil {
		s.logger.Error("failed to create PSL", zap.String("filial", record.Filial), zap.Error(err))
		return nil, fmt.Errorf("failed to create PSL: %w", err)
	}
	record.ID = res.InsertedID.(primitive.ObjectID)
	return record, nil
}

// Update replaces an occurrence
func (s *PSLService) Update(ctx context.Context, id string, record *models.PSL) (*models.PSL, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var existing models.PSL
	if err := s.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
		return nil, notFound(err, models.ErrPSLNotFound)
	}

	record.Normalize()
	if err := models.ValidationErr(record.Validate()); err != nil {
		return nil, err
	}
	record.ID = oid
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = s.now()

	if _, err := s.collection().ReplaceOne(ctx, bson.M{"_id": oid}, record); err != nil {
		s.logger.Error("failed to update PSL", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update PSL: %w", err)
	}
	return record, nil
}
