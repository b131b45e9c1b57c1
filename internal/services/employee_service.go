package services

import (
	"context"
	"fmt"
	"time"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/observability"
	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EmployeeService handles the HR employee records. Documents are kept as bson.M so
// fields written by the intake form and unknown to the API survive updates.
type EmployeeService struct {
	database    *mongo.Database
	cache       *CacheService
	attachments *AttachmentStore
	statsTTL    time.Duration
	logger      *logging.SafeLogger
	now         func() time.Time
}

// NewEmployeeService creates a new employee service; cache and attachments may be nil
func NewEmployeeService(database *mongo.Database, cache *CacheService, attachments *AttachmentStore, logger *logging.SafeLogger) *EmployeeService {
	return &EmployeeService{
		database:    database,
		cache:       cache,
		attachments: attachments,
		statsTTL:    config.AppConfig.StatsCacheTTL,
		logger:      logger.Named("employee_service"),
		now:         time.Now,
	}
}

func (s *EmployeeService) collection() *mongo.Collection {
	return s.database.Collection(config.AppConfig.EmployeeCollection)
}

// List returns every employee sorted by name
func (s *EmployeeService) List(ctx context.Context) ([]bson.M, error) {
	employees := []bson.M{}
	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})
	if err := findAll(ctx, s.collection(), bson.M{}, &employees, opts); err != nil {
		observability.DatabaseOperations.WithLabelValues("find", "error").Inc()
		return nil, err
	}
	observability.DatabaseOperations.WithLabelValues("find", "success").Inc()
	return employees, nil
}

// Search matches term case-insensitively against the searchable fields. An empty term lists everything.
func (s *EmployeeService) Search(ctx context.Context, term string) ([]bson.M, error) {
	if utils.FoldForSearch(term) == "" {
		return s.List(ctx)
	}

	filter := utils.AnyFieldContains(term, models.EmployeeSearchFields...)
	if digits := utils.OnlyDigits(term); len(digits) == 11 {
		filter["$or"] = append(filter["$or"].(bson.A), bson.M{"cpf": bson.M{"$in": utils.CPFVariants(digits)}})
	}

	employees := []bson.M{}
	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})
	if err := findAll(ctx, s.collection(), filter, &employees, opts); err != nil {
		return nil, err
	}
	return employees, nil
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, id string) (bson.M, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.getByObjectID(ctx, oid)
}

func (s *EmployeeService) getByObjectID(ctx context.Context, oid primitive.ObjectID) (bson.M, error) {
	var employee bson.M
	if err := s.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&employee); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// checkCPF rejects a CPF already used by another employee, masked or not
func (s *EmployeeService) checkCPF(ctx context.Context, doc bson.M, exclude primitive.ObjectID) error {
	cpf, ok := doc["cpf"].(string)
	if !ok || cpf == "" {
		return nil
	}
	taken, err := existsExcept(ctx, s.collection(), bson.M{"cpf": bson.M{"$in": utils.CPFVariants(cpf)}}, exclude)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrDuplicateCPF
	}
	return nil
}

// Create validates and inserts an employee. upload is nil for plain JSON requests.
func (s *EmployeeService) Create(ctx context.Context, input map[string]interface{}, upload *AttachmentUpload) (bson.M, error) {
	doc, result := models.PrepareEmployeeDocument(input, false)
	if err := models.ValidationErr(result); err != nil {
		return nil, err
	}
	if err := s.checkCPF(ctx, doc, primitive.NilObjectID); err != nil {
		return nil, err
	}

	change, err := s.applyAttachments(upload, nil)
	if err != nil {
		return nil, err
	}
	if change != nil {
		doc["arquivos"] = change.arquivos
	}

	now := s.now()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	res, err := s.collection().InsertOne(ctx, doc)
	if err != nil {
		s.discardAdded(change)
		observability.DatabaseOperations.WithLabelValues("insert", "error").Inc()
		s.logger.Error("failed to create employee", zap.String("cpf", observability.MaskCPF(fmt.Sprint(doc["cpf"]))), zap.Error(err))
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("insert", "success").Inc()
	doc["_id"] = res.InsertedID

	s.cache.InvalidateEmployeeStats(ctx)
	return doc, nil
}

// Update validates the fields present in input and sets them on the employee
func (s *EmployeeService) Update(ctx context.Context, id string, input map[string]interface{}, upload *AttachmentUpload) (bson.M, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	existing, err := s.getByObjectID(ctx, oid)
	if err != nil {
		return nil, err
	}

	doc, result := models.PrepareEmployeeDocument(input, true)
	if err := models.ValidationErr(result); err != nil {
		return nil, err
	}
	if err := s.checkCPF(ctx, doc, oid); err != nil {
		return nil, err
	}

	change, err := s.applyAttachments(upload, attachmentsOf(existing))
	if err != nil {
		return nil, err
	}
	if change != nil {
		doc["arquivos"] = change.arquivos
	}
	doc["updatedAt"] = s.now()

	if _, err := s.collection().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": doc}); err != nil {
		s.discardAdded(change)
		observability.DatabaseOperations.WithLabelValues("update", "error").Inc()
		s.logger.Error("failed to update employee", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("update", "success").Inc()

	if change != nil {
		s.attachments.Remove(change.removed...)
	}
	s.cache.InvalidateEmployeeStats(ctx)
	return s.getByObjectID(ctx, oid)
}

func (s *EmployeeService) applyAttachments(upload *AttachmentUpload, previous map[string][]string) (*attachmentChange, error) {
	if upload == nil {
		return nil, nil
	}
	if s.attachments == nil {
		return nil, fmt.Errorf("attachment store not configured")
	}
	return s.attachments.Apply(*upload, previous)
}

func (s *EmployeeService) discardAdded(change *attachmentChange) {
	if change != nil && s.attachments != nil {
		s.attachments.Remove(change.added...)
	}
}

// SituacaoStats counts employees per situacao, served from the cache when possible
func (s *EmployeeService) SituacaoStats(ctx context.Context) ([]models.SituacaoCount, error) {
	var stats []models.SituacaoCount
	if s.cache.GetJSON(ctx, CacheKeySituacaoStats, &stats) {
		return stats, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$ifNull": bson.A{"$situacao", ""}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := s.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate employee situations: %w", err)
	}
	defer cursor.Close(ctx)

	stats = []models.SituacaoCount{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode employee situations: %w", err)
	}

	if err := s.cache.SetJSON(ctx, CacheKeySituacaoStats, stats, s.statsTTL); err != nil {
		s.logger.Debug("statistics not cached", zap.Error(err))
	}
	return stats, nil
}

// GetIdealProfileConfig returns the stored criteria, or the zero config when none was saved
func (s *EmployeeService) GetIdealProfileConfig(ctx context.Context) (*models.IdealProfileConfig, error) {
	collection := s.database.Collection(config.AppConfig.SettingsCollection)

	var cfg models.IdealProfileConfig
	err := collection.FindOne(ctx, bson.M{"_id": models.IdealProfileSettingsKey}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		return &models.IdealProfileConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ideal profile config: %w", err)
	}
	return &cfg, nil
}

// SaveIdealProfileConfig validates and stores the criteria
func (s *EmployeeService) SaveIdealProfileConfig(ctx context.Context, cfg *models.IdealProfileConfig) error {
	if err := models.ValidationErr(cfg.Validate()); err != nil {
		return err
	}
	collection := s.database.Collection(config.AppConfig.SettingsCollection)

	_, err := collection.UpdateOne(ctx,
		bson.M{"_id": models.IdealProfileSettingsKey},
		bson.M{"$set": bson.M{
			"idade_min":             cfg.IdadeMin,
			"idade_max":             cfg.IdadeMax,
			"tempo_habilitacao_min": cfg.TempoHabilitacaoMin,
			"estado_civil":          cfg.EstadoCivil,
			"filhos_min":            cfg.FilhosMin,
			"updatedAt":             s.now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save ideal profile config: %w", err)
	}
	return nil
}

// IdealProfile lists the employees matching the stored criteria
func (s *EmployeeService) IdealProfile(ctx context.Context) ([]models.IdealProfileMatch, error) {
	cfg, err := s.GetIdealProfileConfig(ctx)
	if err != nil {
		return nil, err
	}

	var employees []models.Employee
	filter := bson.M{"situacao": bson.M{"$in": models.IdealProfileSituacoes}}
	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})
	if err := findAll(ctx, s.collection(), filter, &employees, opts); err != nil {
		return nil, err
	}

	now := s.now()
	matches := []models.IdealProfileMatch{}
	for i := range employees {
		if match, ok := cfg.Match(&employees[i], now); ok {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

// Birthdays returns employees born on the day and month of date, in Brazil time
func (s *EmployeeService) Birthdays(ctx context.Context, date time.Time) ([]models.Employee, error) {
	var employees []models.Employee
	filter := bson.M{"data_nascimento": bson.M{"$ne": nil}}
	if err := findAll(ctx, s.collection(), filter, &employees, options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})); err != nil {
		return nil, err
	}

	date = date.In(utils.BrazilLocation)
	matches := []models.Employee{}
	for _, e := range employees {
		if !e.DataNascimento.Valid() {
			continue
		}
		born := e.DataNascimento.Time.In(utils.BrazilLocation)
		if born.Month() == date.Month() && born.Day() == date.Day() {
			matches = append(matches, e)
		}
	}
	return matches, nil
}
