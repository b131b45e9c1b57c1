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

// ClientService handles client business logic
type ClientService struct {
	database  *mongo.Database
	sequences *SequenceService
	logger    *logging.SafeLogger
	now       func() time.Time
}

// NewClientService creates a new client service instance
func NewClientService(database *mongo.Database, logger *logging.SafeLogger) *ClientService {
	return &ClientService{
		database:  database,
		sequences: NewSequenceService(database, logger),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ClientService) collection() *mongo.Collection {
	return s.database.Collection(config.AppConfig.ClientCollection)
}

// List returns the clients matching filtro in any searchable field, sorted by name
func (s *ClientService) List(ctx context.Context, filtro string) ([]models.Client, error) {
	filter := bson.M{}
	if utils.FoldForSearch(filtro) != "" {
		filter = utils.AnyFieldContains(filtro, models.ClientSearchFields...)
	}

	clients := []models.Client{}
	opts := options.Find().SetSort(bson.D{{Key: "cliente", Value: 1}})
	if err := findAll(ctx, s.collection(), filter, &clients, opts); err != nil {
		return nil, err
	}
	return clients, nil
}

// NextCode previews the code the next client will receive
func (s *ClientService) NextCode(ctx context.Context) (string, error) {
	return s.sequences.NextCode(ctx, CounterClients, models.ClientCodePrefix)
}

func (s *ClientService) prepare(ctx context.Context, client *models.Client, exclude primitive.ObjectID) error {
	client.Normalize()
	if err := models.ValidationErr(client.Validate()); err != nil {
		return err
	}
	taken, err := existsExcept(ctx, s.collection(), bson.M{"cnpj": client.CNPJ}, exclude)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrDuplicateCNPJ
	}
	return nil
}

// Create validates and inserts a client, drawing a code when none was given
func (s *ClientService) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := s.prepare(ctx, client, primitive.NilObjectID); err != nil {
		return nil, err
	}

	code, err := s.sequences.assignCode(ctx, CounterClients, models.ClientCodePrefix, client.CodigoCliente)
	if err != nil {
		return nil, err
	}
	client.CodigoCliente = code

	now := s.now()
	client.ID = primitive.NilObjectID
	client.CreatedAt = now
	client.UpdatedAt = now

	res, err := s.collection().InsertOne(ctx, client)
	if err != nil {
		s.logger.Error("failed to create client", zap.String("cnpj", client.CNPJ), zap.Error(err))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	client.ID = res.InsertedID.(primitive.ObjectID)
	return client, nil
}

// Update replaces the client's fields; the code and creation time are kept when omitted
func (s *ClientService) Update(ctx context.Context, id string, client *models.Client) (*models.Client, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var existing models.Client
	if err := s.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
		return nil, notFound(err, models.ErrClientNotFound)
	}

	if client.CodigoCliente == "" {
		client.CodigoCliente = existing.CodigoCliente
	}
	if err := s.prepare(ctx, client, oid); err != nil {
		return nil, err
	}

	client.ID = oid
	client.CreatedAt = existing.CreatedAt
	client.UpdatedAt = s.now()

	if _, err := s.collection().ReplaceOne(ctx, bson.M{"_id": oid}, client); err != nil {
		s.logger.Error("failed to update client", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}
