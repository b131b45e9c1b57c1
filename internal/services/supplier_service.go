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

// SupplierService handles suppliers and the supplier type list
type SupplierService struct {
	database  *mongo.Database
	sequences *SequenceService
	logger    *logging.SafeLogger
	now       func() time.Time
}

// NewSupplierService creates a new supplier service instance
func NewSupplierService(database *mongo.Database, logger *logging.SafeLogger) *SupplierService {
	return &SupplierService{
		database:  database,
		sequences: NewSequenceService(database, logger),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *SupplierService) collection() *mongo.Collection {
	return s.database.Collection(config.AppConfig.SupplierCollection)
}

func (s *SupplierService) typeCollection() *mongo.Collection {
	return s.database.Collection(config.AppConfig.SupplierTypeCollection)
}

// List returns the suppliers matching filtro, ordered by code
func (s *SupplierService) List(ctx context.Context, filtro string) ([]models.Supplier, error) {
	filter := bson.M{}
	if utils.FoldForSearch(filtro) != "" {
		filter = utils.AnyFieldContains(filtro, models.SupplierSearchFields...)
	}

	suppliers := []models.Supplier{}
	opts := options.Find().SetSort(bson.D{{Key: "codigo_fornecedor", Value: 1}})
	if err := findAll(ctx, s.collection(), filter, &suppliers, opts); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// NextCode previews the code the next supplier will receive
func (s *SupplierService) NextCode(ctx context.Context) (string, error) {
	return s.sequences.NextCode(ctx, CounterSuppliers, models.SupplierCodePrefix)
}

func (s *SupplierService) prepare(ctx context.Context, supplier *models.Supplier, exclude primitive.ObjectID) error {
	supplier.Normalize()
	if err := models.ValidationErr(supplier.Validate()); err != nil {
		return err
	}

	taken, err := existsExcept(ctx, s.collection(), bson.M{"cnpj": supplier.CNPJ}, exclude)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrDuplicateCNPJ
	}

	if supplier.CodigoFornecedor != "" {
		taken, err := existsExcept(ctx, s.collection(), bson.M{"codigo_fornecedor": supplier.CodigoFornecedor}, exclude)
		if err != nil {
			return err
		}
		if taken {
			return models.ErrDuplicateSupplierCode
		}
	}
	return nil
}

// Create validates and inserts a supplier, drawing a FORN code when none was given
func (s *SupplierService) Create(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := s.prepare(ctx, supplier, primitive.NilObjectID); err != nil {
		return nil, err
	}

	code, err := s.sequences.assignCode(ctx, CounterSuppliers, models.SupplierCodePrefix, supplier.CodigoFornecedor)
	if err != nil {
		return nil, err
	}
	supplier.CodigoFornecedor = code

	now := s.now()
	supplier.ID = primitive.NilObjectID
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	res, err := s.collection().InsertOne(ctx, supplier)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateSupplierCode
		}
		s.logger.Error("failed to create supplier", zap.String("cnpj", supplier.CNPJ), zap.Error(err))
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	supplier.ID = res.InsertedID.(primitive.ObjectID)
	return supplier, nil
}

// Update replaces the supplier's fields; the code and creation time are kept when omitted
func (s *SupplierService) Update(ctx context.Context, id string, supplier *models.Supplier) (*models.Supplier, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var existing models.Supplier
	if err := s.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
		return nil, notFound(err, models.ErrSupplierNotFound)
	}

	if supplier.CodigoFornecedor == "" {
		supplier.CodigoFornecedor = existing.CodigoFornecedor
	}
	if err := s.prepare(ctx, supplier, oid); err != nil {
		return nil, err
	}

	supplier.ID = oid
	supplier.CreatedAt = existing.CreatedAt
	supplier.UpdatedAt = s.now()

	if _, err := s.collection().ReplaceOne(ctx, bson.M{"_id": oid}, supplier); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateSupplierCode
		}
		s.logger.Error("failed to update supplier", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

// ListTypes returns the supplier types sorted by name
func (s *SupplierService) ListTypes(ctx context.Context) ([]models.SupplierType, error) {
	types := []models.SupplierType{}
	opts := options.Find().SetSort(bson.D{{Key: "tipoFornecedor", Value: 1}})
	if err := findAll(ctx, s.typeCollection(), bson.M{}, &types, opts); err != nil {
		return nil, err
	}
	return types, nil
}

func (s *SupplierService) prepareType(ctx context.Context, supplierType *models.SupplierType, exclude primitive.ObjectID) error {
	supplierType.Normalize()
	if err := models.ValidationErr(supplierType.Validate()); err != nil {
		return err
	}
	taken, err := existsExcept(ctx, s.typeCollection(), bson.M{"tipoFornecedor": utils.ExactRegex(supplierType.TipoFornecedor)}, exclude)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrDuplicateSupplierType
	}
	return nil
}

// CreateType adds a supplier type with a unique name
func (s *SupplierService) CreateType(ctx context.Context, supplierType *models.SupplierType) (*models.SupplierType, error) {
	if err := s.prepareType(ctx, supplierType, primitive.NilObjectID); err != nil {
		return nil, err
	}
	supplierType.ID = primitive.NilObjectID

	res, err := s.typeCollection().InsertOne(ctx, supplierType)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateSupplierType
		}
		return nil, fmt.Errorf("failed to create supplier type: %w", err)
	}
	supplierType.ID = res.InsertedID.(primitive.ObjectID)
	return supplierType, nil
}

// UpdateType renames a supplier type
func (s *SupplierService) UpdateType(ctx context.Context, id string, supplierType *models.SupplierType) (*models.SupplierType, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	if err := s.prepareType(ctx, supplierType, oid); err != nil {
		return nil, err
	}

	res, err := s.typeCollection().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"tipoFornecedor": supplierType.TipoFornecedor}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateSupplierType
		}
		return nil, fmt.Errorf("failed to update supplier type: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, models.ErrSupplierTypeNotFound
	}
	supplierType.ID = oid
	return supplierType, nil
}
