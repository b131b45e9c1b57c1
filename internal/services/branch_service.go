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

// BranchService handles client branches
type BranchService struct {
	database *mongo.Database
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewBranchService creates a new branch service instance
func NewBranchService(database *mongo.Database, logger *logging.SafeLogger) *BranchService {
	return &BranchService{database: database, logger: logger, now: time.Now}
}

func (s *BranchService) collection() *mongo.Collection {
	return s.database.Collection(config.AppConfig.BranchCollection)
}

// List returns the branches matching filtro, ordered by branch code
func (s *BranchService) List(ctx context.Context, filtro string) ([]models.Branch, error) {
	filter := bson.M{}
	if utils.FoldForSearch(filtro) != "" {
		filter = utils.AnyFieldContains(filtro, models.BranchSearchFields...)
	}

	branches := []models.Branch{}
	opts := options.Find().SetSort(bson.D{{Key: "filial", Value: 1}})
	if err := findAll(ctx, s.collection(), filter, &branches, opts); err != nil {
		return nil, err
	}
	return branches, nil
}

func (s *BranchService) prepare(ctx context.Context, branch *models.Branch, exclude primitive.ObjectID) error {
	branch.Normalize()
	if err := models.ValidationErr(branch.Validate()); err != nil {
		return err
	}
	taken, err := existsExcept(ctx, s.collection(), bson.M{"filial": branch.Filial}, exclude)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrDuplicateBranch
	}
	return nil
}

// Create validates and inserts a branch
func (s *BranchService) Create(ctx context.Context, branch *models.Branch) (*models.Branch, error) {
	if err := s.prepare(ctx, branch, primitive.NilObjectID); err != nil {
		return nil, err
	}

	now := s.now()
	branch.ID = primitive.NilObjectID
	branch.CreatedAt = now
	branch.UpdatedAt = now

	res, err := s.collection().InsertOne(ctx, branch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateBranch
		}
		s.logger.Error("failed to create branch", zap.String("filial", branch.Filial), zap.Error(err))
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	branch.ID = res.InsertedID.(primitive.ObjectID)
	return branch, nil
}

// Update replaces the branch's fields
func (s *BranchService) Update(ctx context.Context, id string, branch *models.Branch) (*models.Branch, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var existing models.Branch
	if err := s.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
		return nil, notFound(err, models.ErrBranchNotFound)
	}
	if err := s.prepare(ctx, branch, oid); err != nil {
		return nil, err
	}

	branch.ID = oid
	branch.CreatedAt = existing.CreatedAt
	branch.UpdatedAt = s.now()

	if _, err := s.collection().ReplaceOne(ctx, bson.M{"_id": oid}, branch); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateBranch
		}
		s.logger.Error("failed to update branch", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}
	return branch, nil
}
