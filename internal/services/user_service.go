package services

import (
	"context"
	"errors"
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
	"golang.org/x/crypto/bcrypt"
)

// UserService manages API accounts. Password hashes never leave this service.
type UserService struct {
	database   *mongo.Database
	logger     *logging.SafeLogger
	bcryptCost int
	now        func() time.Time
}

// NewUserService creates a new user service instance
func NewUserService(database *mongo.Database, logger *logging.SafeLogger) *UserService {
	return &UserService{
		database:   database,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (s *UserService) collection() *mongo.Collection {
	return s.database.Collection(config.AppConfig.UserCollection)
}

func (s *UserService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// List returns every user sorted by username, without password hashes
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetProjection(bson.M{"password": 0})
	if err := findAll(ctx, s.collection(), bson.M{}, &users, opts); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByUsername returns the user including its password hash
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.collection().FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *UserService) checkUsername(ctx context.Context, username string, exclude primitive.ObjectID) error {
	taken, err := existsExcept(ctx, s.collection(), bson.M{"username": username}, exclude)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrDuplicateUsername
	}
	return nil
}

// Create validates the input and stores a new user with a hashed password
func (s *UserService) Create(ctx context.Context, input *models.UserInput) (*models.User, error) {
	input.Normalize()
	if err := models.ValidationErr(input.Validate(true)); err != nil {
		return nil, err
	}
	if err := s.checkUsername(ctx, input.Username, primitive.NilObjectID); err != nil {
		return nil, err
	}

	hashed, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		Username:         input.Username,
		Password:         hashed,
		Nome:             input.Nome,
		Email:            input.Email,
		Role:             input.Role,
		PermittedModules: input.PermittedModules,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	res, err := s.collection().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateUsername
		}
		s.logger.Error("failed to create user", zap.String("username", input.Username), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	user.Password = ""
	return user, nil
}

// Update changes the profile of a user; the password is replaced only when given
func (s *UserService) Update(ctx context.Context, id string, input *models.UserInput) (*models.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	input.Normalize()
	if err := models.ValidationErr(input.Validate(false)); err != nil {
		return nil, err
	}
	if err := s.checkUsername(ctx, input.Username, oid); err != nil {
		return nil, err
	}

	set := bson.M{
		"username":         input.Username,
		"nome":             input.Nome,
		"email":            input.Email,
		"role":             input.Role,
		"permittedModules": input.PermittedModules,
		"updatedAt":        s.now(),
	}
	if input.Password != "" {
		hashed, err := s.hash(input.Password)
		if err != nil {
			return nil, err
		}
		set["password"] = hashed
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0})

	var user models.User
	err = s.collection().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateUsername
		}
		return nil, notFound(err, models.ErrUserNotFound)
	}
	return &user, nil
}

// SetPassword replaces the password of a user
func (s *UserService) SetPassword(ctx context.Context, id string, password string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	if len(password) < models.MinPasswordLength {
		return models.ErrWeakPassword
	}

	hashed, err := s.hash(password)
	if err != nil {
		return err
	}
	res, err := s.collection().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"password": hashed, "updatedAt": s.now()}})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// EnsureUser creates the user unless the username already exists, reporting whether it was created
func (s *UserService) EnsureUser(ctx context.Context, input *models.UserInput) (bool, error) {
	_, err := s.Create(ctx, input)
	if errors.Is(err, models.ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
