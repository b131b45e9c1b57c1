package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grupolocar/locar-api/internal/models"
)

// parseObjectID converts a path id, reporting models.ErrInvalidID for malformed input
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, models.ErrInvalidID
	}
	return oid, nil
}

// existsExcept reports whether a document matches filter, ignoring the document with id exclude
func existsExcept(ctx context.Context, collection *mongo.Collection, filter bson.M, exclude primitive.ObjectID) (bool, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}
	if !exclude.IsZero() {
		query["_id"] = bson.M{"$ne": exclude}
	}
	count, err := collection.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check uniqueness in %s: %w", collection.Name(), err)
	}
	return count > 0, nil
}

// findAll decodes every document matching filter into out
func findAll(ctx context.Context, collection *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection.Name(), err)
	}
	return nil
}

// notFound maps mongo.ErrNoDocuments to the given sentinel
func notFound(err error, sentinel error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sentinel
	}
	return err
}
