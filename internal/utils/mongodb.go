package utils

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultQueryTimeout is the default timeout for MongoDB queries issued by request handlers
const DefaultQueryTimeout = 10 * time.Second

// WithQueryTimeout bounds a MongoDB call with DefaultQueryTimeout
func WithQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultQueryTimeout)
}

// ContainsRegex builds a case-insensitive "contains" regex for a user supplied term
func ContainsRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(term)), Options: "i"}
}

// ExactRegex builds a case-insensitive whole-value regex, used for uniqueness checks on names
func ExactRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(term)) + "$", Options: "i"}
}

// AnyFieldContains builds an $or filter matching the term in any of the given fields
func AnyFieldContains(term string, fields ...string) bson.M {
	regex := ContainsRegex(term)
	clauses := make(bson.A, 0, len(fields))
	for _, field := range fields {
		clauses = append(clauses, bson.M{field: regex})
	}
	return bson.M{"$or": clauses}
}
