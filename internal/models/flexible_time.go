package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FlexibleTime decodes dates stored either as BSON dates or as strings written by the intake form.
// A zero value means the field was missing, null or unparseable.
type FlexibleTime struct {
	time.Time
}

// NewFlexibleTime wraps t
func NewFlexibleTime(t time.Time) FlexibleTime {
	return FlexibleTime{Time: t}
}

// Valid reports whether a date was present
func (f FlexibleTime) Valid() bool {
	return !f.IsZero()
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler
func (f *FlexibleTime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var raw interface{}
	switch t {
	case bsontype.DateTime:
		var dt primitive.DateTime
		if err := bson.UnmarshalValue(t, data, &dt); err != nil {
			return fmt.Errorf("failed to decode date: %w", err)
		}
		raw = dt
	case bsontype.String:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return fmt.Errorf("failed to decode date string: %w", err)
		}
		raw = s
	default:
		f.Time = time.Time{}
		return nil
	}

	parsed, _ := utils.ParseFlexibleTime(raw)
	f.Time = parsed
	return nil
}

// MarshalBSONValue stores valid times as BSON dates and the zero value as null
func (f FlexibleTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if f.IsZero() {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(f.Time)
}

// UnmarshalJSON accepts null, RFC3339 and the form's local layouts
func (f *FlexibleTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		f.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		f.Time = time.Time{}
		return nil
	}
	parsed, ok := utils.ParseFlexibleTime(s)
	if !ok {
		return fmt.Errorf("invalid date %q", s)
	}
	f.Time = parsed
	return nil
}

// MarshalJSON renders the zero value as null
func (f FlexibleTime) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Time)
}

// FlexibleInt decodes counts stored as numbers or numeric strings ("2", "2.0").
// Anything else decodes as zero.
type FlexibleInt int

// UnmarshalBSONValue implements bson.ValueUnmarshaler
func (n *FlexibleInt) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Int32:
		*n = FlexibleInt(raw.Int32())
	case bsontype.Int64:
		*n = FlexibleInt(raw.Int64())
	case bsontype.Double:
		*n = FlexibleInt(math.Trunc(raw.Double()))
	case bsontype.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw.StringValue()), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = FlexibleInt(math.Trunc(parsed))
	default:
		*n = 0
	}
	return nil
}
