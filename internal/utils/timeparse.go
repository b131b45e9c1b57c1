package utils

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BrazilLocation is used for date strings that carry no zone. Brazil has had no DST since 2019.
var BrazilLocation = time.FixedZone("BRT", -3*60*60)

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02",
}

// ParseFlexibleTime interprets the shapes a date takes across the two employee stores:
// BSON dates, Go times, epoch milliseconds and the string layouts used by the intake form.
// The boolean is false for nil, empty or unparseable values.
func ParseFlexibleTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case primitive.DateTime:
		return v.Time(), true
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0), true
	case int64:
		return time.UnixMilli(v), true
	case int32:
		return time.UnixMilli(int64(v)), true
	case float64:
		return time.UnixMilli(int64(v)), true
	case string:
		return parseTimeString(v)
	default:
		return time.Time{}, false
	}
}

func parseTimeString(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, BrazilLocation); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
