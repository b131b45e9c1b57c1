package utils

import (
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
)

// SnakeToCamel converts snake_case to camelCase ("data_admissao" -> "dataAdmissao").
// Keys starting with an underscore such as "_id" are left alone.
func SnakeToCamel(key string) string {
	if strings.HasPrefix(key, "_") || !strings.Contains(key, "_") {
		return key
	}

	parts := strings.Split(key, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// CamelizeKeys rewrites the keys of a document, nested documents and arrays included.
// When both "data_admissao" and "dataAdmissao" are present the camelCase value wins.
func CamelizeKeys(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for key, value := range doc {
		if SnakeToCamel(key) == key {
			out[key] = camelizeValue(value)
		}
	}
	for key, value := range doc {
		camel := SnakeToCamel(key)
		if camel == key {
			continue
		}
		if _, exists := out[camel]; !exists {
			out[camel] = camelizeValue(value)
		}
	}
	return out
}

func camelizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		return CamelizeKeys(v)
	case map[string]interface{}:
		return CamelizeKeys(bson.M(v))
	case bson.D:
		present := make(map[string]bool, len(v))
		for _, elem := range v {
			present[elem.Key] = true
		}
		out := make(bson.D, 0, len(v))
		for _, elem := range v {
			camel := SnakeToCamel(elem.Key)
			if camel != elem.Key && present[camel] {
				continue
			}
			out = append(out, bson.E{Key: camel, Value: camelizeValue(elem.Value)})
		}
		return out
	case bson.A:
		out := make(bson.A, len(v))
		for i, item := range v {
			out[i] = camelizeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = camelizeValue(item)
		}
		return out
	default:
		return v
	}
}
