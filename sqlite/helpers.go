package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// marshalStrings encodes a string slice as a JSON array for TEXT column storage.
// A nil slice encodes as "[]" so columns never hold SQL NULL.
func marshalStrings(values []string) (string, error) {
	if values == nil {
		return "[]", nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(b), nil
}

// unmarshalStrings decodes a JSON array TEXT column into a string slice.
// Empty arrays decode to nil to keep zero values comparable.
func unmarshalStrings(value, fieldName string) ([]string, error) {
	if value == "" || value == "[]" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(value), &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", fieldName, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// marshalEmbedding encodes an embedding vector as a JSON array.
func marshalEmbedding(embedding []float32) (string, error) {
	if len(embedding) == 0 {
		return "", nil
	}
	b, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("failed to encode embedding: %w", err)
	}
	return string(b), nil
}

// unmarshalEmbedding decodes a JSON array embedding column.
func unmarshalEmbedding(value string) ([]float32, error) {
	if value == "" {
		return nil, nil
	}
	var out []float32
	if err := json.Unmarshal([]byte(value), &out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding: %w", err)
	}
	return out, nil
}
