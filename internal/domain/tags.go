// internal/domain/tags.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// Tags is the ordered tag sequence of a transaction.
// It is stored as a JSON array in a text column and decoded on every read, so
// filtering always runs against whole tags, never against the encoded form.
type Tags []string

// Contains reports whether tag is one of the tags (exact match).
func (t Tags) Contains(tag string) bool {
	return slices.Contains(t, tag)
}

// Value encodes the tags for storage. An empty sequence is stored as NULL.
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}

// Scan decodes stored tags. NULL, empty and "null" all yield an empty sequence.
func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}

	if len(raw) == 0 || string(raw) == "null" {
		*t = Tags{}
		return nil
	}
	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	if decoded == nil {
		decoded = []string{}
	}
	*t = decoded
	return nil
}

// MarshalJSON always renders an array, never null.
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
