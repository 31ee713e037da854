package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
)

// IDMap is an insertion-ordered container of entities keyed by canonical id.
// Every key goes through CaseSafeID, and a key may only be inserted once.
// The zero value is ready to use.
type IDMap[T any] struct {
	order []string
	items map[string]T
}

// NewIDMap creates an empty map sized for n entries.
func NewIDMap[T any](n int) *IDMap[T] {
	return &IDMap[T]{
		order: make([]string, 0, n),
		items: make(map[string]T, n),
	}
}

// Insert adds v under the canonical form of id. An absent id is a validation
// error and an id already present is a conflict.
func (m *IDMap[T]) Insert(id string, v T) error {
	key := CaseSafeID(id)
	if key == "" {
		return apperrors.NewValidationError("cannot insert an entity without id").WithComponent("idmap")
	}
	if m.items == nil {
		m.items = make(map[string]T)
	}
	if _, exists := m.items[key]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("duplicate id %s", key)).WithComponent("idmap").WithDetail("id", key)
	}
	m.items[key] = v
	m.order = append(m.order, key)
	return nil
}

// Get returns the entity stored under id, in any id format.
func (m *IDMap[T]) Get(id string) (T, bool) {
	v, ok := m.items[CaseSafeID(id)]
	return v, ok
}

// Len returns the number of entities.
func (m *IDMap[T]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Keys returns the ids in insertion order.
func (m *IDMap[T]) Keys() []string {
	return append([]string(nil), m.order...)
}

// Values returns the entities in insertion order.
func (m *IDMap[T]) Values() []T {
	out := make([]T, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.items[k])
	}
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *IDMap[T]) Range(fn func(id string, v T) bool) {
	for _, k := range m.order {
		if !fn(k, m.items[k]) {
			return
		}
	}
}

// ToMap returns a plain map copy.
func (m *IDMap[T]) ToMap() map[string]T {
	out := make(map[string]T, len(m.order))
	for _, k := range m.order {
		out[k] = m.items[k]
	}
	return out
}

// MarshalJSON encodes the map as a JSON object, keys in insertion order.
func (m *IDMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (m *IDMap[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("idmap: expected object, got %v", tok)
	}
	m.order = nil
	m.items = make(map[string]T)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("idmap: expected string key, got %v", tok)
		}
		var v T
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if err := m.Insert(key, v); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
