package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// platformTimeLayout is the timestamp layout used by the row-level and tooling query surfaces.
const platformTimeLayout = "2006-01-02T15:04:05.000-0700"

// Record is one loosely typed row returned by a query surface. Accessors
// return the zero value of the requested type when the key is absent or
// holds a value of another type.
type Record map[string]interface{}

// Has reports whether key is present with a non-null value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the string stored under key.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Bool returns the boolean stored under key.
func (r Record) Bool(key string) bool {
	if b, ok := r[key].(bool); ok {
		return b
	}
	return false
}

// Float returns the number stored under key.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// Int returns the number stored under key, truncated to an integer.
func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
	}
	return int64(r.Float(key))
}

// Time parses the timestamp stored under key. Both the platform layout and
// RFC 3339 are accepted.
func (r Record) Time(key string) time.Time {
	s := r.String(key)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(platformTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}

// Map returns the nested object stored under key.
func (r Record) Map(key string) Record {
	switch v := r[key].(type) {
	case Record:
		return v
	case map[string]interface{}:
		return Record(v)
	}
	return nil
}

// List returns the array stored under key.
func (r Record) List(key string) []interface{} {
	if l, ok := r[key].([]interface{}); ok {
		return l
	}
	return nil
}

// SubRecords returns the rows of a nested subquery result ({"records": [...]})
// stored under key. An absent or null subquery yields an empty slice.
func (r Record) SubRecords(key string) []Record {
	nested := r.Map(key)
	if nested == nil {
		return []Record{}
	}
	return toRecords(nested.List("records"))
}

func toRecords(items []interface{}) []Record {
	out := make([]Record, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case Record:
			out = append(out, v)
		case map[string]interface{}:
			out = append(out, Record(v))
		}
	}
	return out
}

// Query describes one row-returning query.
type Query struct {
	SOQL string `json:"soql"`
	// Tooling targets the tooling variant of the query surface.
	Tooling bool `json:"tooling"`
	// QueryMore follows pagination until every row is read.
	QueryMore bool `json:"queryMore"`
}

// RowSet is the result of one Query.
type RowSet struct {
	Records []Record `json:"records"`
}

// First returns the first row and whether one exists.
func (rs RowSet) First() (Record, bool) {
	if len(rs.Records) == 0 {
		return nil, false
	}
	return rs.Records[0], true
}
