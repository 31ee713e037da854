package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
)

func TestIDMap_InsertCanonicalizes(t *testing.T) {
	m := NewIDMap[string](2)

	require.NoError(t, m.Insert("300000000000001AAA", "first"))
	require.NoError(t, m.Insert("300000000000002", "second"))

	v, ok := m.Get("300000000000001")
	require.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = m.Get("300000000000002XYZ")
	require.True(t, ok)
	assert.Equal(t, "second", v)

	assert.Equal(t, []string{"300000000000001", "300000000000002"}, m.Keys())
	assert.Equal(t, []string{"first", "second"}, m.Values())
	assert.Equal(t, 2, m.Len())
}

func TestIDMap_RejectsDuplicatesAcrossFormats(t *testing.T) {
	m := NewIDMap[int](0)
	require.NoError(t, m.Insert("300000000000001", 1))

	err := m.Insert("300000000000001AAA", 2)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	v, _ := m.Get("300000000000001")
	assert.Equal(t, 1, v)
}

func TestIDMap_RejectsEmptyID(t *testing.T) {
	var m IDMap[int]
	err := m.Insert("", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, m.Len())
}

func TestIDMap_JSONKeepsOrder(t *testing.T) {
	m := NewIDMap[int](3)
	require.NoError(t, m.Insert("c00000000000000", 3))
	require.NoError(t, m.Insert("a00000000000000", 1))
	require.NoError(t, m.Insert("b00000000000000", 2))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"c00000000000000":3,"a00000000000000":1,"b00000000000000":2}`, string(data))

	var back IDMap[int]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m.Keys(), back.Keys())
	assert.Equal(t, m.ToMap(), back.ToMap())
}

func TestIDMap_RangeStops(t *testing.T) {
	m := NewIDMap[int](3)
	for i, id := range []string{"a00000000000000", "b00000000000000", "c00000000000000"} {
		require.NoError(t, m.Insert(id, i))
	}
	var seen []string
	m.Range(func(id string, _ int) bool {
		seen = append(seen, id)
		return len(seen) < 2
	})
	assert.Equal(t, []string{"a00000000000000", "b00000000000000"}, seen)
}
