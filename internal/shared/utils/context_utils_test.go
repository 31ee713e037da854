package utils

import (
	"context"
	"testing"

	"github.com/vinodmerwade/OrgCheck/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
)

func TestGetSetContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run1")
	ctx = WithDataset(ctx, "flows")
	ctx = WithOrgID(ctx, "org1")
	ctx = WithComponent(ctx, "componentA")

	runID, err := GetRunIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "run1", runID)

	dataset, err := GetDatasetFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "flows", dataset)

	assert.Equal(t, "org1", ctx.Value(contextkeys.OrgIDKey))
	assert.Equal(t, "componentA", ctx.Value(contextkeys.ComponentKey))
}

func TestGetContextValues_Errors(t *testing.T) {
	_, err := GetRunIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrRunIDNotFound)

	ctx := context.WithValue(context.Background(), contextkeys.RunIDKey, 42)
	_, err = GetRunIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrRunIDNotString)

	_, err = GetDatasetFromContext(context.Background())
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}
