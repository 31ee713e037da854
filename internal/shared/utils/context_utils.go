package utils

import (
	"context"
	"errors"

	"github.com/vinodmerwade/OrgCheck/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRunIDNotFound    = errors.New("runID not found in context")
	ErrRunIDNotString   = errors.New("runID in context is not a string")
	ErrDatasetNotFound  = errors.New("dataset not found in context")
	ErrDatasetNotString = errors.New("dataset in context is not a string")
)

// WithRunID returns a copy of ctx carrying the correlation run id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, contextkeys.RunIDKey, runID)
}

// WithDataset returns a copy of ctx carrying the dataset name.
func WithDataset(ctx context.Context, dataset string) context.Context {
	return context.WithValue(ctx, contextkeys.DatasetKey, dataset)
}

// WithOrgID returns a copy of ctx carrying the org id.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, contextkeys.OrgIDKey, orgID)
}

// WithComponent returns a copy of ctx carrying the component name.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// GetRunIDFromContext retrieves the run id from the context.
// It returns an error if the run id is not found or is not a string.
func GetRunIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RunIDKey)
	if val == nil {
		return "", ErrRunIDNotFound
	}
	runID, ok := val.(string)
	if !ok {
		return "", ErrRunIDNotString
	}
	return runID, nil
}

// GetDatasetFromContext retrieves the dataset name from the context.
func GetDatasetFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.DatasetKey)
	if val == nil {
		return "", ErrDatasetNotFound
	}
	dataset, ok := val.(string)
	if !ok {
		return "", ErrDatasetNotString
	}
	return dataset, nil
}
