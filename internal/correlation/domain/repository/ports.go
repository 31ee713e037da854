package repository

import (
	"context"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
)

// QueryRunner executes row-returning queries. It returns one RowSet per
// query, in the order of the input.
type QueryRunner interface {
	RunQueries(ctx context.Context, queries []model.Query) ([]model.RowSet, error)
}

// SchemaDescriber returns the full description of an object.
type SchemaDescriber interface {
	Describe(ctx context.Context, objectName string) (*model.SObjectDescribe, error)
}

// RecordCounter returns the live number of records of an object.
type RecordCounter interface {
	RecordCount(ctx context.Context, objectName string) (int64, error)
}

// APIError is one per-item error reported by the metadata surface.
type APIError struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// MetadataReadResult is the outcome of reading one id. Errors is empty when
// Record holds the item.
type MetadataReadResult struct {
	ID     string
	Record model.Record
	Errors []APIError
}

// MetadataReader reads full metadata for a batch of ids in a single call and
// reports the outcome per id. A returned error means the whole call failed.
type MetadataReader interface {
	ReadMetadata(ctx context.Context, kind string, ids []string) ([]MetadataReadResult, error)
}

// BulkFetcher retrieves full metadata for ids, silently dropping items that
// failed with one of the tolerated error codes.
type BulkFetcher interface {
	FetchBulk(ctx context.Context, kind string, ids []string, toleratedErrorCodes []string) ([]model.Record, error)
}

// DependencyService computes the who-uses-whom graph for a set of roots.
type DependencyService interface {
	ComputeDependencyGraph(ctx context.Context, rootIDs []string) (*model.DependencyGraph, error)
}

// URLBuilder produces user-facing setup links. The result is opaque.
type URLBuilder interface {
	SetupURL(kind model.EntityKind, id string, context ...string) string
}

// Scorer assigns a quality score to a built entity.
type Scorer interface {
	ComputeScore(ctx context.Context, entity model.Scorable) (model.Score, error)
}

// ResultCache remembers dataset results keyed by run parameters.
type ResultCache interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

// SnapshotStore archives completed runs.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error
	ListSnapshots(ctx context.Context, dataset string, limit int64) ([]*model.Snapshot, error)
}

// ProgressReporter receives progress messages while a run executes.
type ProgressReporter interface {
	Report(ctx context.Context, progress model.Progress)
}
