package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
)

type mockQueryRunner struct {
	mock.Mock
}

func (m *mockQueryRunner) RunQueries(ctx context.Context, queries []model.Query) ([]model.RowSet, error) {
	args := m.Called(ctx, queries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RowSet), args.Error(1)
}

type mockDescriber struct {
	mock.Mock
}

func (m *mockDescriber) Describe(ctx context.Context, objectName string) (*model.SObjectDescribe, error) {
	args := m.Called(ctx, objectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SObjectDescribe), args.Error(1)
}

type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) RecordCount(ctx context.Context, objectName string) (int64, error) {
	args := m.Called(ctx, objectName)
	return args.Get(0).(int64), args.Error(1)
}

type mockMetadataReader struct {
	mock.Mock
}

func (m *mockMetadataReader) ReadMetadata(ctx context.Context, kind string, ids []string) ([]repository.MetadataReadResult, error) {
	args := m.Called(ctx, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.MetadataReadResult), args.Error(1)
}

type mockBulkFetcher struct {
	mock.Mock
}

func (m *mockBulkFetcher) FetchBulk(ctx context.Context, kind string, ids []string, tolerated []string) ([]model.Record, error) {
	args := m.Called(ctx, kind, ids, tolerated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

type mockDependencyService struct {
	mock.Mock
}

func (m *mockDependencyService) ComputeDependencyGraph(ctx context.Context, rootIDs []string) (*model.DependencyGraph, error) {
	args := m.Called(ctx, rootIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DependencyGraph), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dst interface{}) error {
	return m.Called(ctx, key, dst).Error(0)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockSnapshotStore struct {
	mock.Mock
}

func (m *mockSnapshotStore) SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *mockSnapshotStore) ListSnapshots(ctx context.Context, dataset string, limit int64) ([]*model.Snapshot, error) {
	args := m.Called(ctx, dataset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Snapshot), args.Error(1)
}

// fixedScorer scores every entity with the same value.
type fixedScorer struct {
	value int
}

func (s fixedScorer) ComputeScore(_ context.Context, _ model.Scorable) (model.Score, error) {
	return model.Score{Value: s.value}, nil
}

// pathURLs renders links as kind/id/context.
type pathURLs struct{}

func (pathURLs) SetupURL(kind model.EntityKind, id string, ctx ...string) string {
	u := "/" + string(kind) + "/" + id
	for _, c := range ctx {
		u += "/" + c
	}
	return u
}

type recordingReporter struct {
	mu  sync.Mutex
	got []model.Progress
}

func (r *recordingReporter) Report(_ context.Context, p model.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, p)
}

func (r *recordingReporter) messages() []model.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Progress(nil), r.got...)
}
