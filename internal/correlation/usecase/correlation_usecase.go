package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/eventbus"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
	"github.com/vinodmerwade/OrgCheck/internal/shared/utils"
)

// CorrelationUsecase runs datasets and manages their cached results and snapshots.
type CorrelationUsecase interface {
	// RunFlows returns the flow definitions keyed by canonical id.
	RunFlows(ctx context.Context, useCache bool) (*FlowsResult, error)
	// RunObject returns one fully assembled object.
	RunObject(ctx context.Context, apiName string, useCache bool) (*ObjectResult, error)
	// InvalidateCache removes the cached result of a dataset, or every cached
	// result when dataset is empty.
	InvalidateCache(ctx context.Context, dataset string, params model.RunParameters) error
	// ListSnapshots returns the latest archived runs of a dataset.
	ListSnapshots(ctx context.Context, dataset string, limit int64) ([]*model.Snapshot, error)
}

// RunInfo describes one execution.
type RunInfo struct {
	RunID     string              `json:"runId"`
	Dataset   string              `json:"dataset"`
	Params    model.RunParameters `json:"parameters"`
	FromCache bool                `json:"fromCache"`
	StartedAt time.Time           `json:"startedAt"`
	Duration  time.Duration       `json:"durationNs"`
}

// FlowsResult is the outcome of the flows dataset.
type FlowsResult struct {
	RunInfo
	Definitions *model.IDMap[model.FlowDefinition] `json:"definitions"`
}

// ObjectResult is the outcome of the object dataset.
type ObjectResult struct {
	RunInfo
	Object *model.SObject `json:"object"`
}

// RunCompleted is published on the event bus when a run finishes.
type RunCompleted struct {
	RunInfo
	ItemCount int    `json:"itemCount"`
	Error     string `json:"error,omitempty"`
}

type correlationUsecaseImpl struct {
	flows     *FlowsDataset
	object    *ObjectDataset
	cache     repository.ResultCache
	snapshots repository.SnapshotStore
	bus       eventbus.EventBusInterface
	log       logger.Logger
}

// CorrelationDeps are the collaborators shared by both datasets.
type CorrelationDeps struct {
	Queries             repository.QueryRunner
	Describer           repository.SchemaDescriber
	Counter             repository.RecordCounter
	Dependencies        repository.DependencyService
	Bulk                repository.BulkFetcher
	URLs                repository.URLBuilder
	Scorer              repository.Scorer
	ToleratedErrorCodes []string

	// Optional.
	Cache     repository.ResultCache
	Snapshots repository.SnapshotStore
	Bus       eventbus.EventBusInterface
}

// NewCorrelationUsecase creates a new instance of CorrelationUsecase.
func NewCorrelationUsecase(deps CorrelationDeps, log logger.Logger) CorrelationUsecase {
	var progress repository.ProgressReporter
	if deps.Bus != nil {
		progress = NewBusProgressReporter(deps.Bus)
	}
	return &correlationUsecaseImpl{
		flows: NewFlowsDataset(FlowsDatasetDeps{
			Queries:             deps.Queries,
			Dependencies:        deps.Dependencies,
			Bulk:                deps.Bulk,
			URLs:                deps.URLs,
			Scorer:              deps.Scorer,
			Progress:            progress,
			ToleratedErrorCodes: deps.ToleratedErrorCodes,
		}, log),
		object: NewObjectDataset(ObjectDatasetDeps{
			Queries:   deps.Queries,
			Describer: deps.Describer,
			Counter:   deps.Counter,
			URLs:      deps.URLs,
			Scorer:    deps.Scorer,
			Progress:  progress,
		}, log),
		cache:     deps.Cache,
		snapshots: deps.Snapshots,
		bus:       deps.Bus,
		log:       log.WithComponent("correlation_usecase"),
	}
}

// CacheKey returns the cache key of a dataset run.
func CacheKey(dataset string, params model.RunParameters) string {
	if params.Object == "" {
		return dataset
	}
	return dataset + ":" + params.Object
}

func (uc *correlationUsecaseImpl) RunFlows(ctx context.Context, useCache bool) (*FlowsResult, error) {
	res := &FlowsResult{}
	err := uc.run(ctx, model.DatasetFlows, model.RunParameters{}, useCache, &res.RunInfo,
		func() interface{} { return &res.Definitions },
		func(ctx context.Context) (interface{}, int, error) {
			defs, err := uc.flows.Run(ctx)
			if err != nil {
				return nil, 0, err
			}
			res.Definitions = defs
			return defs, defs.Len(), nil
		})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (uc *correlationUsecaseImpl) RunObject(ctx context.Context, apiName string, useCache bool) (*ObjectResult, error) {
	if apiName == "" {
		return nil, apperrors.NewValidationError("object name is required")
	}
	res := &ObjectResult{}
	err := uc.run(ctx, model.DatasetObject, model.RunParameters{Object: apiName}, useCache, &res.RunInfo,
		func() interface{} { return &res.Object },
		func(ctx context.Context) (interface{}, int, error) {
			obj, err := uc.object.Run(ctx, apiName)
			if err != nil {
				return nil, 0, err
			}
			res.Object = obj
			return obj, 1, nil
		})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// run wraps one dataset execution with the cache, events and snapshots.
// cached returns the destination the cached payload decodes into.
func (uc *correlationUsecaseImpl) run(
	ctx context.Context,
	dataset string,
	params model.RunParameters,
	useCache bool,
	info *RunInfo,
	cached func() interface{},
	execute func(ctx context.Context) (interface{}, int, error),
) error {
	*info = RunInfo{RunID: uuid.NewString(), Dataset: dataset, Params: params, StartedAt: time.Now().UTC()}
	ctx = utils.WithDataset(utils.WithRunID(ctx, info.RunID), dataset)
	log := uc.log.WithContext(ctx)
	key := CacheKey(dataset, params)

	if useCache && uc.cache != nil {
		err := uc.cache.Get(ctx, key, cached())
		switch {
		case err == nil:
			info.FromCache = true
			info.Duration = time.Since(info.StartedAt)
			log.Info("Served dataset from cache", zap.String("key", key))
			return nil
		case errors.Is(err, apperrors.ErrCacheMiss):
			log.Debug("Cache miss", zap.String("key", key))
		default:
			log.Warn("Cache read failed, running dataset", zap.String("key", key), zap.Error(err))
		}
	}

	log.Info("Starting dataset run")
	payload, count, err := execute(ctx)
	info.Duration = time.Since(info.StartedAt)
	if err != nil {
		log.Error("Dataset run failed", zap.Error(err))
		uc.publish(ctx, eventbus.EventTypeRunFailed, RunCompleted{RunInfo: *info, Error: err.Error()})
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, payload); err != nil {
			log.Warn("Failed to cache dataset result", zap.String("key", key), zap.Error(err))
		}
	}
	uc.archive(ctx, info, payload, count)
	uc.publish(ctx, eventbus.EventTypeRunCompleted, RunCompleted{RunInfo: *info, ItemCount: count})
	log.Info("Dataset run done", zap.Int("items", count), zap.Duration("duration", info.Duration))
	return nil
}

func (uc *correlationUsecaseImpl) archive(ctx context.Context, info *RunInfo, payload interface{}, count int) {
	if uc.snapshots == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		uc.log.WithContext(ctx).Warn("Failed to encode snapshot payload", zap.Error(err))
		return
	}
	snap := &model.Snapshot{
		RunID:      info.RunID,
		Dataset:    info.Dataset,
		Parameters: info.Params,
		ItemCount:  count,
		Payload:    raw,
		StartedAt:  info.StartedAt,
		FinishedAt: info.StartedAt.Add(info.Duration),
	}
	if err := uc.snapshots.SaveSnapshot(ctx, snap); err != nil {
		uc.log.WithContext(ctx).Warn("Failed to save snapshot", zap.Error(err))
	}
}

func (uc *correlationUsecaseImpl) publish(ctx context.Context, eventType string, data RunCompleted) {
	if uc.bus == nil {
		return
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, data, "correlation"))
}

func (uc *correlationUsecaseImpl) InvalidateCache(ctx context.Context, dataset string, params model.RunParameters) error {
	if uc.cache == nil {
		return nil
	}
	if dataset == "" {
		return uc.cache.Clear(ctx)
	}
	return uc.cache.Delete(ctx, CacheKey(dataset, params))
}

func (uc *correlationUsecaseImpl) ListSnapshots(ctx context.Context, dataset string, limit int64) ([]*model.Snapshot, error) {
	if uc.snapshots == nil {
		return []*model.Snapshot{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return uc.snapshots.ListSnapshots(ctx, dataset, limit)
}

type busProgressReporter struct {
	bus eventbus.EventBusInterface
}

// NewBusProgressReporter publishes progress messages on bus.
func NewBusProgressReporter(bus eventbus.EventBusInterface) repository.ProgressReporter {
	return &busProgressReporter{bus: bus}
}

// Report publishes synchronously so subscribers see messages in order.
func (r *busProgressReporter) Report(ctx context.Context, p model.Progress) {
	_ = r.bus.Publish(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeRunProgress, p, p.Dataset))
}
