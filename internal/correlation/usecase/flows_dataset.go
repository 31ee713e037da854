package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

const (
	flowDefinitionsSOQL = "SELECT Id, MasterLabel, DeveloperName, ApiVersion, Description, ActiveVersionId, " +
		"LatestVersionId, CreatedDate, LastModifiedDate FROM FlowDefinition"
	flowVersionsSOQL = "SELECT Id, DefinitionId, Status, ProcessType FROM Flow WHERE DefinitionId <> null"

	flowMetadataKind = "Flow"
)

// FlowsDatasetDeps are the collaborators of the flows pipeline.
type FlowsDatasetDeps struct {
	Queries             repository.QueryRunner
	Dependencies        repository.DependencyService
	Bulk                repository.BulkFetcher
	URLs                repository.URLBuilder
	Scorer              repository.Scorer
	Progress            repository.ProgressReporter
	ToleratedErrorCodes []string
}

// FlowsDataset correlates flow definitions with their versions.
type FlowsDataset struct {
	deps FlowsDatasetDeps
	log  logger.Logger
}

// NewFlowsDataset creates the flows pipeline.
func NewFlowsDataset(deps FlowsDatasetDeps, log logger.Logger) *FlowsDataset {
	deps.Progress = reporterOrNop(deps.Progress)
	return &FlowsDataset{deps: deps, log: log.WithComponent("flows_dataset")}
}

// flowBatch is the result of the linked definition and version queries.
type flowBatch struct {
	definitions []model.Record
	versions    []model.Record
}

// flowDrafts accumulates definition parameters before the entities are built.
type flowDrafts struct {
	params    *model.IDMap[*model.FlowDefinitionParams]
	interests []string
}

// Run executes the pipeline and returns the scored definitions keyed by id.
func (d *FlowsDataset) Run(ctx context.Context) (*model.IDMap[model.FlowDefinition], error) {
	log := d.log.WithContext(ctx)

	d.progress(ctx, "query", "Querying Tooling API about FlowDefinition in the org...")
	batch, err := d.fetchBatch(ctx)
	if err != nil {
		return nil, err
	}

	d.progress(ctx, "parse", fmt.Sprintf("Parsing %d flow definitions...", len(batch.definitions)))
	drafts, err := d.draftDefinitions(batch.definitions)
	if err != nil {
		return nil, err
	}

	d.progress(ctx, "parse", fmt.Sprintf("Parsing %d flow versions...", len(batch.versions)))
	d.countVersions(ctx, drafts, batch.versions)

	d.progress(ctx, "retrieve", fmt.Sprintf("Retrieving dependencies and metadata of %d flow versions...", len(drafts.interests)))
	graph, records, err := d.fetchInterests(ctx, drafts.interests)
	if err != nil {
		return nil, err
	}

	link := &model.DependencyLink{For: model.DependenciesForCurrentVersion, Graph: graph}
	drafts.params.Range(func(_ string, p *model.FlowDefinitionParams) bool {
		p.Dependencies = link
		return true
	})

	d.progress(ctx, "parse", fmt.Sprintf("Parsing %d flow version metadata records...", len(records)))
	if err := d.attachCurrentVersions(ctx, drafts, records); err != nil {
		return nil, err
	}

	d.progress(ctx, "score", "Computing the score of flow definitions...")
	definitions, err := Map(ctx, drafts.params.Values(), func(ctx context.Context, p *model.FlowDefinitionParams) (model.FlowDefinition, error) {
		def, err := model.NewFlowDefinition(*p)
		if err != nil {
			return model.FlowDefinition{}, err
		}
		score, err := d.deps.Scorer.ComputeScore(ctx, def)
		if err != nil {
			return model.FlowDefinition{}, err
		}
		return def.WithScore(score), nil
	})
	if err != nil {
		return nil, err
	}

	result := model.NewIDMap[model.FlowDefinition](len(definitions))
	for _, def := range definitions {
		if err := result.Insert(def.ID, def); err != nil {
			return nil, err
		}
	}

	log.Info("Flows dataset done", zap.Int("definitions", result.Len()), zap.Int("current_versions", len(records)))
	d.progress(ctx, "done", "Done")
	return result, nil
}

func (d *FlowsDataset) fetchBatch(ctx context.Context) (*flowBatch, error) {
	rowsets, err := d.deps.Queries.RunQueries(ctx, []model.Query{
		{SOQL: flowDefinitionsSOQL, Tooling: true, QueryMore: true},
		{SOQL: flowVersionsSOQL, Tooling: true, QueryMore: true},
	})
	if err != nil {
		return nil, err
	}
	if len(rowsets) != 2 {
		return nil, apperrors.NewInternalError(fmt.Sprintf("expected 2 rowsets, got %d", len(rowsets))).WithComponent("flows_dataset")
	}
	return &flowBatch{definitions: rowsets[0].Records, versions: rowsets[1].Records}, nil
}

func (d *FlowsDataset) draftDefinitions(rows []model.Record) (*flowDrafts, error) {
	drafts := &flowDrafts{
		params:    model.NewIDMap[*model.FlowDefinitionParams](len(rows)),
		interests: make([]string, 0, len(rows)),
	}
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		id := model.CaseSafeID(row.String("Id"))
		p := &model.FlowDefinitionParams{
			ID:               id,
			Name:             row.String("DeveloperName"),
			URL:              d.deps.URLs.SetupURL(model.KindFlowDefinition, id),
			APIVersion:       row.Float("ApiVersion"),
			ActiveVersionID:  model.CaseSafeID(row.String("ActiveVersionId")),
			LatestVersionID:  model.CaseSafeID(row.String("LatestVersionId")),
			Description:      row.String("Description"),
			CreatedDate:      row.Time("CreatedDate"),
			LastModifiedDate: row.Time("LastModifiedDate"),
		}
		if err := drafts.params.Insert(id, p); err != nil {
			return nil, err
		}
		current, _, _ := model.ResolveCurrentVersion(p.ActiveVersionID, p.LatestVersionID)
		if current == "" {
			continue
		}
		if _, dup := seen[current]; !dup {
			seen[current] = struct{}{}
			drafts.interests = append(drafts.interests, current)
		}
	}
	return drafts, nil
}

func (d *FlowsDataset) countVersions(ctx context.Context, drafts *flowDrafts, rows []model.Record) {
	for _, row := range rows {
		parentID := model.CaseSafeID(row.String("DefinitionId"))
		p, ok := drafts.params.Get(parentID)
		if !ok {
			d.log.WithContext(ctx).Warn("Skipping flow version without known definition",
				zap.String("id", row.String("Id")), zap.String("definition_id", parentID))
			continue
		}
		p.VersionsCount++
		p.Type = row.String("ProcessType")
	}
}

func (d *FlowsDataset) fetchInterests(ctx context.Context, ids []string) (*model.DependencyGraph, []model.Record, error) {
	if len(ids) == 0 {
		return model.NewDependencyGraph(ids), []model.Record{}, nil
	}
	var (
		graph   *model.DependencyGraph
		records []model.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		graph, err = d.deps.Dependencies.ComputeDependencyGraph(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = d.deps.Bulk.FetchBulk(gctx, flowMetadataKind, ids, d.deps.ToleratedErrorCodes)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return graph, records, nil
}

func (d *FlowsDataset) attachCurrentVersions(ctx context.Context, drafts *flowDrafts, records []model.Record) error {
	versions, err := Map(ctx, records, func(_ context.Context, r model.Record) (model.FlowVersion, error) {
		return d.buildVersion(r)
	})
	if err != nil {
		return err
	}
	for _, v := range versions {
		p, ok := drafts.params.Get(v.DefinitionID)
		if !ok {
			d.log.WithContext(ctx).Warn("Skipping flow metadata without known definition",
				zap.String("id", v.ID), zap.String("definition_id", v.DefinitionID))
			continue
		}
		version := v
		p.CurrentVersion = &version
	}
	return nil
}

func (d *FlowsDataset) buildVersion(r model.Record) (model.FlowVersion, error) {
	id := model.CaseSafeID(r.String("Id"))
	metrics := ExtractFlowMetrics(model.MetadataDocumentOf(r))
	return model.NewFlowVersion(model.FlowVersionParams{
		ID:                 id,
		DefinitionID:       r.String("DefinitionId"),
		Name:               r.String("FullName"),
		URL:                d.deps.URLs.SetupURL(model.KindFlowVersion, id),
		Version:            int(r.Int("VersionNumber")),
		APIVersion:         r.Float("ApiVersion"),
		TotalNodeCount:     metrics.TotalNodeCount,
		DMLCreateNodeCount: metrics.DMLCreateNodeCount,
		DMLDeleteNodeCount: metrics.DMLDeleteNodeCount,
		DMLUpdateNodeCount: metrics.DMLUpdateNodeCount,
		ScreenNodeCount:    metrics.ScreenNodeCount,
		Status:             r.String("Status"),
		Description:        r.String("Description"),
		Type:               r.String("ProcessType"),
		RunningMode:        r.String("RunInMode"),
		SObject:            metrics.SObject,
		TriggerType:        metrics.TriggerType,
		CreatedDate:        r.Time("CreatedDate"),
		LastModifiedDate:   r.Time("LastModifiedDate"),
	})
}

func (d *FlowsDataset) progress(ctx context.Context, stage, message string) {
	report(ctx, d.deps.Progress, model.DatasetFlows, stage, message)
}
