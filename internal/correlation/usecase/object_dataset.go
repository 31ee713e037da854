package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

const (
	entityDefinitionSelect = "SELECT Id, DurableId, DeveloperName, Description, NamespacePrefix, ExternalSharingModel, InternalSharingModel, " +
		"(SELECT DurableId, QualifiedApiName, Description, IsIndexed FROM Fields), " +
		"(SELECT Id FROM ApexTriggers), " +
		"(SELECT Id, MasterLabel, Description FROM FieldSets), " +
		"(SELECT Id, Name, LayoutType FROM Layouts), " +
		"(SELECT DurableId, Label, Max, Remaining, Type FROM Limits), " +
		"(SELECT Id, Active, Description, ErrorDisplayField, ErrorMessage, ValidationName FROM ValidationRules), " +
		"(SELECT Id, Name FROM WebLinks) " +
		"FROM EntityDefinition "

	// customFieldMarker appears in the DurableId of custom fields, after the object part.
	customFieldMarker = ".00N"
)

// ObjectDatasetDeps are the collaborators of the object pipeline.
type ObjectDatasetDeps struct {
	Queries   repository.QueryRunner
	Describer repository.SchemaDescriber
	Counter   repository.RecordCounter
	URLs      repository.URLBuilder
	Scorer    repository.Scorer
	Progress  repository.ProgressReporter
}

// ObjectDataset assembles one object with all of its sub-resources.
type ObjectDataset struct {
	deps ObjectDatasetDeps
	log  logger.Logger
}

// NewObjectDataset creates the object pipeline.
func NewObjectDataset(deps ObjectDatasetDeps, log logger.Logger) *ObjectDataset {
	deps.Progress = reporterOrNop(deps.Progress)
	return &ObjectDataset{deps: deps, log: log.WithComponent("object_dataset")}
}

// ObjectName is a parsed object API name.
type ObjectName struct {
	APIName string
	Package string
}

// ParseObjectName detects the package prefix of names shaped like ns__Name__c.
func ParseObjectName(apiName string) ObjectName {
	parts := strings.Split(apiName, "__")
	n := ObjectName{APIName: apiName}
	if len(parts) == 3 {
		n.Package = parts[0]
	}
	return n
}

func soqlQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// EntityDefinitionQuery returns the tooling query reading the definition row
// and its nested sub-resources. Names without a package prefix are limited to
// built-in and local publishers.
func EntityDefinitionQuery(name ObjectName) model.Query {
	var b strings.Builder
	b.WriteString(entityDefinitionSelect)
	fmt.Fprintf(&b, "WHERE QualifiedApiName = '%s' ", soqlQuote(name.APIName))
	if name.Package == "" {
		b.WriteString("AND PublisherId IN ('System', '<local>')")
	} else {
		fmt.Fprintf(&b, "AND NamespacePrefix = '%s' ", soqlQuote(name.Package))
	}
	return model.Query{SOQL: b.String(), Tooling: true}
}

// objectSources holds the three independent retrievals.
type objectSources struct {
	describe    *model.SObjectDescribe
	entity      model.Record
	recordCount int64
}

type standardFieldInfo struct {
	id          string
	description string
	isIndexed   bool
}

// Run executes the pipeline for apiName.
func (d *ObjectDataset) Run(ctx context.Context, apiName string) (*model.SObject, error) {
	if strings.TrimSpace(apiName) == "" {
		return nil, apperrors.NewValidationError("object name is required").WithComponent("object_dataset")
	}
	log := d.log.WithContext(ctx)
	name := ParseObjectName(apiName)

	d.progress(ctx, "query", fmt.Sprintf("Describing %s and querying its entity definition...", apiName))
	src, err := d.fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	objectType := model.ObjectTypeOf(src.describe.Name, src.describe.CustomSetting)
	durableID := src.entity.String("DurableId")

	d.progress(ctx, "parse", "Parsing fields and sub-resources...")
	standardFields, customFieldIDs, err := d.fields(ctx, src, durableID, objectType)
	if err != nil {
		return nil, err
	}

	p := model.SObjectParams{
		ID:                   durableID,
		Label:                src.describe.Label,
		LabelPlural:          src.describe.LabelPlural,
		IsCustom:             src.describe.Custom,
		IsFeedEnabled:        src.describe.FeedEnabled,
		IsMostRecentEnabled:  src.describe.MRUEnabled,
		IsSearchable:         src.describe.Searchable,
		KeyPrefix:            src.describe.KeyPrefix,
		Name:                 src.entity.String("DeveloperName"),
		APIName:              src.describe.Name,
		URL:                  d.deps.URLs.SetupURL(model.KindObject, "", src.entity.String("Id"), objectType),
		Package:              src.entity.String("NamespacePrefix"),
		TypeID:               objectType,
		Description:          src.entity.String("Description"),
		ExternalSharingModel: src.entity.String("ExternalSharingModel"),
		InternalSharingModel: src.entity.String("InternalSharingModel"),
		StandardFields:       standardFields,
		CustomFieldIDs:       customFieldIDs,
		RecordCount:          src.recordCount,
	}
	p.ApexTriggerIDs = idsOf(src.entity.SubRecords("ApexTriggers"), "Id")
	if err := d.subResources(ctx, src, durableID, &p); err != nil {
		return nil, err
	}

	obj, err := model.NewSObject(p)
	if err != nil {
		return nil, err
	}
	score, err := d.deps.Scorer.ComputeScore(ctx, obj)
	if err != nil {
		return nil, err
	}
	obj = obj.WithScore(score)

	log.Info("Object dataset done", zap.String("object", apiName),
		zap.Int("standard_fields", len(obj.StandardFields)), zap.Int("custom_fields", len(obj.CustomFieldIDs)))
	d.progress(ctx, "done", "Done")
	return &obj, nil
}

func (d *ObjectDataset) fetch(ctx context.Context, name ObjectName) (*objectSources, error) {
	src := &objectSources{}
	var rowsets []model.RowSet

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		src.describe, err = d.deps.Describer.Describe(gctx, name.APIName)
		return err
	})
	g.Go(func() error {
		var err error
		rowsets, err = d.deps.Queries.RunQueries(gctx, []model.Query{EntityDefinitionQuery(name)})
		return err
	})
	g.Go(func() error {
		var err error
		src.recordCount, err = d.deps.Counter.RecordCount(gctx, name.APIName)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(rowsets) > 0 {
		src.entity, _ = rowsets[0].First()
	}
	if src.entity == nil {
		return nil, apperrors.NewNotFoundError("entity definition for " + name.APIName).
			WithComponent("object_dataset").WithDetail("object", name.APIName)
	}
	if src.describe == nil {
		return nil, apperrors.NewUpstreamError("empty describe for " + name.APIName).WithComponent("object_dataset")
	}
	return src, nil
}

func (d *ObjectDataset) fields(ctx context.Context, src *objectSources, durableID, objectType string) ([]model.Field, []string, error) {
	customIDs := make([]string, 0)
	standard := make(map[string]standardFieldInfo)
	for _, f := range src.entity.SubRecords("Fields") {
		fieldDurableID := f.String("DurableId")
		parts := strings.SplitN(fieldDurableID, ".", 2)
		if len(parts) != 2 {
			continue
		}
		id := model.CaseSafeID(parts[1])
		if strings.Contains(fieldDurableID, customFieldMarker) {
			customIDs = append(customIDs, id)
			continue
		}
		standard[f.String("QualifiedApiName")] = standardFieldInfo{
			id:          id,
			description: f.String("Description"),
			isIndexed:   f.Bool("IsIndexed"),
		}
	}

	described := Filter(src.describe.Fields, func(f model.DescribeField) bool {
		_, ok := standard[f.Name]
		return ok
	})
	fields, err := Map(ctx, described, func(ctx context.Context, f model.DescribeField) (model.Field, error) {
		info := standard[f.Name]
		field, err := model.NewField(model.FieldParams{
			ID:           info.id,
			Name:         f.Label,
			Label:        f.Label,
			Description:  info.description,
			Tooltip:      f.InlineHelpText,
			Type:         f.Type,
			Length:       f.Length,
			IsUnique:     f.Unique,
			IsEncrypted:  f.Encrypted,
			IsExternalID: f.ExternalID,
			IsIndexed:    info.isIndexed,
			DefaultValue: f.DefaultValue,
			Formula:      f.CalculatedFormula,
			URL:          d.deps.URLs.SetupURL(model.KindField, info.id, durableID, objectType),
		})
		if err != nil {
			return model.Field{}, err
		}
		return scored(ctx, d.deps.Scorer, field, field.WithScore)
	})
	if err != nil {
		return nil, nil, err
	}
	return fields, customIDs, nil
}

func (d *ObjectDataset) subResources(ctx context.Context, src *objectSources, durableID string, p *model.SObjectParams) error {
	urls, scorer, entity := d.deps.URLs, d.deps.Scorer, src.entity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p.FieldSets, err = Map(gctx, entity.SubRecords("FieldSets"), func(ctx context.Context, r model.Record) (model.FieldSet, error) {
			fs, err := model.NewFieldSet(model.FieldSetParams{
				ID:          r.String("Id"),
				Label:       r.String("MasterLabel"),
				Description: r.String("Description"),
				URL:         urls.SetupURL(model.KindFieldSet, r.String("Id"), durableID),
			})
			if err != nil {
				return fs, err
			}
			return scored(ctx, scorer, fs, fs.WithScore)
		})
		return err
	})
	g.Go(func() (err error) {
		p.Layouts, err = Map(gctx, entity.SubRecords("Layouts"), func(ctx context.Context, r model.Record) (model.Layout, error) {
			l, err := model.NewLayout(model.LayoutParams{
				ID:   r.String("Id"),
				Name: r.String("Name"),
				Type: r.String("LayoutType"),
				URL:  urls.SetupURL(model.KindLayout, r.String("Id"), durableID),
			})
			if err != nil {
				return l, err
			}
			return scored(ctx, scorer, l, l.WithScore)
		})
		return err
	})
	g.Go(func() (err error) {
		p.Limits, err = Map(gctx, entity.SubRecords("Limits"), func(ctx context.Context, r model.Record) (model.Limit, error) {
			l, err := model.NewLimit(model.LimitParams{
				ID:        r.String("DurableId"),
				Label:     r.String("Label"),
				Max:       int(r.Int("Max")),
				Remaining: int(r.Int("Remaining")),
				Type:      r.String("Type"),
			})
			if err != nil {
				return l, err
			}
			return scored(ctx, scorer, l, l.WithScore)
		})
		return err
	})
	g.Go(func() (err error) {
		p.ValidationRules, err = Map(gctx, entity.SubRecords("ValidationRules"), func(ctx context.Context, r model.Record) (model.ValidationRule, error) {
			v, err := model.NewValidationRule(model.ValidationRuleParams{
				ID:                r.String("Id"),
				Name:              r.String("ValidationName"),
				IsActive:          r.Bool("Active"),
				Description:       r.String("Description"),
				ErrorDisplayField: r.String("ErrorDisplayField"),
				ErrorMessage:      r.String("ErrorMessage"),
				URL:               urls.SetupURL(model.KindValidationRule, r.String("Id")),
			})
			if err != nil {
				return v, err
			}
			return scored(ctx, scorer, v, v.WithScore)
		})
		return err
	})
	g.Go(func() (err error) {
		p.WebLinks, err = Map(gctx, entity.SubRecords("WebLinks"), func(ctx context.Context, r model.Record) (model.WebLink, error) {
			w, err := model.NewWebLink(model.WebLinkParams{
				ID:   r.String("Id"),
				Name: r.String("Name"),
				URL:  urls.SetupURL(model.KindWebLink, r.String("Id"), durableID),
			})
			if err != nil {
				return w, err
			}
			return scored(ctx, scorer, w, w.WithScore)
		})
		return err
	})
	g.Go(func() (err error) {
		p.RecordTypes, err = Map(gctx, src.describe.RecordTypeInfos, func(ctx context.Context, t model.RecordTypeInfo) (model.RecordType, error) {
			rt, err := model.NewRecordType(model.RecordTypeParams{
				ID:                         t.RecordTypeID,
				Name:                       t.Name,
				DeveloperName:              t.DeveloperName,
				URL:                        urls.SetupURL(model.KindRecordType, t.RecordTypeID, durableID),
				IsActive:                   t.Active,
				IsAvailable:                t.Available,
				IsDefaultRecordTypeMapping: t.DefaultRecordTypeMapping,
				IsMaster:                   t.Master,
			})
			if err != nil {
				return rt, err
			}
			return scored(ctx, scorer, rt, rt.WithScore)
		})
		return err
	})
	g.Go(func() (err error) {
		named := Filter(src.describe.ChildRelationships, func(r model.ChildRelationship) bool {
			return r.RelationshipName != ""
		})
		p.Relationships, err = Map(gctx, named, func(ctx context.Context, r model.ChildRelationship) (model.Relationship, error) {
			rel, err := model.NewRelationship(model.RelationshipParams{
				Name:               r.RelationshipName,
				ChildObject:        r.ChildSObject,
				FieldName:          r.Field,
				IsCascadeDelete:    r.CascadeDelete,
				IsRestrictedDelete: r.RestrictedDelete,
			})
			if err != nil {
				return rel, err
			}
			return scored(ctx, scorer, rel, rel.WithScore)
		})
		return err
	})
	return g.Wait()
}

// scored computes the score of e and returns e carrying it.
func scored[T model.Scorable](ctx context.Context, scorer repository.Scorer, e T, with func(model.Score) T) (T, error) {
	s, err := scorer.ComputeScore(ctx, e)
	if err != nil {
		return e, err
	}
	return with(s), nil
}

func idsOf(records []model.Record, key string) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		if id := model.CaseSafeID(r.String(key)); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (d *ObjectDataset) progress(ctx context.Context, stage, message string) {
	report(ctx, d.deps.Progress, model.DatasetObject, stage, message)
}
