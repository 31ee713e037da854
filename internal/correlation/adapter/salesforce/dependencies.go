package salesforce

import (
	"context"
	"strings"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
)

const dependencySelect = "SELECT MetadataComponentId, MetadataComponentName, MetadataComponentType, " +
	"RefMetadataComponentId, RefMetadataComponentName, RefMetadataComponentType " +
	"FROM MetadataComponentDependency "

// DependencyService computes dependency graphs from MetadataComponentDependency.
type DependencyService struct {
	queries   repository.QueryRunner
	urls      repository.URLBuilder
	chunkSize int
}

var _ repository.DependencyService = (*DependencyService)(nil)

// NewDependencyService queries dependencies through queries, chunkSize ids at a time.
func NewDependencyService(queries repository.QueryRunner, urls repository.URLBuilder, chunkSize int) *DependencyService {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	return &DependencyService{queries: queries, urls: urls, chunkSize: chunkSize}
}

// DependencyQueries returns one tooling query per chunk of ids, matching
// edges in both directions.
func DependencyQueries(ids []string, chunkSize int) []model.Query {
	queries := make([]model.Query, 0, (len(ids)+chunkSize-1)/chunkSize)
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		in := "('" + strings.Join(ids[start:end], "', '") + "')"
		queries = append(queries, model.Query{
			SOQL:      dependencySelect + "WHERE MetadataComponentId IN " + in + " OR RefMetadataComponentId IN " + in,
			Tooling:   true,
			QueryMore: true,
		})
	}
	return queries
}

// ComputeDependencyGraph returns the using and used-by edges of rootIDs.
func (s *DependencyService) ComputeDependencyGraph(ctx context.Context, rootIDs []string) (*model.DependencyGraph, error) {
	roots := make([]string, 0, len(rootIDs))
	for _, id := range rootIDs {
		if key := model.CaseSafeID(id); key != "" {
			roots = append(roots, key)
		}
	}
	graph := model.NewDependencyGraph(roots)
	if len(roots) == 0 {
		return graph, nil
	}

	rowsets, err := s.queries.RunQueries(ctx, DependencyQueries(roots, s.chunkSize))
	if err != nil {
		return nil, err
	}
	seen := make(map[[2]string]struct{})
	for _, rs := range rowsets {
		for _, r := range rs.Records {
			from := s.ref(r.String("MetadataComponentId"), r.String("MetadataComponentName"), r.String("MetadataComponentType"))
			to := s.ref(r.String("RefMetadataComponentId"), r.String("RefMetadataComponentName"), r.String("RefMetadataComponentType"))
			if from.ID == "" || to.ID == "" {
				continue
			}
			edge := [2]string{from.ID, to.ID}
			if _, dup := seen[edge]; dup {
				continue
			}
			seen[edge] = struct{}{}
			graph.Using[from.ID] = append(graph.Using[from.ID], to)
			graph.UsedBy[to.ID] = append(graph.UsedBy[to.ID], from)
		}
	}
	return graph, nil
}

func (s *DependencyService) ref(id, name, typ string) model.DependencyRef {
	id = model.CaseSafeID(id)
	ref := model.DependencyRef{ID: id, Name: name, Type: typ}
	if kind, ok := dependencyKinds[typ]; ok && s.urls != nil && id != "" {
		ref.URL = s.urls.SetupURL(kind, id)
	}
	return ref
}

// dependencyKinds maps metadata types to the entity kinds with setup pages.
var dependencyKinds = map[string]model.EntityKind{
	"Flow":           model.KindFlowVersion,
	"ValidationRule": model.KindValidationRule,
	"WebLink":        model.KindWebLink,
	"Layout":         model.KindLayout,
	"FieldSet":       model.KindFieldSet,
	"RecordType":     model.KindRecordType,
}
