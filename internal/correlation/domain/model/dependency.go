package model

// DependenciesForCurrentVersion tags a dependency link to be read against
// FlowDefinition.CurrentVersionID.
const DependenciesForCurrentVersion = "currentVersionId"

// DependencyRef is one end of a who-uses-whom edge.
type DependencyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// DependencyGraph is computed by the dependency collaborator for a set of
// root ids. The engine only attaches it to entities.
type DependencyGraph struct {
	Roots  []string                   `json:"roots"`
	Using  map[string][]DependencyRef `json:"using"`
	UsedBy map[string][]DependencyRef `json:"usedBy"`
}

// NewDependencyGraph returns an empty graph over roots.
func NewDependencyGraph(roots []string) *DependencyGraph {
	return &DependencyGraph{
		Roots:  roots,
		Using:  make(map[string][]DependencyRef),
		UsedBy: make(map[string][]DependencyRef),
	}
}

// DependencyLink attaches a graph to an entity without resolving it. For names
// the entity field holding the id to look up. The graph is shared by every
// entity of a dataset and is never serialized; entities write their own edges.
type DependencyLink struct {
	For   string           `json:"for"`
	Graph *DependencyGraph `json:"-"`
}

// Lookup returns the edges recorded for id.
func (l *DependencyLink) Lookup(id string) (using, usedBy []DependencyRef) {
	if l == nil || l.Graph == nil || id == "" {
		return nil, nil
	}
	key := CaseSafeID(id)
	return l.Graph.Using[key], l.Graph.UsedBy[key]
}

// singleRootLink rebuilds a link over a one-root graph holding the edges of key.
func singleRootLink(forField, key string, using, usedBy []DependencyRef) *DependencyLink {
	key = CaseSafeID(key)
	g := NewDependencyGraph([]string{key})
	if len(using) > 0 {
		g.Using[key] = using
	}
	if len(usedBy) > 0 {
		g.UsedBy[key] = usedBy
	}
	return &DependencyLink{For: forField, Graph: g}
}
