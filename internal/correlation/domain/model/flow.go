package model

import (
	"encoding/json"
	"time"

	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
)

// processTypeWorkflow is the process type of flows built with Process Builder.
const processTypeWorkflow = "Workflow"

// FlowVersionStatusActive is the status of the running version of a flow.
const FlowVersionStatusActive = "Active"

// ResolveCurrentVersion applies the current-version precedence rule: the
// active version wins, the latest version is the fallback. Both ids must
// already be canonical; "" means absent. isLatest holds iff active equals
// latest, which includes both being absent.
func ResolveCurrentVersion(activeID, latestID string) (currentID string, isActive, isLatest bool) {
	currentID = activeID
	if currentID == "" {
		currentID = latestID
	}
	return currentID, activeID != "", activeID == latestID
}

// FlowDefinitionParams carries everything needed to build a FlowDefinition.
type FlowDefinitionParams struct {
	ID               string
	Name             string
	URL              string
	APIVersion       float64
	ActiveVersionID  string
	LatestVersionID  string
	VersionsCount    int
	Type             string
	Description      string
	CreatedDate      time.Time
	LastModifiedDate time.Time
	Dependencies     *DependencyLink
	CurrentVersion   *FlowVersion
}

// FlowDefinition is a versioned flow with its resolved current version.
type FlowDefinition struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	URL                    string          `json:"url"`
	APIVersion             float64         `json:"apiVersion"`
	CurrentVersionID       string          `json:"currentVersionId,omitempty"`
	IsVersionActive        bool            `json:"isVersionActive"`
	IsLatestCurrentVersion bool            `json:"isLatestCurrentVersion"`
	VersionsCount          int             `json:"versionsCount"`
	Type                   string          `json:"type,omitempty"`
	IsProcessBuilder       bool            `json:"isProcessBuilder"`
	Description            string          `json:"description,omitempty"`
	CreatedDate            time.Time       `json:"createdDate"`
	LastModifiedDate       time.Time       `json:"lastModifiedDate"`
	Dependencies           *DependencyLink `json:"dependencies,omitempty"`
	CurrentVersion         *FlowVersion    `json:"currentVersionRef,omitempty"`
	Score                  Score           `json:"score"`
}

// NewFlowDefinition builds a FlowDefinition, normalizing every id it carries.
func NewFlowDefinition(p FlowDefinitionParams) (FlowDefinition, error) {
	id := CaseSafeID(p.ID)
	if id == "" {
		return FlowDefinition{}, apperrors.NewValidationError("flow definition requires an id").WithComponent("model")
	}
	if p.VersionsCount < 0 {
		return FlowDefinition{}, apperrors.NewValidationError("flow definition versions count cannot be negative").WithDetail("id", id)
	}
	current, isActive, isLatest := ResolveCurrentVersion(CaseSafeID(p.ActiveVersionID), CaseSafeID(p.LatestVersionID))
	return FlowDefinition{
		ID:                     id,
		Name:                   p.Name,
		URL:                    p.URL,
		APIVersion:             p.APIVersion,
		CurrentVersionID:       current,
		IsVersionActive:        isActive,
		IsLatestCurrentVersion: isLatest,
		VersionsCount:          p.VersionsCount,
		Type:                   p.Type,
		IsProcessBuilder:       p.Type == processTypeWorkflow,
		Description:            p.Description,
		CreatedDate:            p.CreatedDate,
		LastModifiedDate:       p.LastModifiedDate,
		Dependencies:           p.Dependencies,
		CurrentVersion:         p.CurrentVersion,
	}, nil
}

// Kind implements Scorable.
func (f FlowDefinition) Kind() EntityKind { return KindFlowDefinition }

// ScoreAttributes implements Scorable.
func (f FlowDefinition) ScoreAttributes() map[string]interface{} {
	attrs := map[string]interface{}{
		"id":                     f.ID,
		"name":                   f.Name,
		"apiVersion":             f.APIVersion,
		"currentVersionId":       f.CurrentVersionID,
		"isVersionActive":        f.IsVersionActive,
		"isLatestCurrentVersion": f.IsLatestCurrentVersion,
		"versionsCount":          int64(f.VersionsCount),
		"type":                   f.Type,
		"isProcessBuilder":       f.IsProcessBuilder,
		"description":            f.Description,
		"hasCurrentVersion":      f.CurrentVersion != nil,
	}
	using, usedBy := f.ResolvedDependencies()
	attrs["usingCount"] = int64(len(using))
	attrs["usedByCount"] = int64(len(usedBy))
	if f.CurrentVersion != nil {
		attrs["currentVersion"] = f.CurrentVersion.ScoreAttributes()
	} else {
		attrs["currentVersion"] = map[string]interface{}{}
	}
	return attrs
}

// WithScore returns a copy of f carrying s.
func (f FlowDefinition) WithScore(s Score) FlowDefinition {
	f.Score = s
	return f
}

// ResolvedDependencies reads the attached graph against the field named by the link.
func (f FlowDefinition) ResolvedDependencies() (using, usedBy []DependencyRef) {
	if f.Dependencies == nil {
		return nil, nil
	}
	switch f.Dependencies.For {
	case DependenciesForCurrentVersion:
		return f.Dependencies.Lookup(f.CurrentVersionID)
	default:
		return f.Dependencies.Lookup(f.ID)
	}
}

type flowDefinitionAlias FlowDefinition

type flowDefinitionJSON struct {
	flowDefinitionAlias
	Using  []DependencyRef `json:"using,omitempty"`
	UsedBy []DependencyRef `json:"usedBy,omitempty"`
}

// MarshalJSON writes the edges resolved for f in place of the shared graph.
func (f FlowDefinition) MarshalJSON() ([]byte, error) {
	using, usedBy := f.ResolvedDependencies()
	return json.Marshal(flowDefinitionJSON{
		flowDefinitionAlias: flowDefinitionAlias(f),
		Using:               using,
		UsedBy:              usedBy,
	})
}

// UnmarshalJSON restores a link whose graph holds only the edges of f.
func (f *FlowDefinition) UnmarshalJSON(data []byte) error {
	var aux flowDefinitionJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*f = FlowDefinition(aux.flowDefinitionAlias)
	if f.Dependencies == nil {
		return nil
	}
	key := f.ID
	if f.Dependencies.For == DependenciesForCurrentVersion {
		key = f.CurrentVersionID
	}
	f.Dependencies = singleRootLink(f.Dependencies.For, key, aux.Using, aux.UsedBy)
	return nil
}

// FlowVersionParams carries everything needed to build a FlowVersion.
type FlowVersionParams struct {
	ID                 string
	DefinitionID       string
	Name               string
	URL                string
	Version            int
	APIVersion         float64
	TotalNodeCount     int
	DMLCreateNodeCount int
	DMLDeleteNodeCount int
	DMLUpdateNodeCount int
	ScreenNodeCount    int
	Status             string
	Description        string
	Type               string
	RunningMode        string
	SObject            string
	TriggerType        string
	CreatedDate        time.Time
	LastModifiedDate   time.Time
}

// FlowVersion is one version of a flow, enriched with node metrics.
type FlowVersion struct {
	ID                 string    `json:"id"`
	DefinitionID       string    `json:"definitionId"`
	Name               string    `json:"name"`
	URL                string    `json:"url"`
	Version            int       `json:"version"`
	APIVersion         float64   `json:"apiVersion"`
	TotalNodeCount     int       `json:"totalNodeCount"`
	DMLCreateNodeCount int       `json:"dmlCreateNodeCount"`
	DMLDeleteNodeCount int       `json:"dmlDeleteNodeCount"`
	DMLUpdateNodeCount int       `json:"dmlUpdateNodeCount"`
	ScreenNodeCount    int       `json:"screenNodeCount"`
	IsActive           bool      `json:"isActive"`
	Description        string    `json:"description,omitempty"`
	Type               string    `json:"type,omitempty"`
	RunningMode        string    `json:"runningMode,omitempty"`
	SObject            string    `json:"sobject,omitempty"`
	TriggerType        string    `json:"triggerType,omitempty"`
	CreatedDate        time.Time `json:"createdDate"`
	LastModifiedDate   time.Time `json:"lastModifiedDate"`
}

// NewFlowVersion builds a FlowVersion, normalizing its ids.
func NewFlowVersion(p FlowVersionParams) (FlowVersion, error) {
	id := CaseSafeID(p.ID)
	if id == "" {
		return FlowVersion{}, apperrors.NewValidationError("flow version requires an id").WithComponent("model")
	}
	return FlowVersion{
		ID:                 id,
		DefinitionID:       CaseSafeID(p.DefinitionID),
		Name:               p.Name,
		URL:                p.URL,
		Version:            p.Version,
		APIVersion:         p.APIVersion,
		TotalNodeCount:     p.TotalNodeCount,
		DMLCreateNodeCount: p.DMLCreateNodeCount,
		DMLDeleteNodeCount: p.DMLDeleteNodeCount,
		DMLUpdateNodeCount: p.DMLUpdateNodeCount,
		ScreenNodeCount:    p.ScreenNodeCount,
		IsActive:           p.Status == FlowVersionStatusActive,
		Description:        p.Description,
		Type:               p.Type,
		RunningMode:        p.RunningMode,
		SObject:            p.SObject,
		TriggerType:        p.TriggerType,
		CreatedDate:        p.CreatedDate,
		LastModifiedDate:   p.LastModifiedDate,
	}, nil
}

// Kind implements Scorable.
func (v FlowVersion) Kind() EntityKind { return KindFlowVersion }

// ScoreAttributes implements Scorable.
func (v FlowVersion) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{
		"id":                 v.ID,
		"name":               v.Name,
		"version":            int64(v.Version),
		"apiVersion":         v.APIVersion,
		"totalNodeCount":     int64(v.TotalNodeCount),
		"dmlCreateNodeCount": int64(v.DMLCreateNodeCount),
		"dmlDeleteNodeCount": int64(v.DMLDeleteNodeCount),
		"dmlUpdateNodeCount": int64(v.DMLUpdateNodeCount),
		"screenNodeCount":    int64(v.ScreenNodeCount),
		"isActive":           v.IsActive,
		"description":        v.Description,
		"type":               v.Type,
		"runningMode":        v.RunningMode,
		"sobject":            v.SObject,
		"triggerType":        v.TriggerType,
	}
}
