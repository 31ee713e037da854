package model

// EntityKind names a family of entities for scoring and deep links.
type EntityKind string

const (
	KindFlowDefinition EntityKind = "flow-definition"
	KindFlowVersion    EntityKind = "flow-version"
	KindObject         EntityKind = "object"
	KindField          EntityKind = "field"
	KindFieldSet       EntityKind = "field-set"
	KindLayout         EntityKind = "layout"
	KindLimit          EntityKind = "limit"
	KindValidationRule EntityKind = "validation-rule"
	KindWebLink        EntityKind = "web-link"
	KindRecordType     EntityKind = "record-type"
	KindRelationship   EntityKind = "relationship"
)

// Score is the quality score assigned by the scoring collaborator.
// Higher values mean more findings.
type Score struct {
	Value        int      `json:"score"`
	BadFields    []string `json:"badFields,omitempty"`
	BadReasonIDs []int    `json:"badReasonIds,omitempty"`
}

// Scorable is implemented by every entity the scoring collaborator can evaluate.
type Scorable interface {
	Kind() EntityKind
	ScoreAttributes() map[string]interface{}
}
