package model

import (
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
)

func missing(kind EntityKind, field string) error {
	return apperrors.NewValidationError(string(kind)+" requires "+field).WithComponent("model")
}

// FieldParams carries everything needed to build a Field.
type FieldParams struct {
	ID           string
	Name         string
	Label        string
	Description  string
	Tooltip      string
	Type         string
	Length       int
	IsUnique     bool
	IsEncrypted  bool
	IsExternalID bool
	IsIndexed    bool
	DefaultValue interface{}
	Formula      string
	URL          string
}

// Field is a standard field merged from the tooling and describe surfaces.
type Field struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Label        string      `json:"label"`
	Description  string      `json:"description,omitempty"`
	Tooltip      string      `json:"tooltip,omitempty"`
	Type         string      `json:"type"`
	Length       int         `json:"length"`
	IsUnique     bool        `json:"isUnique"`
	IsEncrypted  bool        `json:"isEncrypted"`
	IsExternalID bool        `json:"isExternalId"`
	IsIndexed    bool        `json:"isIndexed"`
	DefaultValue interface{} `json:"defaultValue,omitempty"`
	Formula      string      `json:"formula,omitempty"`
	URL          string      `json:"url"`
	Score        Score       `json:"score"`
}

// NewField builds a Field.
func NewField(p FieldParams) (Field, error) {
	if p.ID == "" {
		return Field{}, missing(KindField, "an id")
	}
	return Field{
		ID: CaseSafeID(p.ID), Name: p.Name, Label: p.Label, Description: p.Description,
		Tooltip: p.Tooltip, Type: p.Type, Length: p.Length, IsUnique: p.IsUnique,
		IsEncrypted: p.IsEncrypted, IsExternalID: p.IsExternalID, IsIndexed: p.IsIndexed,
		DefaultValue: p.DefaultValue, Formula: p.Formula, URL: p.URL,
	}, nil
}

// Kind implements Scorable.
func (f Field) Kind() EntityKind { return KindField }

// ScoreAttributes exposes the field to the scoring rules.
func (f Field) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{
		"id": f.ID, "name": f.Name, "label": f.Label, "description": f.Description,
		"tooltip": f.Tooltip, "type": f.Type, "length": int64(f.Length),
		"isUnique": f.IsUnique, "isEncrypted": f.IsEncrypted, "isExternalId": f.IsExternalID,
		"isIndexed": f.IsIndexed, "formula": f.Formula,
	}
}

// WithScore returns a copy of f carrying s.
func (f Field) WithScore(s Score) Field { f.Score = s; return f }

// FieldSetParams carries everything needed to build a FieldSet.
type FieldSetParams struct {
	ID          string
	Label       string
	Description string
	URL         string
}

// FieldSet is a named group of fields declared on an object.
type FieldSet struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Score       Score  `json:"score"`
}

// NewFieldSet builds a FieldSet.
func NewFieldSet(p FieldSetParams) (FieldSet, error) {
	if p.ID == "" {
		return FieldSet{}, missing(KindFieldSet, "an id")
	}
	return FieldSet{ID: CaseSafeID(p.ID), Label: p.Label, Description: p.Description, URL: p.URL}, nil
}

// Kind implements Scorable.
func (f FieldSet) Kind() EntityKind { return KindFieldSet }

func (f FieldSet) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{"id": f.ID, "label": f.Label, "description": f.Description}
}

// WithScore returns a copy of f carrying s.
func (f FieldSet) WithScore(s Score) FieldSet { f.Score = s; return f }

// LayoutParams carries everything needed to build a Layout.
type LayoutParams struct {
	ID   string
	Name string
	Type string
	URL  string
}

// Layout is a page layout assigned to an object.
type Layout struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	URL   string `json:"url"`
	Score Score  `json:"score"`
}

// NewLayout builds a Layout.
func NewLayout(p LayoutParams) (Layout, error) {
	if p.ID == "" {
		return Layout{}, missing(KindLayout, "an id")
	}
	return Layout{ID: CaseSafeID(p.ID), Name: p.Name, Type: p.Type, URL: p.URL}, nil
}

// Kind implements Scorable.
func (l Layout) Kind() EntityKind { return KindLayout }

func (l Layout) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{"id": l.ID, "name": l.Name, "type": l.Type}
}

// WithScore returns a copy of l carrying s.
func (l Layout) WithScore(s Score) Layout { l.Score = s; return l }

// LimitParams carries the raw counters of a Limit.
type LimitParams struct {
	ID        string
	Label     string
	Max       int
	Remaining int
	Type      string
}

// Limit is an org limit scoped to an object. Used and UsedPercentage are
// derived from Max and Remaining.
type Limit struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	Max            int     `json:"max"`
	Remaining      int     `json:"remaining"`
	Used           int     `json:"used"`
	UsedPercentage float64 `json:"usedPercentage"`
	Type           string  `json:"type"`
	Score          Score   `json:"score"`
}

// NewLimit builds a Limit. A zero Max yields a zero UsedPercentage.
func NewLimit(p LimitParams) (Limit, error) {
	if p.ID == "" {
		return Limit{}, missing(KindLimit, "an id")
	}
	used := p.Max - p.Remaining
	var pct float64
	if p.Max != 0 {
		pct = float64(used) / float64(p.Max)
	}
	return Limit{
		ID: CaseSafeID(p.ID), Label: p.Label, Max: p.Max, Remaining: p.Remaining,
		Used: used, UsedPercentage: pct, Type: p.Type,
	}, nil
}

// Kind implements Scorable.
func (l Limit) Kind() EntityKind { return KindLimit }

// ScoreAttributes includes the derived usage counters.
func (l Limit) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{
		"id": l.ID, "label": l.Label, "max": int64(l.Max), "remaining": int64(l.Remaining),
		"used": int64(l.Used), "usedPercentage": l.UsedPercentage, "type": l.Type,
	}
}

func (l Limit) WithScore(s Score) Limit { l.Score = s; return l }

// ValidationRuleParams carries everything needed to build a ValidationRule.
type ValidationRuleParams struct {
	ID                string
	Name              string
	IsActive          bool
	Description       string
	ErrorDisplayField string
	ErrorMessage      string
	URL               string
}

// ValidationRule is a record validation declared on an object.
type ValidationRule struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	IsActive          bool   `json:"isActive"`
	Description       string `json:"description,omitempty"`
	ErrorDisplayField string `json:"errorDisplayField,omitempty"`
	ErrorMessage      string `json:"errorMessage,omitempty"`
	URL               string `json:"url"`
	Score             Score  `json:"score"`
}

// NewValidationRule builds a ValidationRule.
func NewValidationRule(p ValidationRuleParams) (ValidationRule, error) {
	if p.ID == "" {
		return ValidationRule{}, missing(KindValidationRule, "an id")
	}
	return ValidationRule{
		ID: CaseSafeID(p.ID), Name: p.Name, IsActive: p.IsActive, Description: p.Description,
		ErrorDisplayField: p.ErrorDisplayField, ErrorMessage: p.ErrorMessage, URL: p.URL,
	}, nil
}

// Kind implements Scorable.
func (v ValidationRule) Kind() EntityKind { return KindValidationRule }

func (v ValidationRule) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{
		"id": v.ID, "name": v.Name, "isActive": v.IsActive, "description": v.Description,
		"errorDisplayField": v.ErrorDisplayField, "errorMessage": v.ErrorMessage,
	}
}

// WithScore returns a copy of v carrying s.
func (v ValidationRule) WithScore(s Score) ValidationRule { v.Score = s; return v }

// WebLinkParams carries everything needed to build a WebLink.
type WebLinkParams struct {
	ID   string
	Name string
	URL  string
}

// WebLink is a custom button or link.
type WebLink struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Score Score  `json:"score"`
}

// NewWebLink builds a WebLink.
func NewWebLink(p WebLinkParams) (WebLink, error) {
	if p.ID == "" {
		return WebLink{}, missing(KindWebLink, "an id")
	}
	return WebLink{ID: CaseSafeID(p.ID), Name: p.Name, URL: p.URL}, nil
}

// Kind implements Scorable.
func (w WebLink) Kind() EntityKind { return KindWebLink }

func (w WebLink) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{"id": w.ID, "name": w.Name}
}

func (w WebLink) WithScore(s Score) WebLink { w.Score = s; return w }

// RecordTypeParams merges the tooling record type with its describe mapping.
type RecordTypeParams struct {
	ID                         string
	Name                       string
	DeveloperName              string
	URL                        string
	IsActive                   bool
	IsAvailable                bool
	IsDefaultRecordTypeMapping bool
	IsMaster                   bool
}

// RecordType is a record type of an object and its availability for the
// running user.
type RecordType struct {
	ID                         string `json:"id"`
	Name                       string `json:"name"`
	DeveloperName              string `json:"developerName"`
	URL                        string `json:"url"`
	IsActive                   bool   `json:"isActive"`
	IsAvailable                bool   `json:"isAvailable"`
	IsDefaultRecordTypeMapping bool   `json:"isDefaultRecordTypeMapping"`
	IsMaster                   bool   `json:"isMaster"`
	Score                      Score  `json:"score"`
}

// NewRecordType builds a RecordType.
func NewRecordType(p RecordTypeParams) (RecordType, error) {
	if p.ID == "" {
		return RecordType{}, missing(KindRecordType, "an id")
	}
	return RecordType{
		ID: CaseSafeID(p.ID), Name: p.Name, DeveloperName: p.DeveloperName, URL: p.URL,
		IsActive: p.IsActive, IsAvailable: p.IsAvailable,
		IsDefaultRecordTypeMapping: p.IsDefaultRecordTypeMapping, IsMaster: p.IsMaster,
	}, nil
}

// Kind implements Scorable.
func (r RecordType) Kind() EntityKind { return KindRecordType }

func (r RecordType) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{
		"id": r.ID, "name": r.Name, "developerName": r.DeveloperName, "isActive": r.IsActive,
		"isAvailable": r.IsAvailable, "isDefaultRecordTypeMapping": r.IsDefaultRecordTypeMapping,
		"isMaster": r.IsMaster,
	}
}

// WithScore returns a copy of r carrying s.
func (r RecordType) WithScore(s Score) RecordType { r.Score = s; return r }

// RelationshipParams carries everything needed to build a Relationship.
type RelationshipParams struct {
	Name               string
	ChildObject        string
	FieldName          string
	IsCascadeDelete    bool
	IsRestrictedDelete bool
}

// Relationship is a named child relationship. Relationships have no record
// id and are keyed by name.
type Relationship struct {
	Name               string `json:"name"`
	ChildObject        string `json:"childObject"`
	FieldName          string `json:"fieldName"`
	IsCascadeDelete    bool   `json:"isCascadeDelete"`
	IsRestrictedDelete bool   `json:"isRestrictedDelete"`
	Score              Score  `json:"score"`
}

// NewRelationship builds a Relationship. The name is required.
func NewRelationship(p RelationshipParams) (Relationship, error) {
	if p.Name == "" {
		return Relationship{}, missing(KindRelationship, "a name")
	}
	return Relationship{
		Name: p.Name, ChildObject: p.ChildObject, FieldName: p.FieldName,
		IsCascadeDelete: p.IsCascadeDelete, IsRestrictedDelete: p.IsRestrictedDelete,
	}, nil
}

// Kind implements Scorable.
func (r Relationship) Kind() EntityKind { return KindRelationship }

func (r Relationship) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{
		"name": r.Name, "childObject": r.ChildObject, "fieldName": r.FieldName,
		"isCascadeDelete": r.IsCascadeDelete, "isRestrictedDelete": r.IsRestrictedDelete,
	}
}

func (r Relationship) WithScore(s Score) Relationship { r.Score = s; return r }

// SObjectParams carries everything needed to build an SObject.
type SObjectParams struct {
	ID                   string
	Label                string
	LabelPlural          string
	IsCustom             bool
	IsFeedEnabled        bool
	IsMostRecentEnabled  bool
	IsSearchable         bool
	KeyPrefix            string
	Name                 string
	APIName              string
	URL                  string
	Package              string
	TypeID               string
	Description          string
	ExternalSharingModel string
	InternalSharingModel string
	ApexTriggerIDs       []string
	FieldSets            []FieldSet
	Limits               []Limit
	Layouts              []Layout
	ValidationRules      []ValidationRule
	WebLinks             []WebLink
	StandardFields       []Field
	CustomFieldIDs       []string
	RecordTypes          []RecordType
	Relationships        []Relationship
	RecordCount          int64
}

// SObject is the composite schema entity.
type SObject struct {
	ID                   string           `json:"id"`
	Label                string           `json:"label"`
	LabelPlural          string           `json:"labelPlural"`
	IsCustom             bool             `json:"isCustom"`
	IsFeedEnabled        bool             `json:"isFeedEnabled"`
	IsMostRecentEnabled  bool             `json:"isMostRecentEnabled"`
	IsSearchable         bool             `json:"isSearchable"`
	KeyPrefix            string           `json:"keyPrefix,omitempty"`
	Name                 string           `json:"name"`
	APIName              string           `json:"apiname"`
	URL                  string           `json:"url"`
	Package              string           `json:"package"`
	TypeID               string           `json:"typeId"`
	Description          string           `json:"description,omitempty"`
	ExternalSharingModel string           `json:"externalSharingModel,omitempty"`
	InternalSharingModel string           `json:"internalSharingModel,omitempty"`
	ApexTriggerIDs       []string         `json:"apexTriggerIds"`
	FieldSets            []FieldSet       `json:"fieldSets"`
	Limits               []Limit          `json:"limits"`
	Layouts              []Layout         `json:"layouts"`
	ValidationRules      []ValidationRule `json:"validationRules"`
	WebLinks             []WebLink        `json:"webLinks"`
	StandardFields       []Field          `json:"standardFields"`
	CustomFieldIDs       []string         `json:"customFieldIds"`
	RecordTypes          []RecordType     `json:"recordTypes"`
	Relationships        []Relationship   `json:"relationships"`
	RecordCount          int64            `json:"recordCount"`
	Score                Score            `json:"score"`
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// NewSObject builds an SObject, normalizing its id. Every nil collection
// becomes an empty one.
func NewSObject(p SObjectParams) (SObject, error) {
	if p.ID == "" {
		return SObject{}, missing(KindObject, "an id")
	}
	return SObject{
		ID:                   CaseSafeID(p.ID),
		Label:                p.Label,
		LabelPlural:          p.LabelPlural,
		IsCustom:             p.IsCustom,
		IsFeedEnabled:        p.IsFeedEnabled,
		IsMostRecentEnabled:  p.IsMostRecentEnabled,
		IsSearchable:         p.IsSearchable,
		KeyPrefix:            p.KeyPrefix,
		Name:                 p.Name,
		APIName:              p.APIName,
		URL:                  p.URL,
		Package:              p.Package,
		TypeID:               p.TypeID,
		Description:          p.Description,
		ExternalSharingModel: p.ExternalSharingModel,
		InternalSharingModel: p.InternalSharingModel,
		ApexTriggerIDs:       orEmpty(p.ApexTriggerIDs),
		FieldSets:            orEmpty(p.FieldSets),
		Limits:               orEmpty(p.Limits),
		Layouts:              orEmpty(p.Layouts),
		ValidationRules:      orEmpty(p.ValidationRules),
		WebLinks:             orEmpty(p.WebLinks),
		StandardFields:       orEmpty(p.StandardFields),
		CustomFieldIDs:       orEmpty(p.CustomFieldIDs),
		RecordTypes:          orEmpty(p.RecordTypes),
		Relationships:        orEmpty(p.Relationships),
		RecordCount:          p.RecordCount,
	}, nil
}

// Kind implements Scorable.
func (o SObject) Kind() EntityKind { return KindObject }

// ScoreAttributes flattens the sub-resource collections to counts.
func (o SObject) ScoreAttributes() map[string]interface{} {
	return map[string]interface{}{
		"id":                   o.ID,
		"name":                 o.Name,
		"apiname":              o.APIName,
		"label":                o.Label,
		"isCustom":             o.IsCustom,
		"package":              o.Package,
		"typeId":               o.TypeID,
		"description":          o.Description,
		"recordCount":          o.RecordCount,
		"apexTriggerCount":     int64(len(o.ApexTriggerIDs)),
		"fieldSetCount":        int64(len(o.FieldSets)),
		"layoutCount":          int64(len(o.Layouts)),
		"validationRuleCount":  int64(len(o.ValidationRules)),
		"webLinkCount":         int64(len(o.WebLinks)),
		"standardFieldCount":   int64(len(o.StandardFields)),
		"customFieldCount":     int64(len(o.CustomFieldIDs)),
		"recordTypeCount":      int64(len(o.RecordTypes)),
		"relationshipCount":    int64(len(o.Relationships)),
		"externalSharingModel": o.ExternalSharingModel,
		"internalSharingModel": o.InternalSharingModel,
	}
}

// WithScore returns a copy of o carrying s.
func (o SObject) WithScore(s Score) SObject { o.Score = s; return o }
