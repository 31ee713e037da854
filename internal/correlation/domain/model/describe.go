package model

import "strings"

// Object type identifiers, derived from the API name suffix.
const (
	ObjectTypeStandard         = "StandardObject"
	ObjectTypeCustom           = "CustomObject"
	ObjectTypeCustomSetting    = "CustomSetting"
	ObjectTypeExternal         = "ExternalObject"
	ObjectTypeCustomMetadata   = "CustomMetadataType"
	ObjectTypePlatformEvent    = "PlatformEvent"
	ObjectTypeBigObject        = "BigObject"
	ObjectTypeKnowledgeArticle = "KnowledgeArticle"
)

var objectTypeSuffixes = []struct {
	suffix string
	typeID string
}{
	{"__c", ObjectTypeCustom},
	{"__x", ObjectTypeExternal},
	{"__mdt", ObjectTypeCustomMetadata},
	{"__e", ObjectTypePlatformEvent},
	{"__b", ObjectTypeBigObject},
	{"__kav", ObjectTypeKnowledgeArticle},
}

// ObjectTypeOf classifies an object from its API name. Custom settings share
// the __c suffix, so the describe flag takes precedence.
func ObjectTypeOf(apiName string, customSetting bool) string {
	if customSetting {
		return ObjectTypeCustomSetting
	}
	for _, s := range objectTypeSuffixes {
		if strings.HasSuffix(apiName, s.suffix) {
			return s.typeID
		}
	}
	return ObjectTypeStandard
}

// SObjectDescribe is the subset of the describe payload the object pipeline reads.
type SObjectDescribe struct {
	Name               string              `json:"name"`
	Label              string              `json:"label"`
	LabelPlural        string              `json:"labelPlural"`
	Custom             bool                `json:"custom"`
	CustomSetting      bool                `json:"customSetting"`
	FeedEnabled        bool                `json:"feedEnabled"`
	MRUEnabled         bool                `json:"mruEnabled"`
	Searchable         bool                `json:"searchable"`
	KeyPrefix          string              `json:"keyPrefix"`
	Fields             []DescribeField     `json:"fields"`
	RecordTypeInfos    []RecordTypeInfo    `json:"recordTypeInfos"`
	ChildRelationships []ChildRelationship `json:"childRelationships"`
}

// DescribeField is one entry of SObjectDescribe.Fields.
type DescribeField struct {
	Name              string      `json:"name"`
	Label             string      `json:"label"`
	Type              string      `json:"type"`
	Length            int         `json:"length"`
	Unique            bool        `json:"unique"`
	Encrypted         bool        `json:"encrypted"`
	ExternalID        bool        `json:"externalId"`
	InlineHelpText    string      `json:"inlineHelpText"`
	DefaultValue      interface{} `json:"defaultValue"`
	CalculatedFormula string      `json:"calculatedFormula"`
}

// RecordTypeInfo is one entry of SObjectDescribe.RecordTypeInfos.
type RecordTypeInfo struct {
	RecordTypeID             string `json:"recordTypeId"`
	Name                     string `json:"name"`
	DeveloperName            string `json:"developerName"`
	Active                   bool   `json:"active"`
	Available                bool   `json:"available"`
	DefaultRecordTypeMapping bool   `json:"defaultRecordTypeMapping"`
	Master                   bool   `json:"master"`
}

// ChildRelationship is one entry of SObjectDescribe.ChildRelationships.
type ChildRelationship struct {
	RelationshipName string `json:"relationshipName"`
	ChildSObject     string `json:"childSObject"`
	Field            string `json:"field"`
	CascadeDelete    bool   `json:"cascadeDelete"`
	RestrictedDelete bool   `json:"restrictedDelete"`
}
