package scoring

import "github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"

var describedKinds = []model.EntityKind{
	model.KindFlowDefinition, model.KindObject, model.KindField,
	model.KindFieldSet, model.KindValidationRule,
}

// DefaultRules returns the built-in rule set.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          0,
			Description: "No description",
			Field:       "description",
			Kinds:       describedKinds,
			Expression:  `e.description == ""`,
		},
		{
			ID:          1,
			Description: "API Version too old",
			Field:       "apiVersion",
			Kinds:       []model.EntityKind{model.KindFlowDefinition, model.KindFlowVersion},
			Expression:  `e.apiVersion > 0.0 && e.apiVersion < minApiVersion`,
		},
		{
			ID:          2,
			Description: "No active version",
			Field:       "isVersionActive",
			Kinds:       []model.EntityKind{model.KindFlowDefinition},
			Expression:  `!e.isVersionActive`,
		},
		{
			ID:          3,
			Description: "Process Builder should be migrated to Flow",
			Field:       "isProcessBuilder",
			Kinds:       []model.EntityKind{model.KindFlowDefinition},
			Expression:  `e.isProcessBuilder`,
		},
		{
			ID:          4,
			Description: "Current version is not the latest one",
			Field:       "isLatestCurrentVersion",
			Kinds:       []model.EntityKind{model.KindFlowDefinition},
			Expression:  `e.isVersionActive && !e.isLatestCurrentVersion`,
		},
		{
			ID:          5,
			Description: "Too many nodes in the current version",
			Field:       "currentVersion.totalNodeCount",
			Kinds:       []model.EntityKind{model.KindFlowDefinition},
			Expression:  `has(e.currentVersion.totalNodeCount) && e.currentVersion.totalNodeCount > 50`,
		},
		{
			ID:          6,
			Description: "Not referenced anywhere",
			Field:       "usedByCount",
			Kinds:       []model.EntityKind{model.KindFlowDefinition},
			Expression:  `e.type == "AutoLaunchedFlow" && e.usedByCount == 0`,
		},
		{
			ID:          7,
			Description: "Inactive",
			Field:       "isActive",
			Kinds:       []model.EntityKind{model.KindValidationRule, model.KindRecordType},
			Expression:  `!e.isActive`,
		},
		{
			ID:          8,
			Description: "Limit usage above 80%",
			Field:       "usedPercentage",
			Kinds:       []model.EntityKind{model.KindLimit},
			Expression:  `e.usedPercentage >= 0.8`,
		},
		{
			ID:          9,
			Description: "Custom object without records",
			Field:       "recordCount",
			Kinds:       []model.EntityKind{model.KindObject},
			Expression:  `e.isCustom && e.recordCount == 0`,
		},
	}
}
