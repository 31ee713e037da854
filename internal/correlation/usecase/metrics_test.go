package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
)

func nodes(n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = map[string]interface{}{"name": "node"}
	}
	return out
}

func TestExtractFlowMetrics_NodeCounts(t *testing.T) {
	doc := model.NewMetadataDocument(map[string]interface{}{
		"recordCreates": nodes(2),
		"screens":       nodes(1),
	})

	m := ExtractFlowMetrics(doc)

	assert.Equal(t, 3, m.TotalNodeCount)
	assert.Equal(t, 2, m.DMLCreateNodeCount)
	assert.Equal(t, 1, m.ScreenNodeCount)
	assert.Zero(t, m.DMLDeleteNodeCount)
	assert.Zero(t, m.DMLUpdateNodeCount)
	assert.Empty(t, m.SObject)
	assert.Empty(t, m.TriggerType)
}

func TestExtractFlowMetrics_AllCollections(t *testing.T) {
	raw := map[string]interface{}{}
	for _, name := range flowNodeCollections {
		raw[name] = nodes(1)
	}
	raw["variables"] = nodes(4)

	m := ExtractFlowMetrics(model.NewMetadataDocument(raw))
	assert.Equal(t, len(flowNodeCollections), m.TotalNodeCount)
}

func TestExtractFlowMetrics_ProcessMetadataValues(t *testing.T) {
	doc := model.NewMetadataDocument(map[string]interface{}{
		"processMetadataValues": []interface{}{
			map[string]interface{}{"name": "BuilderType", "value": map[string]interface{}{"stringValue": "LightningFlowBuilder"}},
			map[string]interface{}{"name": "ObjectType", "value": map[string]interface{}{"stringValue": "Opportunity"}},
			map[string]interface{}{"name": "TriggerType", "value": map[string]interface{}{"stringValue": "onCreateOnly"}},
		},
	})

	m := ExtractFlowMetrics(doc)
	assert.Equal(t, "Opportunity", m.SObject)
	assert.Equal(t, "onCreateOnly", m.TriggerType)
	assert.Zero(t, m.TotalNodeCount)
}

func TestExtractFlowMetrics_EmptyDocument(t *testing.T) {
	assert.Equal(t, FlowMetrics{}, ExtractFlowMetrics(model.NewMetadataDocument(nil)))
}
