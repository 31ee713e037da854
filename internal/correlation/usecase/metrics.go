package usecase

import "github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"

// flowNodeCollections lists the metadata collections that hold flow nodes.
var flowNodeCollections = []string{
	"actionCalls", "apexPluginCalls", "assignments",
	"collectionProcessors", "decisions", "loops",
	"orchestratedStages", "recordCreates", "recordDeletes",
	"recordLookups", "recordRollbacks", "recordUpdates",
	"screens", "steps", "waits",
}

const (
	processMetadataValues  = "processMetadataValues"
	metadataKeyObjectType  = "ObjectType"
	metadataKeyTriggerType = "TriggerType"
)

// FlowMetrics are the counters and classifications derived from a flow
// version metadata document.
type FlowMetrics struct {
	TotalNodeCount     int
	DMLCreateNodeCount int
	DMLDeleteNodeCount int
	DMLUpdateNodeCount int
	ScreenNodeCount    int
	SObject            string
	TriggerType        string
}

// ExtractFlowMetrics computes FlowMetrics. Missing collections count as zero
// and a missing processMetadataValues list leaves SObject and TriggerType empty.
func ExtractFlowMetrics(doc model.MetadataDocument) FlowMetrics {
	m := FlowMetrics{
		DMLCreateNodeCount: doc.CollectionLen("recordCreates"),
		DMLDeleteNodeCount: doc.CollectionLen("recordDeletes"),
		DMLUpdateNodeCount: doc.CollectionLen("recordUpdates"),
		ScreenNodeCount:    doc.CollectionLen("screens"),
	}
	for _, name := range flowNodeCollections {
		m.TotalNodeCount += doc.CollectionLen(name)
	}
	for _, nv := range doc.NameValues(processMetadataValues) {
		switch nv.Name {
		case metadataKeyObjectType:
			m.SObject = nv.Value
		case metadataKeyTriggerType:
			m.TriggerType = nv.Value
		}
	}
	return m
}
