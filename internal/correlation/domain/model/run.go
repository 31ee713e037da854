package model

import (
	"encoding/json"
	"time"
)

// Dataset names.
const (
	DatasetFlows  = "flows"
	DatasetObject = "object"
)

// RunParameters are the inputs of one correlation run. Only the object
// dataset reads Object.
type RunParameters struct {
	Object string `json:"object,omitempty" bson:"object,omitempty"`
}

// Progress is one message emitted while a run executes.
type Progress struct {
	RunID   string    `json:"runId"`
	Dataset string    `json:"dataset"`
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Snapshot archives the result of one completed run.
type Snapshot struct {
	RunID      string          `json:"runId" bson:"_id"`
	Dataset    string          `json:"dataset" bson:"dataset"`
	Parameters RunParameters   `json:"parameters" bson:"parameters"`
	ItemCount  int             `json:"itemCount" bson:"itemCount"`
	FromCache  bool            `json:"fromCache" bson:"fromCache"`
	Payload    json.RawMessage `json:"payload,omitempty" bson:"payload"`
	StartedAt  time.Time       `json:"startedAt" bson:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt" bson:"finishedAt"`
}
