package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "orgcheck context key " + string(c)
}

// RunIDKey identifies one correlation run.
const RunIDKey = contextKey("runID")

// DatasetKey is the dataset name being computed (flows, object).
const DatasetKey = contextKey("dataset")

// OrgIDKey is the platform org the run targets.
const OrgIDKey = contextKey("orgID")

// ComponentKey names the component emitting logs.
const ComponentKey = contextKey("component")
