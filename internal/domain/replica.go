package domain

// ErrorsField is the replica record key carrying per-replica errors. It is
// reported whenever the raw record has it, regardless of the field filter.
const ErrorsField = "errors"

// KnownStatusFields lists the replica record fields tablestress reports, in
// report order.
var KnownStatusFields = []string{
	"table",
	"idx",
	"cluster",
	"type",
	"realTablePath",
	"replicaState",
	"paused",
	"throttle",
	"isUptodate",
	"synchronous",
	"copyTableCompletionPercentage",
	"bytesPending",
	"putsPending",
	"bucketsPending",
	"minPendingTS",
	"maxPendingTS",
	"uuid",
}

// IsKnownStatusField reports whether name is one of KnownStatusFields.
func IsKnownStatusField(name string) bool {
	for _, f := range KnownStatusFields {
		if f == name {
			return true
		}
	}
	return false
}

// StatusField is one reported field of a replica record.
type StatusField struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ReplicaStatus is one replica of a source table as reported by
// `table replica list`.
type ReplicaStatus struct {
	Source string        `json:"source"`
	Fields []StatusField `json:"fields"`
	// Missing lists requested fields absent from the raw record.
	Missing []string `json:"missing,omitempty"`
}

// Get returns the value of a reported field.
func (s ReplicaStatus) Get(name string) (any, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the reported field names in order.
func (s ReplicaStatus) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
