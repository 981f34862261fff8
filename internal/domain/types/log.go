package types

// LogEntry is one audit log record from GET /logs.
type LogEntry struct {
	ID         ID            `json:"id" yaml:"id"`
	Attributes LogAttributes `json:"attributes" yaml:"attributes"`
}

// LogAttributes describes what happened, where and when.
type LogAttributes struct {
	Namespace string         `json:"namespace" yaml:"namespace"`
	EventType string         `json:"event_type" yaml:"event_type"`
	Level     any            `json:"level" yaml:"level"`
	Source    string         `json:"source" yaml:"source"`
	At        string         `json:"at" yaml:"at"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
