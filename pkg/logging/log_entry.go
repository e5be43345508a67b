package logging

// LogEntry represents a structured log record with fields relevant to
// parameter-tree operations.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Parameter-tree fields
	NodeUID   string // UID of the parameter node involved, if any
	Dimension int    // Standardized-data dimension, if relevant

	// General structured data
	Fields map[string]interface{}
}
