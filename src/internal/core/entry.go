package core

// Entry is a single log event as supplied by the application. Zero-value
// fields are filled from the client's default context when the entry is
// queued; unset optional fields are omitted from the wire payload.
type Entry struct {
	Level      Level          `json:"level"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
	UserID     string         `json:"userId,omitempty"`
	SessionID  string         `json:"sessionId,omitempty"`
	RequestID  string         `json:"requestId,omitempty"`
	ErrorName  string         `json:"errorName,omitempty"`
	ErrorStack string         `json:"errorStack,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	FlowID     string         `json:"flowId,omitempty"`
	StepIndex  *int           `json:"stepIndex,omitempty"`
	Dataset    string         `json:"dataset,omitempty"`
	Timestamp  int64          `json:"timestamp,omitempty"` // unix milliseconds
	IPAddress  string         `json:"ipAddress,omitempty"`
	Country    string         `json:"country,omitempty"`
}

// Record is the buffered, wire-ready form of an entry: the entry fields plus
// the sender identity stamped in from configuration at queue time.
type Record struct {
	Level       Level          `json:"level"`
	Message     string         `json:"message"`
	Source      string         `json:"source"`
	Environment Environment    `json:"environment"`
	Version     string         `json:"version,omitempty"`
	UserID      string         `json:"userId,omitempty"`
	SessionID   string         `json:"sessionId,omitempty"`
	RequestID   string         `json:"requestId,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	ErrorName   string         `json:"errorName,omitempty"`
	ErrorStack  string         `json:"errorStack,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	FlowID      string         `json:"flowId,omitempty"`
	StepIndex   *int           `json:"stepIndex,omitempty"`
	Dataset     string         `json:"dataset,omitempty"`
	Timestamp   int64          `json:"timestamp,omitempty"`
	IPAddress   string         `json:"ipAddress,omitempty"`
	Country     string         `json:"country,omitempty"`
}

// BatchPayload is the body of a batch submission.
type BatchPayload struct {
	Logs []Record `json:"logs"`
}

// IngestResponse is the service's acknowledgement of a batch submission.
type IngestResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// FlowInfo identifies a server-registered flow.
type FlowInfo struct {
	FlowID string `json:"flowId"`
	Name   string `json:"name"`
}
