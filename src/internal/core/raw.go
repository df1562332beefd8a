package core

// RawFormat names a pre-formatted payload type accepted by the raw
// ingestion endpoint.
type RawFormat string

const (
	RawJSON   RawFormat = "json"
	RawJSONL  RawFormat = "jsonl"
	RawSyslog RawFormat = "syslog"
	RawText   RawFormat = "text"
	RawCSV    RawFormat = "csv"
	RawOBL    RawFormat = "obl"
)

// Known reports whether the format is one the ingestion service accepts.
func (f RawFormat) Known() bool {
	switch f {
	case RawJSON, RawJSONL, RawSyslog, RawText, RawCSV, RawOBL:
		return true
	}
	return false
}

// ContentType returns the MIME type sent with a raw payload of this format.
func (f RawFormat) ContentType() string {
	switch f {
	case RawJSON:
		return "application/json"
	case RawJSONL:
		return "application/x-ndjson"
	case RawSyslog:
		return "application/x-syslog"
	case RawText:
		return "text/plain"
	case RawCSV:
		return "text/csv"
	case RawOBL:
		return "application/x-obl"
	default:
		return "application/octet-stream"
	}
}

// RawOptions carries per-request overrides for raw ingestion. Empty fields
// leave the server to apply the account defaults.
type RawOptions struct {
	Source      string
	Environment Environment
	Level       Level
	Dataset     string
}
