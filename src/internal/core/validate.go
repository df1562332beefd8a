package core

// Field limits enforced before an entry is buffered. These mirror the
// ingestion service's own limits so malformed entries fail at the call
// site instead of poisoning a whole batch.
const (
	MaxMessageLen    = 10000
	MaxTags          = 20
	MaxTagLen        = 50
	MaxStepIndex     = 1000
	MaxUserIDLen     = 100
	MaxSessionIDLen  = 100
	MaxRequestIDLen  = 100
	MaxErrorNameLen  = 200
	MaxErrorStackLen = 10000
	MaxFlowIDLen     = 100
	MaxDatasetLen    = 50
	MaxIPAddressLen  = 100
	MaxCountryLen    = 10
)

// ValidateEntry checks structural limits on an entry. Level recognition
// and minimum-level filtering are the client's concern.
func ValidateEntry(e Entry) error {
	if e.Message == "" {
		return Validationf("message must not be empty")
	}
	if len(e.Message) > MaxMessageLen {
		return Validationf("message exceeds %d characters: %d", MaxMessageLen, len(e.Message))
	}
	if len(e.Tags) > MaxTags {
		return Validationf("tags must have at most %d items, got %d", MaxTags, len(e.Tags))
	}
	for i, tag := range e.Tags {
		if len(tag) > MaxTagLen {
			return Validationf("tags[%d] exceeds %d characters: %d", i, MaxTagLen, len(tag))
		}
	}
	if e.StepIndex != nil && (*e.StepIndex < 0 || *e.StepIndex > MaxStepIndex) {
		return Validationf("stepIndex must be 0-%d, got %d", MaxStepIndex, *e.StepIndex)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"userId", e.UserID, MaxUserIDLen},
		{"sessionId", e.SessionID, MaxSessionIDLen},
		{"requestId", e.RequestID, MaxRequestIDLen},
		{"errorName", e.ErrorName, MaxErrorNameLen},
		{"errorStack", e.ErrorStack, MaxErrorStackLen},
		{"flowId", e.FlowID, MaxFlowIDLen},
		{"dataset", e.Dataset, MaxDatasetLen},
		{"ipAddress", e.IPAddress, MaxIPAddressLen},
		{"country", e.Country, MaxCountryLen},
	}
	for _, f := range fields {
		if len(f.value) > f.max {
			return Validationf("%s exceeds %d characters: %d", f.name, f.max, len(f.value))
		}
	}
	return nil
}
