package apiclient

// Response is a decoded scoring service reply. The service wraps scan fields
// in a "data" envelope on some endpoints and returns them flat on others;
// both forms are handled here.
type Response struct {
	Success  bool
	HTTPCode int
	Data     map[string]any
	Err      string

	scanData map[string]any
}

func newResponse(success bool, httpCode int, data map[string]any, errMsg string) *Response {
	if data == nil {
		data = map[string]any{}
	}

	scanData := data
	if nested, ok := data["data"].(map[string]any); ok {
		scanData = nested
	}

	return &Response{
		Success:  success,
		HTTPCode: httpCode,
		Data:     data,
		Err:      errMsg,
		scanData: scanData,
	}
}

// normalizationDivisor converts the service's native 0-15+ score scale to
// the local [0,1] scale. Fixed protocol contract with the scoring service.
const normalizationDivisor = 15.0

// IsSpam reports whether the service itself marked the content blocked.
// Advisory only; enforcement decisions come from the local thresholds.
func (r *Response) IsSpam() bool {
	if !r.Success {
		return false
	}
	return r.Status() == "blocked"
}

// Status returns the service-reported status (blocked, suspicious, safe).
func (r *Response) Status() string {
	if s, ok := r.scanData["status"].(string); ok {
		return s
	}
	return "safe"
}

// SpamScore returns the score normalized to the [0,1] range.
func (r *Response) SpamScore() float64 {
	score := r.RawSpamScore() / normalizationDivisor
	if score > 1.0 {
		return 1.0
	}
	if score < 0.0 {
		return 0.0
	}
	return score
}

// RawSpamScore returns the score on the service's native scale.
func (r *Response) RawSpamScore() float64 {
	switch v := r.scanData["spam_score"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0.0
	}
}

// Symbols returns the names of the detection rules that fired, in the order
// the service reported them. Entries may arrive as plain strings or as
// objects with a "name" field.
func (r *Response) Symbols() []string {
	raw, ok := r.scanData["symbols"].([]any)
	if !ok {
		return []string{}
	}

	symbols := make([]string, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			symbols = append(symbols, v)
		case map[string]any:
			name, _ := v["name"].(string)
			symbols = append(symbols, name)
		}
	}
	return symbols
}

// SymbolDetails returns the symbol entries as received.
func (r *Response) SymbolDetails() []any {
	if raw, ok := r.scanData["symbols"].([]any); ok {
		return raw
	}
	return []any{}
}

// ThreatCategories returns the reported threat categories.
func (r *Response) ThreatCategories() []string {
	raw, ok := r.scanData["threat_categories"].([]any)
	if !ok {
		return []string{}
	}

	categories := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories
}

// RequestID returns the service-assigned request id, if any.
func (r *Response) RequestID() string {
	if id, ok := r.Data["request_id"].(string); ok {
		return id
	}
	return ""
}

// Message returns the top-level status message, if any.
func (r *Response) Message() string {
	if msg, ok := r.Data["message"].(string); ok {
		return msg
	}
	return ""
}

// IsConnectionValid reports whether the reply indicates a working API connection.
func (r *Response) IsConnectionValid() bool {
	return r.Success && r.HTTPCode >= 200 && r.HTTPCode < 300
}

// UsageData extracts account usage counters from an /account/usage reply.
func (r *Response) UsageData() map[string]int {
	usage := map[string]int{
		"requests_today":     0,
		"requests_limit":     0,
		"requests_remaining": 0,
	}
	for key := range usage {
		if v, ok := r.scanData[key].(float64); ok {
			usage[key] = int(v)
		}
	}
	return usage
}
