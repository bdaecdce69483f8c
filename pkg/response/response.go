package response

// Envelope is the standard API response wrapper for operations that return
// a status rather than a resource body.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// ListResult wraps paginated collections together with the total number of
// matching rows before pagination was applied.
type ListResult struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}

// OK returns a success envelope with a human-readable message.
func OK(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// Err returns an error envelope carrying a stable error code.
func Err(code, message string) Envelope {
	return Envelope{Success: false, ErrorCode: code, Message: message}
}

// List wraps items with their pre-pagination total.
func List(items interface{}, total int64) ListResult {
	return ListResult{Items: items, Total: total}
}
