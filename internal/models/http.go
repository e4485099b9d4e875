package models

// HTTPResponse represents a completed HTTP exchange.
// Immutable once constructed; the caller inspects Status, this
// application never interprets it for plain GET/POST calls.
type HTTPResponse struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}
