package model

import "time"

// StoredToken is the last token issued for an account.
type StoredToken struct {
	Mobile   string    `json:"mobile"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// Execution is one logged call to the data service.
type Execution struct {
	RequestID string        `json:"request_id"`
	Method    string        `json:"method"`
	Format    string        `json:"format"`
	Status    string        `json:"status"` // "ok" or the error kind
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	At        time.Time     `json:"at"`
}

// Request represents a WebSocket command from the client. Command is a
// catalog method name, or one of "methods" and "refresh".
type Request struct {
	RequestID string         `json:"request_id"`
	Command   string         `json:"command"`
	Params    map[string]any `json:"params"`
}

// Response represents a WebSocket response to the client.
type Response struct {
	RequestID string `json:"request_id"`
	Code      int    `json:"code"`    // 0 for success, HTTP-style status for errors
	Message   string `json:"message"` // Error message or status
	Data      any    `json:"data,omitempty"`
}
