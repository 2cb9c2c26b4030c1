package provider

import "fmt"

// Error is a rejection reported by the upstream email service itself, as
// opposed to a transport failure. Message carries the reason the service
// returned and is safe to surface to callers.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("email provider error [%d]: %s", e.StatusCode, e.Message)
}
