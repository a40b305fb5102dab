// ABOUTME: Error taxonomy for the request gateway: transport failures vs semantic failures.
// ABOUTME: Both surface locally at the issuing view; neither ever crashes the state machine.
package gateway

import "fmt"

// TransportError is a network failure or a non-2xx HTTP response. StatusCode
// is zero when the request never reached the server.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SemanticError is a 200 response whose body reports failure
// (status != "success"). Message is taken from the body when present.
type SemanticError struct {
	Op      string
	Status  string
	Message string
}

func (e *SemanticError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: backend reported status %q", e.Op, e.Status)
}

// checkStatus converts a non-success status envelope into a SemanticError.
func checkStatus(op, status, message string) error {
	if status == "success" {
		return nil
	}
	return &SemanticError{Op: op, Status: status, Message: message}
}
