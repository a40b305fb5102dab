// ABOUTME: Mapping confirmation: synchronous success/fail that gates the preprocessing transition.
// ABOUTME: On any failure the caller must create no phase and leave mappings unattached.
package gateway

import "context"

// confirmMappingsRequest is the wire body for POST /mappings/confirm.
type confirmMappingsRequest struct {
	SessionID     string            `json:"session_id"`
	SourcePhaseID string            `json:"source_phase_id"`
	Mappings      map[string]string `json:"mappings"`
}

// statusReply is the generic {status, message} envelope.
type statusReply struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ConfirmMappings persists the confirmed column mappings for a phase on the
// backend. Returns nil only when the backend reports success.
func (c *Client) ConfirmMappings(ctx context.Context, sourcePhaseID string, mappings map[string]string) error {
	const op = "confirm mappings"
	var reply statusReply
	if err := c.postJSON(ctx, op, "/mappings/confirm", confirmMappingsRequest{
		SessionID:     c.sessionID,
		SourcePhaseID: sourcePhaseID,
		Mappings:      mappings,
	}, &reply); err != nil {
		return err
	}
	return checkStatus(op, reply.Status, reply.Message)
}
