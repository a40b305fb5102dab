// ABOUTME: Chat send: fire-and-forget POST carrying the message plus active-phase context.
// ABOUTME: The agent's actual reply arrives on the event channel, never in this response body.
package gateway

import (
	"context"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// chatRequest is the wire body for POST /chat.
type chatRequest struct {
	Message    string          `json:"message"`
	SessionID  string          `json:"session_id"`
	Context    *workflow.Phase `json:"context"`
	ActiveView workflow.View   `json:"active_view"`
}

// SendChat posts a chat message with the active phase as context. Only the
// acknowledgement is synchronous; the reply comes via the channel.
func (c *Client) SendChat(ctx context.Context, message string, phase *workflow.Phase, view workflow.View) error {
	return c.postJSON(ctx, "chat", "/chat", chatRequest{
		Message:    message,
		SessionID:  c.sessionID,
		Context:    phase,
		ActiveView: view,
	}, nil)
}
