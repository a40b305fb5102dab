// ABOUTME: WebSocket accept side of the push channel: handshake, then server-to-client events only.
// ABOUTME: One connection per session; a writer goroutine serializes pushes onto the socket.
package agentd

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// wsHandshake is the client's first frame.
type wsHandshake struct {
	SessionID string `json:"session_id"`
}

// handleWS upgrades, reads the session handshake, and then forwards pushed
// events until the client goes away. The client never sends after the
// handshake; a read pump just watches for close.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // dev stub, any origin
	})
	if err != nil {
		return
	}
	defer func() { _ = conn.CloseNow() }()

	ctx := r.Context()

	hsCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	_, data, err := conn.Read(hsCtx)
	cancel()
	if err != nil {
		return
	}
	var hs wsHandshake
	if err := json.Unmarshal(data, &hs); err != nil || hs.SessionID == "" {
		_ = conn.Close(websocket.StatusPolicyViolation, "bad handshake")
		return
	}

	events := make(chan workflow.ServerEvent, 32)
	s.store.SetPush(hs.SessionID, func(ev workflow.ServerEvent) {
		select {
		case events <- ev:
		default:
			log.Printf("ws: dropping event for session %s, buffer full", hs.SessionID)
		}
	})
	defer s.store.SetPush(hs.SessionID, nil)

	// Read pump: the only inbound traffic after the handshake is a close.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-events:
			data, err := workflow.MarshalServerEvent(ev)
			if err != nil {
				log.Printf("ws: marshal event: %v", err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-readDone:
			return
		case <-ctx.Done():
			return
		}
	}
}
