// ABOUTME: The server event channel: one WebSocket connection per session receiving agent push events.
// ABOUTME: Dials, sends the session handshake, then forwards decoded events to a sink until closed.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/coder/websocket"

	"github.com/oceanpilot/oceanpilot/workflow"
)

// Sink receives decoded channel traffic. Event is called once per inbound
// event, in arrival order; Closed is called exactly once when the read loop
// ends (err is nil on a clean local Close). Implementations typically inject
// into a single-threaded message loop, so calls never race each other.
type Sink interface {
	Event(ev workflow.ServerEvent)
	Closed(err error)
}

// handshake is the first message sent after connecting.
type handshake struct {
	SessionID string `json:"session_id"`
}

// Channel is one session's persistent push connection.
type Channel struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// Dial connects to the backend's /ws endpoint, sends the session handshake,
// and starts the read loop delivering events to the sink. The channel does
// not reconnect; when the connection dies the sink's Closed fires and that is
// the end of it.
func Dial(ctx context.Context, wsURL, sessionID string, sink Sink) (*Channel, error) {
	conn, _, err := websocket.Dial(ctx, wsURL+"/ws", &websocket.DialOptions{})
	if err != nil {
		return nil, fmt.Errorf("channel dial: %w", err)
	}

	hs, err := json.Marshal(handshake{SessionID: sessionID})
	if err != nil {
		_ = conn.CloseNow()
		return nil, fmt.Errorf("channel handshake: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, hs); err != nil {
		_ = conn.CloseNow()
		return nil, fmt.Errorf("channel handshake: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	ch := &Channel{
		conn:   conn,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go ch.readLoop(loopCtx, sink)
	return ch, nil
}

// Close tears the connection down. Idempotent; close failures are swallowed.
func (ch *Channel) Close() {
	ch.cancel()
	_ = ch.conn.CloseNow()
	<-ch.done
}

// readLoop delivers events in arrival order until the connection ends.
func (ch *Channel) readLoop(ctx context.Context, sink Sink) {
	defer close(ch.done)
	for {
		_, data, err := ch.conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				sink.Closed(nil)
			} else {
				sink.Closed(err)
			}
			return
		}

		ev, err := workflow.UnmarshalServerEvent(data)
		if err != nil {
			// Unknown or malformed events are skipped, not fatal; a newer
			// backend may push kinds this client does not know.
			if errors.Is(err, workflow.ErrUnknownEventType) {
				log.Printf("channel: skipping event: %v", err)
			} else {
				log.Printf("channel: bad event payload: %v", err)
			}
			continue
		}
		sink.Event(ev)
	}
}
