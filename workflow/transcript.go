// ABOUTME: Transcript types for the agent chat panel: an append-only ordered message log.
// ABOUTME: Two producers (local user input, inbound channel events), one snapshot-reading consumer.
package workflow

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single transcript entry. Status messages are transient agent
// progress lines ("Analyzing your datasets...") rendered differently from
// real replies.
type Message struct {
	ID        ulid.ULID `json:"message_id"`
	From      Sender    `json:"from"`
	Text      string    `json:"text"`
	Status    bool      `json:"is_status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the append-only ordered chat log.
type Transcript struct {
	messages []Message
}

// NewTranscript creates a transcript seeded with the agent greeting.
func NewTranscript() *Transcript {
	t := &Transcript{}
	t.AppendBot("Hello! Upload a dataset to begin.")
	return t
}

// AppendUser appends a user-authored message.
func (t *Transcript) AppendUser(text string) Message {
	return t.append(Message{From: SenderUser, Text: text})
}

// AppendBot appends an agent reply.
func (t *Transcript) AppendBot(text string) Message {
	return t.append(Message{From: SenderBot, Text: text})
}

// AppendStatus appends a transient agent status line.
func (t *Transcript) AppendStatus(text string) Message {
	return t.append(Message{From: SenderBot, Text: text, Status: true})
}

func (t *Transcript) append(m Message) Message {
	m.ID = NewULID()
	m.Timestamp = time.Now().UTC()
	t.messages = append(t.messages, m)
	return m
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns the messages in arrival order. The returned slice is
// shared; callers must not mutate it.
func (t *Transcript) Messages() []Message {
	return t.messages
}
