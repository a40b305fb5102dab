// ABOUTME: Renders the chat transcript as a standalone HTML page.
// ABOUTME: Agent messages pass through goldmark so markdown replies render properly.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/oceanpilot/oceanpilot/workflow"
)

var transcriptTemplate = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Session {{.SessionID}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
.msg { margin: 0.75rem 0; padding: 0.5rem 0.75rem; border-radius: 0.5rem; }
.user { background: #e3f2fd; }
.bot { background: #f1f8e9; }
.status { color: #888; font-style: italic; }
.sender { font-weight: bold; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Session {{.SessionID}}</h1>
{{range .Messages}}<div class="msg {{.Class}}">
<div class="sender">{{.Sender}}</div>
{{.Body}}
</div>
{{end}}</body>
</html>
`))

type htmlMessage struct {
	Class  string
	Sender string
	Body   template.HTML
}

// TranscriptHTML renders the session transcript as a self-contained HTML page.
func TranscriptHTML(state *workflow.State) (string, error) {
	md := goldmark.New()

	var messages []htmlMessage
	for _, m := range state.Transcript.Messages() {
		hm := htmlMessage{Class: "bot", Sender: "agent"}
		if m.From == workflow.SenderUser {
			hm.Class, hm.Sender = "user", "you"
		}
		if m.Status {
			hm.Class = "status"
		}

		var buf bytes.Buffer
		if err := md.Convert([]byte(m.Text), &buf); err != nil {
			// Fall back to escaped plain text on conversion failure.
			hm.Body = template.HTML("<p>" + template.HTMLEscapeString(m.Text) + "</p>")
		} else {
			hm.Body = template.HTML(buf.String())
		}
		messages = append(messages, hm)
	}

	var out strings.Builder
	err := transcriptTemplate.Execute(&out, struct {
		SessionID string
		Messages  []htmlMessage
	}{
		SessionID: state.Session.ID(),
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("render transcript: %w", err)
	}
	return out.String(), nil
}
