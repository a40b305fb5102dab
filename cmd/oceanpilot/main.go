// ABOUTME: CLI entrypoint for the OceanPilot terminal client.
// ABOUTME: Wires the session, gateway client, push channel, TUI, and on-exit session exports.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oceanpilot/oceanpilot/channel"
	"github.com/oceanpilot/oceanpilot/export"
	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/seslog"
	"github.com/oceanpilot/oceanpilot/tui"
	"github.com/oceanpilot/oceanpilot/workflow"
)

var version = "dev"

func main() {
	loadDotEnv(".env")

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("oceanpilot %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// run wires everything together and blocks until the TUI exits.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if cfg.logFile != "" {
		f, err := tea.LogToFile(cfg.logFile, "oceanpilot")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: open log file: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
	}

	session := workflow.NewSession()
	state := workflow.NewState(session)
	client := gateway.NewClient(cfg.apiURL, session.ID())

	model := tui.NewAppModel(state, client)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Wire the push channel so agent events reach the message loop. The app
	// still works without it; the disconnected state just shows in the UI.
	bridge := tui.NewEventBridge(p.Send)
	dialCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ch, err := channel.Dial(dialCtx, cfg.wsURL, session.ID(), bridge)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: agent channel unavailable: %v\n", err)
		p.Send(tui.ChannelClosedMsg{Err: err})
	} else {
		defer ch.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return finish(cfg, state)
}

// finish writes the optional session log and exports after the TUI exits.
func finish(cfg config, state *workflow.State) int {
	code := 0

	if cfg.seslogPath != "" {
		log, err := seslog.Open(cfg.seslogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: session log: %v\n", err)
			code = 1
		} else {
			if err := log.RecordState(state); err != nil {
				fmt.Fprintf(os.Stderr, "warning: session log: %v\n", err)
				code = 1
			}
			_ = log.Close()
		}
	}

	if cfg.exportYAML != "" {
		doc, err := export.SessionYAML(state)
		if err == nil {
			err = os.WriteFile(cfg.exportYAML, []byte(doc), 0o644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: yaml export: %v\n", err)
			code = 1
		}
	}

	if cfg.exportHTML != "" {
		page, err := export.TranscriptHTML(state)
		if err == nil {
			err = os.WriteFile(cfg.exportHTML, []byte(page), 0o644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: html export: %v\n", err)
			code = 1
		}
	}

	return code
}
