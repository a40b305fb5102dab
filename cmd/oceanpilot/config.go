// ABOUTME: CLI configuration: flags layered over OCEANPILOT_* environment variables.
// ABOUTME: Flags win over env; env wins over defaults. The .env loader runs before any of this.
package main

import (
	"errors"
	"flag"
	"os"
)

// Defaults match a locally running backend.
const (
	defaultAPIURL = "http://localhost:8000"
	defaultWSURL  = "ws://localhost:8000"
)

// config holds all CLI configuration parsed from flags and environment.
type config struct {
	apiURL      string
	wsURL       string
	logFile     string
	seslogPath  string
	exportYAML  string
	exportHTML  string
	showVersion bool
}

// envOr returns the environment value for key, or def when unset or empty.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseFlags parses command-line flags layered over the environment.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("oceanpilot", flag.ContinueOnError)
	fs.StringVar(&cfg.apiURL, "api-url", envOr("OCEANPILOT_API_URL", defaultAPIURL), "Backend REST base URL")
	fs.StringVar(&cfg.wsURL, "ws-url", envOr("OCEANPILOT_WS_URL", defaultWSURL), "Backend WebSocket base URL")
	fs.StringVar(&cfg.logFile, "log", envOr("OCEANPILOT_LOG", ""), "Debug log file (empty: logging off)")
	fs.StringVar(&cfg.seslogPath, "seslog", envOr("OCEANPILOT_SESLOG", ""), "SQLite session log path (empty: no session log)")
	fs.StringVar(&cfg.exportYAML, "export-yaml", "", "Write a YAML session summary here on exit")
	fs.StringVar(&cfg.exportHTML, "export-html", "", "Write an HTML transcript here on exit")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	return cfg
}
