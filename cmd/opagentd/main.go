// ABOUTME: Dev stub backend entrypoint: serves the full REST and WebSocket surface in-memory.
// ABOUTME: For local development and end-to-end testing of the terminal client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oceanpilot/oceanpilot/agentd"
)

func main() {
	var (
		addr  = flag.String("addr", ":8000", "Listen address")
		delay = flag.Duration("agent-delay", 300*time.Millisecond, "Pause before agent responses")
	)
	flag.Parse()

	srv := &http.Server{
		Addr:    *addr,
		Handler: agentd.NewServer(agentd.WithAgentDelay(*delay)).Handler(),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("opagentd listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}
