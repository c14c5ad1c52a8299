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

	"github.com/aogrady3/Stack-Expressions/internal/agent"
	"github.com/aogrady3/Stack-Expressions/internal/config"
	"github.com/aogrady3/Stack-Expressions/internal/orchestrator"
)

func main() {
	withAgent := flag.Bool("agent", true, "run an in-process agent")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := orchestrator.New(orchestrator.WithLease(cfg.TaskLease))
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           o.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if *withAgent {
		local := cfg
		local.OrchestratorURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
		go agent.New(local, nil).Run(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down: %v", err)
		}
	}()

	log.Printf("Server is running on port %d", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
