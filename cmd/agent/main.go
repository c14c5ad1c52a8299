package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aogrady3/Stack-Expressions/internal/agent"
	"github.com/aogrady3/Stack-Expressions/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Agent started with %d workers against %s", cfg.ComputingPower, cfg.OrchestratorURL)
	agent.New(cfg, nil).Run(ctx)
	log.Println("Agent stopped")
}
