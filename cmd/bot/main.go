package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mlb-odds-mailer/internal/app"
	"mlb-odds-mailer/internal/config"
	"mlb-odds-mailer/internal/logging"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_BOT_RUN") == "1" {
		return
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		File:    os.Getenv("LOG_FILE"),
		Service: "mlb-odds-mailer",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, logger)
	a.Run(ctx, stop)
}
