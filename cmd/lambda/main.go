// Package main is the entry point for the translation Lambda function.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"codeberg.org/snonux/transbridge/internal/cli"
	"codeberg.org/snonux/transbridge/internal/handler"
)

func main() {
	// Configuration comes from TRANSBRIDGE_* environment variables
	cli.InitConfig("")
	settings := cli.LoadSettings()
	logger := cli.NewLogger(settings.LogLevel, "json")

	proc, err := cli.BuildProcessor(settings, logger)
	if err != nil {
		logger.Error("failed to initialise processor", slog.Any("error", err))
		os.Exit(1)
	}

	h := handler.New(proc)
	lambda.Start(func(ctx context.Context, event json.RawMessage) (interface{}, error) {
		return handleRequest(ctx, h, event)
	})
}

func handleRequest(ctx context.Context, h *handler.Handler, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup)
	}

	// Parse the request and delegate to the handler
	var req handler.Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, err
	}

	return h.Handle(ctx, req)
}
