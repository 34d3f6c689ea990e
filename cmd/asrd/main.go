package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/server"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := server.DefaultConfig()
	cfg.Port = config.GetEnvOrDefault("ASRD_PORT", cfg.Port)

	srv := app.InitializeServer(logger, cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
