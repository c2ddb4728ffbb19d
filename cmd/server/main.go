package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/app/server"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/platform/config"
)

func main() {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
