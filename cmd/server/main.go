package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/sajidhasan07/buzzline/backend/internal/router"
	"github.com/sajidhasan07/buzzline/backend/internal/validators"
	"github.com/sajidhasan07/buzzline/backend/pkg/config"
	"github.com/sajidhasan07/buzzline/backend/pkg/firebase"
	"github.com/sajidhasan07/buzzline/backend/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Blob store backed by the Firebase storage bucket
	blobStore, err := storage.NewGCSBlobStore(ctx, firebaseApp.StorageClient)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, firebaseApp.AuthClient, blobStore)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
