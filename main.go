package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stuf-api/internal/audit"
	"stuf-api/internal/auth"
	"stuf-api/internal/config"
	"stuf-api/internal/http"
	"stuf-api/internal/storage/s3"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	storageClient, err := s3.NewClient(&cfg.S3)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}

	log.Println("Storage client initialized")

	keyResolver := auth.NewCachingKeyResolver(
		auth.NewJWKSResolver(cfg.Keycloak.JWKSEndpoint(), cfg.Keycloak.JWKSTimeout),
		cfg.Keycloak.JWKSCacheTTL,
	)
	verifier := auth.NewVerifier(keyResolver, cfg.Keycloak.Issuer(), cfg.Keycloak.AllowedAudiences)
	authMiddleware := auth.NewMiddleware(verifier)

	auditLogger := audit.NewLogger(os.Stdout)

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Storage:        storageClient,
		AuthMiddleware: authMiddleware,
		AuditLogger:    auditLogger,
	})

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
