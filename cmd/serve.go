package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shubhamdhabu/trace-rescue/internal/blob"
	"github.com/shubhamdhabu/trace-rescue/internal/cases"
	"github.com/shubhamdhabu/trace-rescue/internal/config"
	"github.com/shubhamdhabu/trace-rescue/internal/database/postgres"
	"github.com/shubhamdhabu/trace-rescue/internal/recognizer"
	"github.com/shubhamdhabu/trace-rescue/internal/search"
	"github.com/shubhamdhabu/trace-rescue/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Trace Rescue API server.
The server exposes case management, dashboard statistics, media uploads and
the recognition search workflow over a JSON API.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (string, int) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return host, port
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	if cfg.Recognizer.URL == "" {
		return errors.New("RECOGNIZER_URL environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET environment variable is required")
	}

	fmt.Printf("Connecting to PostgreSQL database...\n")
	pool, err := postgres.Initialize(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	caseStore := cases.NewStore(postgres.NewCaseRepository(pool))
	userRepo := postgres.NewUserRepository(pool)

	blobStore, err := blob.NewS3Store(cmd.Context(), &cfg.Blob)
	if err != nil {
		return fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	backend, err := recognizer.New(cfg.Recognizer.URL, cfg.Recognizer.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to create recognizer client: %w", err)
	}

	manager := search.NewManager()
	orchestrator := search.NewOrchestrator(backend, caseStore, &cfg.Recognizer)

	host, port := resolveServeHostPort(cmd)
	server := web.NewServer(web.Deps{
		Config:       cfg,
		CaseStore:    caseStore,
		UserRepo:     userRepo,
		BlobStore:    blobStore,
		Manager:      manager,
		Orchestrator: orchestrator,
	}, host, port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Trace Rescue API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
