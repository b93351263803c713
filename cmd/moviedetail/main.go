package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sendrec/moviedetail/internal/catalog"
	"github.com/sendrec/moviedetail/internal/database"
	"github.com/sendrec/moviedetail/internal/geoip"
	"github.com/sendrec/moviedetail/internal/page"
	"github.com/sendrec/moviedetail/internal/server"
	"github.com/sendrec/moviedetail/internal/session"
	"github.com/sendrec/moviedetail/internal/storage"
)

var version = "0.1.0"

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := newServeCmd()

	rootCmd := &cobra.Command{
		Use:     "moviedetail",
		Short:   "Serve interactive movie detail pages",
		Version: version,
		RunE:    serveCmd.RunE,
	}
	rootCmd.SetVersionTemplate("moviedetail version {{.Version}}\n")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newMigrateCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply catalog schema and seed migrations, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL := os.Getenv("DATABASE_URL")
			if databaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			if err := database.Migrate(databaseURL); err != nil {
				return fmt.Errorf("database migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database migrations applied")
			return nil
		},
	}
}

func serve(cfg config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	log.Println("database migrations applied")

	var media page.MediaResolver
	if cfg.Storage.Endpoint != "" {
		store, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("storage initialization failed: %v", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatalf("storage bucket check failed: %v", err)
		}
		media = store
		log.Println("storage bucket ready")
	} else {
		log.Println("S3_ENDPOINT not set, media references served as-is")
	}

	geo := geoip.Open(cfg.GeoIPPath)
	defer geo.Close()

	sessions := session.NewManager(session.Config{
		Secret:        cfg.SessionSecret,
		IdleTTL:       cfg.SessionTTL,
		SecureCookies: cfg.secureCookies(),
	})

	srv := server.New(server.Config{
		Pinger:          db,
		Catalog:         catalog.NewStore(db.Pool),
		Media:           media,
		Sessions:        sessions,
		GeoIP:           geo,
		BaseURL:         cfg.BaseURL,
		StorageEndpoint: cfg.Storage.PublicEndpoint,
		DefaultMovieID:  cfg.DefaultMovieID,
		PulseDuration:   cfg.PulseDuration,
		EnableDocs:      cfg.EnableDocs,
	})

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	session.StartSweeper(bgCtx, sessions, time.Minute)
	srv.StartCleanup(bgCtx)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("moviedetail listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-shutdownCh
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Println("shutdown complete")
	return nil
}
