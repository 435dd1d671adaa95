package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/state"
	"github.com/thep200/github-code-crawler/internal/ui"
	"github.com/thep200/github-code-crawler/pkg/db"
	applog "github.com/thep200/github-code-crawler/pkg/log"
)

var (
	configDir string
	port      int
)

var rootCmd = &cobra.Command{
	Use:          "ui",
	Short:        "Browse the saved crawl state over HTTP",
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&configDir, "config", "c", "cfg/yaml", "Directory containing mode.yaml")
	rootCmd.Flags().IntVar(&port, "port", 8080, "Port for the UI server to listen on")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	loader, err := cfg.NewViperLoader(configDir)
	if err != nil {
		return err
	}
	config, err := loader.Load()
	if err != nil {
		return err
	}
	logger, err := applog.New(config.Log.Format, config.Log.Level)
	if err != nil {
		return err
	}

	var mysql *db.Mysql
	var rdb redis.UniversalClient
	switch config.Storage.Backend {
	case state.BackendMysql:
		mysql, _ = db.NewMysql(config)
		defer mysql.Close()
	case state.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: config.Redis.Addr, Password: config.Redis.Password, DB: config.Redis.DB})
		defer client.Close()
		rdb = client
	}

	store, err := state.NewStore(config, logger, mysql, rdb)
	if err != nil {
		return err
	}

	server, err := ui.NewServer(logger, config, store, port)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error(ctx, "Error during server shutdown: %v", err)
	}

	logger.Info(ctx, "Server shut down gracefully")
	return nil
}
