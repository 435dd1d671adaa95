package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/crawler"
	"github.com/thep200/github-code-crawler/internal/state"
	"github.com/thep200/github-code-crawler/pkg/db"
	"github.com/thep200/github-code-crawler/pkg/kafka"
	"github.com/thep200/github-code-crawler/pkg/log"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:          "run",
	Short:        "Crawl source files from the most starred GitHub repositories",
	Long:         "Searches GitHub for repositories in the configured language and collects matching source files, saving a checkpoint after every repository so an interrupted crawl resumes where it stopped.",
	SilenceUsage: true,
	RunE:         runCrawl,
}

func init() {
	rootCmd.Flags().StringVarP(&configDir, "config", "c", "cfg/yaml", "Directory containing mode.yaml")
}

type Handler struct {
	Crawler crawler.Crawler
	Logger  log.Logger
}

func NewHandler(crawler crawler.Crawler, logger log.Logger) *Handler {
	return &Handler{
		Crawler: crawler,
		Logger:  logger,
	}
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, err := cfg.NewViperLoader(configDir)
	if err != nil {
		return err
	}
	config, err := loader.Load()
	if err != nil {
		return err
	}

	logger, err := log.New(config.Log.Format, config.Log.Level)
	if err != nil {
		return err
	}

	deps, cleanup, err := buildDeps(ctx, config, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	orchestrator, err := crawler.FactoryCrawler(logger, config, deps)
	if err != nil {
		return err
	}

	// Đổi searchDelay trong mode.yaml có hiệu lực ngay, không cần chạy lại
	loader.RegisterConfigChangeCallback(func(c *cfg.Config) {
		orchestrator.Searcher.Pacer.SetInterval(c.SearchDelayDuration())
		logger.Info(ctx, "Search delay set to %v", c.SearchDelayDuration())
	})

	logger.Info(ctx, "Starting %s %s", config.App.Name, config.App.Version)
	handler := NewHandler(orchestrator, logger)
	if !handler.Crawler.Crawl(ctx) {
		return fmt.Errorf("crawl failed")
	}
	logger.Info(ctx, "Successfully!")
	return nil
}

func buildDeps(ctx context.Context, config *cfg.Config, logger log.Logger) (crawler.Deps, func(), error) {
	var deps crawler.Deps
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn(ctx, "Close failed: %v", err)
			}
		}
	}

	switch config.Storage.Backend {
	case state.BackendMysql:
		mysql, _ := db.NewMysql(config)
		if err := mysql.Ping(); err != nil {
			mysql.Close()
			return deps, cleanup, fmt.Errorf("connect mysql: %w", err)
		}
		deps.Mysql = mysql
		closers = append(closers, mysql.Close)
	case state.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return deps, cleanup, fmt.Errorf("connect redis: %w", err)
		}
		deps.Redis = rdb
		closers = append(closers, rdb.Close)
	}

	if config.Kafka.Enabled {
		producer, err := kafka.NewProducer(config, logger)
		if err != nil {
			cleanup()
			return deps, func() {}, fmt.Errorf("create kafka producer: %w", err)
		}
		deps.Publisher = crawler.NewKafkaPublisher(producer)
		closers = append(closers, producer.Close)
	}

	return deps, cleanup, nil
}
