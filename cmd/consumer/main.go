package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/crawler"
	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/pkg/db"
	"github.com/thep200/github-code-crawler/pkg/kafka"
	"github.com/thep200/github-code-crawler/pkg/log"
)

var (
	configDir    string
	batchSize    int
	batchTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "consumer",
	Short:        "Store crawled source files from Kafka into MySQL",
	Long:         "Reads the file messages the crawler publishes after each checkpoint and upserts them into the source_files table in batches.",
	SilenceUsage: true,
	RunE:         runConsumer,
}

func init() {
	rootCmd.Flags().StringVarP(&configDir, "config", "c", "cfg/yaml", "Directory containing mode.yaml")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 100, "Messages written to MySQL per batch")
	rootCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 5*time.Second, "Flush a partial batch after this long")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runConsumer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, err := cfg.NewViperLoader(configDir)
	if err != nil {
		return err
	}
	config, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.New(config.Log.Format, config.Log.Level)
	if err != nil {
		return err
	}

	mysql, _ := db.NewMysql(config)
	defer mysql.Close()
	sourceFileMd, _ := model.NewSourceFile(config, logger, mysql)
	if err := mysql.Migrate(sourceFileMd); err != nil {
		return fmt.Errorf("failed to migrate source_files: %w", err)
	}

	consumer, err := kafka.NewConsumer(config, logger)
	if err != nil {
		return err
	}
	defer consumer.Close()

	// Channel to collect messages for batch processing
	messages := make(chan model.FileMessage, batchSize*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		processBatchedFiles(ctx, messages, batchSize, batchTimeout, logger, sourceFileMd)
	}()

	consumer.RegisterHandler(crawler.MessageKeyFile, func(data []byte) error {
		var msg model.FileMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal file message: %w", err)
		}

		select {
		case messages <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})

	logger.Info(ctx, "Source file consumer started, topic %s", config.Kafka.TopicFile)
	err = consumer.Start(ctx)
	stop()
	<-done
	logger.Info(ctx, "Consumer stopped")
	return err
}
