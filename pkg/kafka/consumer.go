package kafka

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/pkg/log"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer handles Kafka message consumption
type Consumer struct {
	Config   *cfg.Config
	Logger   log.Logger
	topic    string
	reader   messageReader
	handlers map[string]func([]byte) error
}

// NewConsumer reads the configured file topic as part of the configured group
func NewConsumer(config *cfg.Config, logger log.Logger) (*Consumer, error) {
	if len(config.Kafka.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Kafka.Brokers,
		Topic:          config.Kafka.TopicFile,
		GroupID:        config.Kafka.GroupID,
		MinBytes:       10e3,        // 10KB
		MaxBytes:       10e6,        // 10MB
		MaxWait:        time.Second, // Maximum amount of time to wait for new data
		StartOffset:    kafka.FirstOffset,
		RetentionTime:  7 * 24 * time.Hour, // 1 week
		CommitInterval: time.Second,        // Flush commits to Kafka every second
	})

	return NewConsumerWithReader(config, logger, config.Kafka.TopicFile, reader), nil
}

func NewConsumerWithReader(config *cfg.Config, logger log.Logger, topic string, reader messageReader) *Consumer {
	return &Consumer{
		Config:   config,
		Logger:   logger,
		topic:    topic,
		reader:   reader,
		handlers: make(map[string]func([]byte) error),
	}
}

// RegisterHandler registers a message handler for a specific message key
func (c *Consumer) RegisterHandler(key string, handler func([]byte) error) {
	c.handlers[key] = handler
}

// Start reads until ctx is cancelled or the reader is closed
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info(ctx, "Starting Kafka consumer for topic: %s", c.topic)

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			c.Logger.Error(ctx, "Error reading message: %v", err)
			continue
		}

		// Handle the message
		key := string(message.Key)
		handler, exists := c.handlers[key]
		if !exists {
			c.Logger.Warn(ctx, "No handler registered for message with key: %s", key)
			continue
		}
		if err := handler(message.Value); err != nil {
			c.Logger.Error(ctx, "Error handling message with key %s: %v", key, err)
		} else {
			c.Logger.Debug(ctx, "Successfully processed message with key: %s", key)
		}
	}
}

// Close closes the Kafka reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
