package crawler

import (
	"context"

	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/pkg/kafka"
)

// MessageKeyFile is the Kafka key the consumer routes file messages by.
const MessageKeyFile = "file"

// Publisher is told about the files of each repository once its checkpoint is saved.
type Publisher interface {
	PublishFiles(ctx context.Context, repo string, files []model.FileRecord) error
}

type KafkaPublisher struct {
	Producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{Producer: producer}
}

func (p *KafkaPublisher) PublishFiles(ctx context.Context, repo string, files []model.FileRecord) error {
	messages := make([]kafka.Message, 0, len(files))
	for _, msg := range model.NewFileMessages(repo, files) {
		messages = append(messages, kafka.Message{Key: MessageKeyFile, Value: msg})
	}
	return p.Producer.PublishBatch(ctx, messages)
}
