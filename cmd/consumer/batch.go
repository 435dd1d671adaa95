package main

import (
	"context"
	"time"

	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/pkg/log"
)

type batchWriter interface {
	CreateBatch(messages []model.FileMessage) error
}

// processBatchedFiles gom message thành từng lô, ghi khi đủ batchSize hoặc hết batchTimeout.
// Phần còn lại được ghi nốt khi ctx kết thúc.
func processBatchedFiles(ctx context.Context, messages <-chan model.FileMessage, batchSize int,
	batchTimeout time.Duration, logger log.Logger, writer batchWriter) {

	var batch []model.FileMessage
	timer := time.NewTimer(batchTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			// Lấy nốt các message đã vào channel
		drain:
			for {
				select {
				case msg := <-messages:
					batch = append(batch, msg)
				default:
					break drain
				}
			}
			processSingleBatch(ctx, batch, logger, writer)
			return

		case msg := <-messages:
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processSingleBatch(ctx, batch, logger, writer)
				batch = nil
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			if len(batch) > 0 {
				processSingleBatch(ctx, batch, logger, writer)
				batch = nil
			}
			timer.Reset(batchTimeout)
		}
	}
}

func processSingleBatch(ctx context.Context, batch []model.FileMessage, logger log.Logger, writer batchWriter) {
	if len(batch) == 0 {
		return
	}

	logger.Info(ctx, "Processing batch of %d source files", len(batch))
	if err := writer.CreateBatch(batch); err != nil {
		logger.Error(ctx, "Failed to save batch of source files: %v", err)
	}
}
