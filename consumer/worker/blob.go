package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/skydrive-cloud/sky-drive-service/infra"
	"github.com/skydrive-cloud/sky-drive-service/infra/produce"
)

// BlobCleanupConsumer removes backing objects whose synchronous deletion
// failed during a permanent delete. The metadata row is already gone, so
// every job here is reclaiming an orphan.
type BlobCleanupConsumer struct {
	channel *amqp.Channel
	infra   *infra.Infra
}

func NewBlobCleanupConsumer(channel *amqp.Channel, infra *infra.Infra) *BlobCleanupConsumer {
	return &BlobCleanupConsumer{
		channel: channel,
		infra:   infra,
	}
}

// Start begins consuming blob cleanup jobs.
func (c *BlobCleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.BlobCleanupQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register blob cleanup consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Blob Consumer] Started listening for cleanup jobs on queue: %s", produce.BlobCleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Blob Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Blob Consumer] Channel closed")
					return
				}
				c.handleCleanup(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *BlobCleanupConsumer) handleCleanup(ctx context.Context, msg amqp.Delivery) {
	var payload produce.BlobCleanupMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Blob Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	maxRetries := 3
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = c.infra.Minio.Remove(ctx, payload.ObjectKey)
		if lastErr == nil {
			c.infra.Logger.InfoWithContextf(ctx, "[Blob Consumer] Reclaimed orphaned object '%s' (owner %s)", payload.ObjectKey, payload.OwnerID)
			_ = msg.Ack(false)
			return
		}

		c.infra.Logger.ErrorWithContextf(ctx, lastErr, "[Blob Consumer] Attempt %d/%d failed for '%s': %v", attempt, maxRetries, payload.ObjectKey, lastErr)

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}

	// After max retries, requeue so a later run can reclaim the object.
	c.infra.Logger.ErrorWithContextf(ctx, lastErr, "[Blob Consumer] Failed after %d attempts, requeueing '%s'", maxRetries, payload.ObjectKey)
	_ = msg.Nack(false, true)
}
