package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	BlobCleanupQueue      = "blob.cleanup"
	BlobCleanupExchange   = "blob.exchange"
	BlobCleanupRoutingKey = "blob.cleanup"
)

// BlobCleanupMessage asks the cleanup worker to remove a backing object
// whose synchronous deletion failed. Metadata is the source of truth for
// what the user sees, so the row is already gone by the time this is
// published.
type BlobCleanupMessage struct {
	ObjectKey string `json:"object_key"`
	OwnerID   string `json:"owner_id"`
	EntryID   string `json:"entry_id"`
	Timestamp int64  `json:"timestamp"`
}

// BlobCleanupService publishes cleanup jobs for orphaned blobs.
type BlobCleanupService struct {
	channel *amqp.Channel
}

func InitBlobCleanupService(channel *amqp.Channel) *BlobCleanupService {
	service := &BlobCleanupService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		BlobCleanupExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Blob exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		BlobCleanupQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Blob Cleanup queue: " + err.Error())
	}

	err = channel.QueueBind(
		BlobCleanupQueue,
		BlobCleanupRoutingKey,
		BlobCleanupExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Blob Cleanup queue: " + err.Error())
	}

	return service
}

// PublishBlobCleanup publishes a cleanup job to the queue.
func (s *BlobCleanupService) PublishBlobCleanup(ctx context.Context, msg BlobCleanupMessage) error {
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		BlobCleanupExchange,
		BlobCleanupRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
