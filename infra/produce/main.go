package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	BlobCleanup *BlobCleanupService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	blobCleanup := InitBlobCleanupService(channel)
	if blobCleanup == nil {
		panic("Failed to initialize Blob Cleanup service")
	}

	produceInstance = &Produce{
		BlobCleanup: blobCleanup,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
