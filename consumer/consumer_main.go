package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/skydrive-cloud/sky-drive-service/config"
	"github.com/skydrive-cloud/sky-drive-service/consumer/worker"
	infraPkg "github.com/skydrive-cloud/sky-drive-service/infra"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blobConsumer := worker.NewBlobCleanupConsumer(infra.RabbitMQ.Channel, infra)
	if err := blobConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Blob Cleanup consumer: %v", err)
		log.Fatalf("Failed to start Blob Cleanup consumer: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
}
