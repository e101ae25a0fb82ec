package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/skydrive-cloud/sky-drive-service/config"
	"github.com/skydrive-cloud/sky-drive-service/http/controller"
	routes "github.com/skydrive-cloud/sky-drive-service/http/route"
	infraPkg "github.com/skydrive-cloud/sky-drive-service/infra"
	"github.com/skydrive-cloud/sky-drive-service/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra.Postgres.DB)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :" + cfg.EnvConfig.HTTPPort)
	if err := router.Run(":" + cfg.EnvConfig.HTTPPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
