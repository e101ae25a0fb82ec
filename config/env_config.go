package config

import (
	"os"
	"strconv"
	"strings"
)

type EnvConfig struct {
	Postgres struct {
		Host     string
		Database string
		Username string
		Password string
		Port     string
	}
	JWT struct {
		SecretKey string
		Expire    int
	}
	CORS struct {
		AllowDomains string
	}
	Redis struct {
		Password string
		Database int
		Host     string
		Port     string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Minio struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}
	Storage struct {
		LimitBytes int64 // per-user quota surfaced in stats
		CDNBaseURL string
	}
	Grafana struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Environment struct {
		Mode string
	}
	HTTPPort string
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.Host = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")
	if config.Postgres.Port == "" {
		config.Postgres.Port = "5432"
	}

	// JWT
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	if val := os.Getenv("JWT_EXPIRE"); val != "" {
		config.JWT.Expire, _ = strconv.Atoi(val)
	} else {
		config.JWT.Expire = 3600 * 24 * 7
	}

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.Host = os.Getenv("REDIS_HOST")
	config.Redis.Port = os.Getenv("REDIS_PORT")
	if config.Redis.Port == "" {
		config.Redis.Port = "6379"
	}

	// RabbitMQ
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	if config.RabbitMQ.Host == "" {
		config.RabbitMQ.Host = "localhost"
	}
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	// MinIO
	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	config.Minio.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	config.Minio.Bucket = os.Getenv("MINIO_BUCKET")
	if config.Minio.Bucket == "" {
		config.Minio.Bucket = "sky-drive"
	}
	config.Minio.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	// Storage quota surfaced by the stats endpoint
	if limitStr := os.Getenv("STORAGE_LIMIT_BYTES"); limitStr != "" {
		if limit, err := strconv.ParseInt(limitStr, 10, 64); err == nil {
			config.Storage.LimitBytes = limit
		} else {
			config.Storage.LimitBytes = 107374182400 // Default 100GB
		}
	} else {
		config.Storage.LimitBytes = 107374182400 // Default 100GB
	}
	config.Storage.CDNBaseURL = os.Getenv("CDN_BASE_URL")
	if config.Storage.CDNBaseURL == "" {
		config.Storage.CDNBaseURL = "http://localhost:9000/sky-drive"
	}

	// Grafana/OpenTelemetry
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	if grafanaEndpoint == "" {
		grafanaEndpoint = "localhost:4318"
	}
	// Remove protocol for OpenTelemetry client to avoid duplicate protocols
	if strings.HasPrefix(grafanaEndpoint, "https://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	} else if strings.HasPrefix(grafanaEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
	} else {
		config.Grafana.OTLPEndpoint = grafanaEndpoint
	}
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "sky-drive-service"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	config.HTTPPort = os.Getenv("HTTP_PORT")
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}

	return &config
}
