package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/skydrive-cloud/sky-drive-service/http/controller"
)

type Middlewares struct {
	CORSMiddleware      gin.HandlerFunc
	AuthMiddleware      gin.HandlerFunc
	TelemetryMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	auth := AuthMiddleware(ctrl.Config.EnvConfig)
	telemetry, err := TelemetryMiddleware(ctrl.Config.EnvConfig)
	if err != nil {
		return nil, err
	}

	return &Middlewares{
		CORSMiddleware:      cors,
		AuthMiddleware:      auth,
		TelemetryMiddleware: telemetry,
	}, nil
}
