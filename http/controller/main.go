package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/skydrive-cloud/sky-drive-service/config"
	"github.com/skydrive-cloud/sky-drive-service/infra"
	"github.com/skydrive-cloud/sky-drive-service/repository"
	"github.com/skydrive-cloud/sky-drive-service/service"
	"github.com/skydrive-cloud/sky-drive-service/utils"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Service    *service.Service
}

func NewController(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	svc := service.InitService(
		cfg.EnvConfig,
		repo,
		infra.Minio,
		infra.Produce.BlobCleanup,
		infra.Redis,
		infra.Logger.Slog(),
	)

	return &Controller{
		Config:     cfg,
		Infra:      infra,
		Repository: repo,
		Service:    svc,
	}
}

// respondServiceError maps the service/store error taxonomy onto HTTP
// statuses. Unknown errors are logged and surfaced as 500.
func (ctrl *Controller) respondServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrParentNotFound):
		utils.JSON404(c, "Parent folder not found")
	case errors.Is(err, repository.ErrNotFound):
		utils.JSON404(c, "Entry not found")
	case errors.Is(err, repository.ErrDuplicateName):
		utils.JSON409(c, "An entry with this name already exists")
	case errors.Is(err, service.ErrInvalidState):
		utils.JSON409(c, "Operation not allowed in the entry's current state")
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drive] Unhandled service error: %v", err)
		utils.JSON500(c, "Internal server error")
	}
}
