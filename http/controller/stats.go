package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/skydrive-cloud/sky-drive-service/utils"
)

func (ctrl *Controller) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	stats, err := ctrl.Service.ComputeStats(ctx, ownerID)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, stats)
}
