package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/skydrive-cloud/sky-drive-service/http/controller/dto"
	"github.com/skydrive-cloud/sky-drive-service/utils"
)

func (ctrl *Controller) CreateFolder(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	folder, err := ctrl.Service.CreateFolder(ctx, ownerID, req.Name, req.ParentID)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Folder] Created folder '%s' (%s) for user %s", folder.Name, folder.ID, ownerID)
	utils.JSON201(c, folder)
}
