package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skydrive-cloud/sky-drive-service/http/controller/dto"
	"github.com/skydrive-cloud/sky-drive-service/utils"
)

func (ctrl *Controller) ToggleStar(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid entry id format")
		return
	}

	entry, err := ctrl.Service.ToggleStar(ctx, entryID, ownerID)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, entry)
}

func (ctrl *Controller) TrashEntry(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid entry id format")
		return
	}

	entry, err := ctrl.Service.Trash(ctx, entryID, ownerID)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, entry)
}

func (ctrl *Controller) RestoreEntry(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid entry id format")
		return
	}

	entry, err := ctrl.Service.Restore(ctx, entryID, ownerID)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, entry)
}

func (ctrl *Controller) DeleteEntry(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid entry id format")
		return
	}

	if err := ctrl.Service.DeletePermanently(ctx, entryID, ownerID); err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, gin.H{
		"message":  "Entry deleted permanently",
		"entry_id": entryID,
	})
}

func (ctrl *Controller) EmptyTrash(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	deleted, err := ctrl.Service.EmptyTrash(ctx, ownerID)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Trash] Emptied trash for user %s, removed %d entries", ownerID, deleted)
	utils.JSON200(c, dto.EmptyTrashResponse{
		DeletedCount: deleted,
		Message:      "Trash emptied successfully",
	})
}
