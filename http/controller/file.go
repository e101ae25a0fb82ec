package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skydrive-cloud/sky-drive-service/http/controller/dto"
	"github.com/skydrive-cloud/sky-drive-service/repository"
	"github.com/skydrive-cloud/sky-drive-service/utils"
)

// ListEntries serves the dashboard listings: a directory (parent_id or
// the root), optionally narrowed to starred entries or to the trash.
func (ctrl *Controller) ListEntries(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	filter := repository.ListFilter{}

	if parentIDStr := c.Query("parent_id"); parentIDStr != "" {
		parentID, err := uuid.Parse(parentIDStr)
		if err != nil {
			utils.JSON400(c, "Invalid parent_id format")
			return
		}
		filter.ParentID = &parentID
	}

	switch c.Query("starred") {
	case "true":
		starred := true
		filter.Starred = &starred
	case "":
		// no starred filter
	default:
		utils.JSON400(c, "Invalid starred filter, expected 'true'")
		return
	}

	filter.Trashed = c.Query("trashed") == "true"

	// Starred and trash views span the whole tree; the plain listing is
	// directory-scoped and defaults to the root.
	if filter.ParentID == nil && filter.Starred == nil && !filter.Trashed {
		filter.Root = true
	}

	entries, err := ctrl.Service.ListEntries(ctx, ownerID, filter)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, entries)
}

func (ctrl *Controller) GetEntry(c *gin.Context) {
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

	entry, err := ctrl.Service.GetEntry(ctx, entryID, ownerID)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, entry)
}

func (ctrl *Controller) UploadFile(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSON400(c, "Failed to get file: "+err.Error())
		return
	}

	var parentID *uuid.UUID
	if parentIDStr := c.PostForm("parent_id"); parentIDStr != "" {
		parsed, err := uuid.Parse(parentIDStr)
		if err != nil {
			utils.JSON400(c, "Invalid parent_id format")
			return
		}
		parentID = &parsed
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	src, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to open uploaded file: %v", err)
		utils.JSON500(c, "Failed to read uploaded file")
		return
	}
	defer src.Close()

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[File] Uploading '%s' (size: %d bytes) for user %s",
		fileHeader.Filename, fileHeader.Size, ownerID)

	entry, err := ctrl.Service.UploadFile(ctx, ownerID, parentID, fileHeader.Filename, fileHeader.Size, contentType, src)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON201(c, entry)
}

func (ctrl *Controller) DownloadEntry(c *gin.Context) {
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

	url, err := ctrl.Service.DownloadURL(ctx, entryID, ownerID)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, dto.DownloadResponse{
		URL:       url,
		ExpiresIn: 15 * 60,
	})
}
