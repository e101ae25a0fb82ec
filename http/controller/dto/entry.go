package dto

import "github.com/google/uuid"

type CreateFolderRequest struct {
	Name     string     `json:"name" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type EmptyTrashResponse struct {
	DeletedCount int64  `json:"deleted_count"`
	Message      string `json:"message"`
}

type DownloadResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in_seconds"`
}
