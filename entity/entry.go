package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	// ContentTypeFolder is the classification stored for folder entries.
	ContentTypeFolder = "folder"

	// MaxNameLength is the longest accepted entry name, in code points.
	MaxNameLength = 255
)

// Entry is a single file or folder record in a user's tree. Folders and
// files share one table; the hierarchy is a parent pointer, nil meaning the
// root of the owner's tree.
type Entry struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index:idx_entries_owner_parent,priority:1;index:idx_entries_owner_starred,priority:1"`

	Name     string     `json:"name" gorm:"type:varchar(255);not null"`
	ParentID *uuid.UUID `json:"parent_id" gorm:"type:uuid;index:idx_entries_owner_parent,priority:2"`

	IsFolder    bool   `json:"is_folder" gorm:"not null;default:false"`
	Size        int64  `json:"size" gorm:"not null;default:0"`
	ContentType string `json:"content_type" gorm:"type:varchar(255);not null"`

	// Blob locators; empty for folders.
	ObjectKey    string            `json:"object_key,omitempty" gorm:"type:varchar(1024)"`
	FileURL      string            `json:"file_url,omitempty" gorm:"type:varchar(1024)"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty" gorm:"type:varchar(1024)"`
	Metadata     datatypes.JSONMap `json:"metadata,omitempty"`

	IsStarred bool `json:"is_starred" gorm:"not null;default:false;index:idx_entries_owner_starred,priority:2"`
	IsTrashed bool `json:"is_trashed" gorm:"not null;default:false;index:idx_entries_owner_parent,priority:3;index:idx_entries_owner_starred,priority:3"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (Entry) TableName() string {
	return "entries"
}

// IsRoot reports whether the entry sits at the top of its owner's tree.
func (e *Entry) IsRoot() bool {
	return e.ParentID == nil
}

func (e *Entry) IsImage() bool {
	return !e.IsFolder && strings.HasPrefix(e.ContentType, "image/")
}

func (e *Entry) IsVideo() bool {
	return !e.IsFolder && strings.HasPrefix(e.ContentType, "video/")
}

func (e *Entry) IsAudio() bool {
	return !e.IsFolder && strings.HasPrefix(e.ContentType, "audio/")
}

// IsDocument classifies by complement: any file that is not an image,
// video or audio counts as a document.
func (e *Entry) IsDocument() bool {
	return !e.IsFolder && !e.IsImage() && !e.IsVideo() && !e.IsAudio()
}
