package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skydrive-cloud/sky-drive-service/entity"
)

// listOrder puts folders before files, newest activity first; the id
// tiebreak keeps the order deterministic for equal timestamps.
const listOrder = "is_folder DESC, updated_at DESC, id ASC"

// ListFilter narrows List to a directory and lifecycle subset. ParentID
// set means that directory, Root means the owner's tree root, neither
// means the whole tree. Trashed defaults to the active subset.
type ListFilter struct {
	ParentID *uuid.UUID
	Root     bool
	Starred  *bool
	Trashed  bool
}

type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Create(entry *entity.Entry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return translate(err)
	}
	return nil
}

// FindByID is owner-scoped: an id owned by another tenant comes back as
// ErrNotFound, never as a distinct forbidden signal.
func (r *EntryRepository) FindByID(id, ownerID uuid.UUID) (*entity.Entry, error) {
	var entry entity.Entry
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&entry).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// UpdateFields patches the given columns and returns the fresh row.
// UpdatedAt is refreshed by gorm on every patch.
func (r *EntryRepository) UpdateFields(id, ownerID uuid.UUID, fields map[string]interface{}) (*entity.Entry, error) {
	res := r.db.Model(&entity.Entry{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(id, ownerID)
}

func (r *EntryRepository) Delete(id, ownerID uuid.UUID) error {
	res := r.db.Delete(&entity.Entry{}, "id = ? AND owner_id = ?", id, ownerID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByIDs removes a batch of owner-scoped rows and reports how many
// actually went away. Used by the cascade and empty-trash paths.
func (r *EntryRepository) DeleteByIDs(ids []uuid.UUID, ownerID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.Delete(&entity.Entry{}, "id IN ? AND owner_id = ?", ids, ownerID)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *EntryRepository) List(ownerID uuid.UUID, filter ListFilter) ([]entity.Entry, error) {
	q := r.db.Where("owner_id = ?", ownerID)

	if filter.ParentID != nil {
		q = q.Where("parent_id = ?", *filter.ParentID)
	} else if filter.Root {
		q = q.Where("parent_id IS NULL")
	}

	if filter.Starred != nil {
		q = q.Where("is_starred = ?", *filter.Starred)
	}
	q = q.Where("is_trashed = ?", filter.Trashed)

	var entries []entity.Entry
	if err := q.Order(listOrder).Find(&entries).Error; err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

// ListChildren returns every direct child regardless of lifecycle flags.
// The cascade paths use it to walk a subtree.
func (r *EntryRepository) ListChildren(ownerID, parentID uuid.UUID) ([]entity.Entry, error) {
	var entries []entity.Entry
	err := r.db.Where("owner_id = ? AND parent_id = ?", ownerID, parentID).Find(&entries).Error
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

func (r *EntryRepository) ListTrashed(ownerID uuid.UUID) ([]entity.Entry, error) {
	var entries []entity.Entry
	err := r.db.Where("owner_id = ? AND is_trashed = ?", ownerID, true).
		Order(listOrder).Find(&entries).Error
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

// ActiveSiblingExists is the fast-path duplicate check; the partial
// unique index remains the guard under races.
func (r *EntryRepository) ActiveSiblingExists(ownerID uuid.UUID, parentID *uuid.UUID, name string) (bool, error) {
	q := r.db.Model(&entity.Entry{}).
		Where("owner_id = ? AND name = ? AND is_trashed = ?", ownerID, name, false)
	if parentID != nil {
		q = q.Where("parent_id = ?", *parentID)
	} else {
		q = q.Where("parent_id IS NULL")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// Aggregate computes the per-user statistics with one scan per figure,
// all over the active subset except the trashed count.
func (r *EntryRepository) Aggregate(ownerID uuid.UUID) (*entity.Stats, error) {
	stats := &entity.Stats{}

	active := func() *gorm.DB {
		return r.db.Model(&entity.Entry{}).
			Where("owner_id = ? AND is_trashed = ?", ownerID, false)
	}

	if err := active().Where("is_folder = ?", false).Count(&stats.TotalFiles).Error; err != nil {
		return nil, translate(err)
	}
	if err := active().Where("is_folder = ?", false).
		Select("COALESCE(SUM(size), 0)").Scan(&stats.TotalSize).Error; err != nil {
		return nil, translate(err)
	}
	if err := active().Where("is_starred = ?", true).Count(&stats.StarredCount).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.db.Model(&entity.Entry{}).
		Where("owner_id = ? AND is_trashed = ?", ownerID, true).
		Count(&stats.TrashedCount).Error; err != nil {
		return nil, translate(err)
	}
	if err := active().Where("is_folder = ?", true).Count(&stats.FolderCount).Error; err != nil {
		return nil, translate(err)
	}

	files := func() *gorm.DB { return active().Where("is_folder = ?", false) }
	if err := files().Where("content_type LIKE ?", "image/%").Count(&stats.ImageCount).Error; err != nil {
		return nil, translate(err)
	}
	if err := files().Where("content_type LIKE ?", "video/%").Count(&stats.VideoCount).Error; err != nil {
		return nil, translate(err)
	}
	if err := files().Where("content_type LIKE ?", "audio/%").Count(&stats.AudioCount).Error; err != nil {
		return nil, translate(err)
	}

	// Documents are the complement of the media classes.
	stats.DocumentCount = stats.TotalFiles - stats.ImageCount - stats.VideoCount - stats.AudioCount
	stats.StorageUsed = stats.TotalSize

	return stats, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateName
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
