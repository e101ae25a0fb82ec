package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/skydrive-cloud/sky-drive-service/entity"
	"github.com/skydrive-cloud/sky-drive-service/repository"
)

// CreateFolder validates the name and parent, checks active-sibling
// uniqueness, and inserts the folder. The store's unique index settles
// concurrent creates; the pre-check only gives a fast rejection.
func (s *Service) CreateFolder(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (*entity.Entry, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	if _, err := s.resolveParent(ownerID, parentID); err != nil {
		return nil, err
	}

	if err := s.checkActiveSibling(ownerID, parentID, name); err != nil {
		return nil, err
	}

	folder := &entity.Entry{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		ParentID:    parentID,
		IsFolder:    true,
		Size:        0,
		ContentType: entity.ContentTypeFolder,
	}

	if err := s.repo.EntryRepo.Create(folder); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	s.log.InfoContext(ctx, "folder created",
		"owner_id", ownerID, "entry_id", folder.ID, "name", name)

	return folder, nil
}

// FileRegistration carries the metadata of an uploaded blob.
type FileRegistration struct {
	Name         string
	ParentID     *uuid.UUID
	Size         int64
	ContentType  string
	ObjectKey    string
	FileURL      string
	ThumbnailURL string
	Metadata     map[string]interface{}
}

// RegisterFile inserts a file entry for an already-stored blob. Name
// uniqueness is enforced for files the same way as for folders.
func (s *Service) RegisterFile(ctx context.Context, ownerID uuid.UUID, reg FileRegistration) (*entity.Entry, error) {
	name, err := validateName(reg.Name)
	if err != nil {
		return nil, err
	}
	if reg.Size < 0 {
		return nil, fmt.Errorf("%w: size must be non-negative", ErrInvalidInput)
	}

	if _, err := s.resolveParent(ownerID, reg.ParentID); err != nil {
		return nil, err
	}

	if err := s.checkActiveSibling(ownerID, reg.ParentID, name); err != nil {
		return nil, err
	}

	contentType := reg.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file := &entity.Entry{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         name,
		ParentID:     reg.ParentID,
		IsFolder:     false,
		Size:         reg.Size,
		ContentType:  contentType,
		ObjectKey:    reg.ObjectKey,
		FileURL:      reg.FileURL,
		ThumbnailURL: reg.ThumbnailURL,
		Metadata:     reg.Metadata,
	}

	if err := s.repo.EntryRepo.Create(file); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	s.log.InfoContext(ctx, "file registered",
		"owner_id", ownerID, "entry_id", file.ID, "name", name, "size", reg.Size)

	return file, nil
}

// GetEntry returns a single owner-scoped entry.
func (s *Service) GetEntry(ctx context.Context, entryID, ownerID uuid.UUID) (*entity.Entry, error) {
	return s.repo.EntryRepo.FindByID(entryID, ownerID)
}

// ListEntries lists the owner's entries under the given filter.
func (s *Service) ListEntries(ctx context.Context, ownerID uuid.UUID, filter repository.ListFilter) ([]entity.Entry, error) {
	return s.repo.EntryRepo.List(ownerID, filter)
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > entity.MaxNameLength {
		return "", fmt.Errorf("%w: name too long", ErrInvalidInput)
	}
	return name, nil
}

// resolveParent loads and validates the declared parent: it must exist
// for this owner, be a folder, and not sit in the trash. A nil parent is
// the root and always valid.
func (s *Service) resolveParent(ownerID uuid.UUID, parentID *uuid.UUID) (*entity.Entry, error) {
	if parentID == nil {
		return nil, nil
	}

	parent, err := s.repo.EntryRepo.FindByID(*parentID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	if !parent.IsFolder || parent.IsTrashed {
		return nil, ErrParentNotFound
	}
	return parent, nil
}

func (s *Service) checkActiveSibling(ownerID uuid.UUID, parentID *uuid.UUID, name string) error {
	exists, err := s.repo.EntryRepo.ActiveSiblingExists(ownerID, parentID, name)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrDuplicateName
	}
	return nil
}

// hasTrashedAncestor walks the parent chain. The visited set is a guard
// against a corrupted chain; cycles cannot arise by construction since
// entries are never re-parented.
func (s *Service) hasTrashedAncestor(ownerID uuid.UUID, entry *entity.Entry) (bool, error) {
	visited := map[uuid.UUID]bool{entry.ID: true}

	current := entry
	for current.ParentID != nil {
		if visited[*current.ParentID] {
			return false, fmt.Errorf("%w: cycle detected in parent chain at %s",
				repository.ErrStoreUnavailable, current.ParentID)
		}
		visited[*current.ParentID] = true

		parent, err := s.repo.EntryRepo.FindByID(*current.ParentID, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Dangling parent pointer; treat the chain as ended.
				return false, nil
			}
			return false, err
		}
		if parent.IsTrashed {
			return true, nil
		}
		current = parent
	}

	return false, nil
}
