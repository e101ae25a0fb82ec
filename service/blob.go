package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/skydrive-cloud/sky-drive-service/entity"
	"github.com/skydrive-cloud/sky-drive-service/infra/produce"
)

const downloadURLExpiry = 15 * time.Minute

// UploadFile stores the blob and registers its metadata. The blob goes
// in first: if the upload fails the whole operation fails, since
// metadata without a backing object is meaningless. If registration
// fails afterwards the stored object is cleaned up.
func (s *Service) UploadFile(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, filename string, size int64, contentType string, reader io.Reader) (*entity.Entry, error) {
	filename, err := validateName(filename)
	if err != nil {
		return nil, err
	}

	if _, err := s.resolveParent(ownerID, parentID); err != nil {
		return nil, err
	}

	key := buildObjectKey(ownerID, parentID, filename)

	etag, err := s.blobs.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("blob upload failed: %w", err)
	}

	fileURL := s.cfg.Storage.CDNBaseURL + "/" + key
	thumbnailURL := ""
	if isImageContentType(contentType) {
		thumbnailURL = fileURL
	}

	entry, err := s.RegisterFile(ctx, ownerID, FileRegistration{
		Name:         filename,
		ParentID:     parentID,
		Size:         size,
		ContentType:  contentType,
		ObjectKey:    key,
		FileURL:      fileURL,
		ThumbnailURL: thumbnailURL,
		Metadata: map[string]interface{}{
			"etag":          etag,
			"original_name": filename,
		},
	})
	if err != nil {
		// Registration lost (duplicate name, invalid parent, race): the
		// stored object is now an orphan, reclaim it.
		s.removeBlobByKey(ctx, key, ownerID, uuid.Nil)
		return nil, err
	}

	return entry, nil
}

// DownloadURL presigns the backing object of a file entry.
func (s *Service) DownloadURL(ctx context.Context, entryID, ownerID uuid.UUID) (string, error) {
	entry, err := s.repo.EntryRepo.FindByID(entryID, ownerID)
	if err != nil {
		return "", err
	}
	if entry.IsFolder || entry.ObjectKey == "" {
		return "", fmt.Errorf("%w: entry has no downloadable content", ErrInvalidInput)
	}

	presigned, err := s.blobs.PresignedGet(ctx, entry.ObjectKey, downloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("blob presign failed: %w", err)
	}
	return presigned.String(), nil
}

// removeBlob is the best-effort deletion path: failures are logged and
// queued for the cleanup worker, never surfaced to the caller.
func (s *Service) removeBlob(ctx context.Context, entry *entity.Entry) {
	if entry.IsFolder || entry.ObjectKey == "" {
		return
	}
	s.removeBlobByKey(ctx, entry.ObjectKey, entry.OwnerID, entry.ID)
}

func (s *Service) removeBlobByKey(ctx context.Context, key string, ownerID, entryID uuid.UUID) {
	if err := s.blobs.Remove(ctx, key); err == nil {
		return
	} else {
		s.log.WarnContext(ctx, "blob deletion failed, enqueueing cleanup",
			"object_key", key, "owner_id", ownerID, "error", err)
	}

	if err := s.queue.PublishBlobCleanup(ctx, produce.BlobCleanupMessage{
		ObjectKey: key,
		OwnerID:   ownerID.String(),
		EntryID:   entryID.String(),
	}); err != nil {
		s.log.ErrorContext(ctx, "failed to enqueue blob cleanup, object orphaned",
			"object_key", key, "error", err)
	}
}

// buildObjectKey namespaces the object by tenant and directory:
// {ownerId}/{parentId-or-root}/{uniqueName}. The uuid prefix keeps
// same-named uploads from colliding at the storage layer.
func buildObjectKey(ownerID uuid.UUID, parentID *uuid.UUID, filename string) string {
	dir := "root"
	if parentID != nil {
		dir = parentID.String()
	}
	return fmt.Sprintf("%s/%s/%s%s", ownerID, dir, uuid.NewString(), path.Ext(filename))
}

func isImageContentType(contentType string) bool {
	return len(contentType) > 6 && contentType[:6] == "image/"
}
