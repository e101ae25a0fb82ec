package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydrive-cloud/sky-drive-service/repository"
	"github.com/skydrive-cloud/sky-drive-service/service"
)

func TestUploadFile(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	file := env.mustUpload(t, owner, nil, "photo.jpg", 2048, "image/jpeg", "jpeg-bytes")

	assert.False(t, file.IsFolder)
	assert.Equal(t, int64(2048), file.Size)
	assert.Equal(t, "image/jpeg", file.ContentType)

	// Object key is namespaced by owner and directory and keeps the
	// original extension.
	assert.True(t, strings.HasPrefix(file.ObjectKey, owner.String()+"/root/"))
	assert.True(t, strings.HasSuffix(file.ObjectKey, ".jpg"))
	assert.Equal(t, env.cfg.Storage.CDNBaseURL+"/"+file.ObjectKey, file.FileURL)

	// Images get a thumbnail URL; the blob actually landed in the store.
	assert.Equal(t, file.FileURL, file.ThumbnailURL)
	assert.Contains(t, env.blobs.uploaded, file.ObjectKey)
	assert.Equal(t, "etag-"+file.ObjectKey, file.Metadata["etag"])
}

func TestUploadNonImageHasNoThumbnail(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	file := env.mustUpload(t, owner, nil, "notes.txt", 10, "text/plain", "0123456789")
	assert.Empty(t, file.ThumbnailURL)
}

func TestUploadIntoFolder(t *testing.T) {
	env := newTestEnv(t)
	owner := uuid.New()

	folder := env.mustCreateFolder(t, owner, "Photos", nil)
	file := env.mustUpload(t, owner, &folder.ID, "cat.png", 5, "image/png", "bytes")

	require.NotNil(t, file.ParentID)
	assert.Equal(t, folder.ID, *file.ParentID)
	assert.True(t, strings.HasPrefix(file.ObjectKey, owner.String()+"/"+folder.ID.String()+"/"))
}

func TestUploadDuplicateNameReclaimsBlob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	env.mustUpload(t, owner, nil, "report.txt", 4, "text/plain", "data")

	_, err := env.svc.UploadFile(ctx, owner, nil, "report.txt", 4, "text/plain", strings.NewReader("data"))
	assert.ErrorIs(t, err, repository.ErrDuplicateName)

	// The blob stored for the losing upload must not be left behind.
	require.Len(t, env.blobs.removedKeys(), 1)
	assert.Contains(t, env.blobs.uploaded, env.blobs.removedKeys()[0])
}

func TestUploadParentValidationRunsBeforeStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	missing := uuid.New()
	_, err := env.svc.UploadFile(ctx, owner, &missing, "a.txt", 1, "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrParentNotFound)

	// Nothing was written to the object store.
	assert.Empty(t, env.blobs.uploaded)
}

func TestDownloadURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	file := env.mustUpload(t, owner, nil, "doc.pdf", 9, "application/pdf", "pdf-bytes")

	link, err := env.svc.DownloadURL(ctx, file.ID, owner)
	require.NoError(t, err)
	assert.Contains(t, link, file.ObjectKey)

	// Folders have nothing to download.
	folder := env.mustCreateFolder(t, owner, "Docs", nil)
	_, err = env.svc.DownloadURL(ctx, folder.ID, owner)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// Other owners cannot presign someone else's file.
	_, err = env.svc.DownloadURL(ctx, file.ID, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
