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

func TestCreateFolderValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := env.svc.CreateFolder(ctx, owner, "   ", nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = env.svc.CreateFolder(ctx, owner, strings.Repeat("x", 256), nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// Names are trimmed before any other check.
	folder, err := env.svc.CreateFolder(ctx, owner, "  Reports  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Reports", folder.Name)
	assert.True(t, folder.IsFolder)
	assert.Nil(t, folder.ParentID)
}

func TestCreateFolderDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	env.mustCreateFolder(t, owner, "Documents", nil)

	_, err := env.svc.CreateFolder(ctx, owner, "Documents", nil)
	assert.ErrorIs(t, err, repository.ErrDuplicateName)

	// The original folder is untouched.
	entries, err := env.svc.ListEntries(ctx, owner, repository.ListFilter{Root: true})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Documents", entries[0].Name)
}

func TestCreateFolderParentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	missing := uuid.New()
	_, err := env.svc.CreateFolder(ctx, owner, "child", &missing)
	assert.ErrorIs(t, err, service.ErrParentNotFound)

	// A file cannot be a parent.
	file := env.mustUpload(t, owner, nil, "notes.txt", 4, "text/plain", "data")
	_, err = env.svc.CreateFolder(ctx, owner, "child", &file.ID)
	assert.ErrorIs(t, err, service.ErrParentNotFound)

	// Nor can a trashed folder.
	trashedParent := env.mustCreateFolder(t, owner, "OldStuff", nil)
	_, err = env.svc.Trash(ctx, trashedParent.ID, owner)
	require.NoError(t, err)
	_, err = env.svc.CreateFolder(ctx, owner, "child", &trashedParent.ID)
	assert.ErrorIs(t, err, service.ErrParentNotFound)

	// Nor another owner's folder.
	foreign := env.mustCreateFolder(t, uuid.New(), "Theirs", nil)
	_, err = env.svc.CreateFolder(ctx, owner, "child", &foreign.ID)
	assert.ErrorIs(t, err, service.ErrParentNotFound)
}

func TestNestedFolders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	root := env.mustCreateFolder(t, owner, "Projects", nil)
	child := env.mustCreateFolder(t, owner, "2026", &root.ID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	// Same name is allowed in a different directory.
	sibling := env.mustCreateFolder(t, owner, "Archive", nil)
	env.mustCreateFolder(t, owner, "2026", &sibling.ID)

	inside, err := env.svc.ListEntries(ctx, owner, repository.ListFilter{ParentID: &root.ID})
	require.NoError(t, err)
	require.Len(t, inside, 1)
	assert.Equal(t, "2026", inside[0].Name)
}

func TestFileAndFolderShareNamespace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	env.mustCreateFolder(t, owner, "report", nil)

	// A file may not take an active folder's name in the same directory.
	_, err := env.svc.UploadFile(ctx, owner, nil, "report", 4, "text/plain", strings.NewReader("data"))
	assert.ErrorIs(t, err, repository.ErrDuplicateName)
}
