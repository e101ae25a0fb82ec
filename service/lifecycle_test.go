package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydrive-cloud/sky-drive-service/repository"
	"github.com/skydrive-cloud/sky-drive-service/service"
)

func TestToggleStar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	file := env.mustUpload(t, owner, nil, "fav.png", 10, "image/png", "0123456789")

	starred, err := env.svc.ToggleStar(ctx, file.ID, owner)
	require.NoError(t, err)
	assert.True(t, starred.IsStarred)

	unstarred, err := env.svc.ToggleStar(ctx, file.ID, owner)
	require.NoError(t, err)
	assert.False(t, unstarred.IsStarred)

	_, err = env.svc.ToggleStar(ctx, uuid.New(), owner)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTrashHidesSubtreeAndRestoreBringsItBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	folder := env.mustCreateFolder(t, owner, "Projects", nil)
	inside := env.mustUpload(t, owner, &folder.ID, "plan.txt", 4, "text/plain", "data")

	trashed, err := env.svc.Trash(ctx, folder.ID, owner)
	require.NoError(t, err)
	assert.True(t, trashed.IsTrashed)

	// The folder is gone from the root listing; the child keeps its own
	// flags and is only reachable through the trashed folder.
	root, err := env.svc.ListEntries(ctx, owner, repository.ListFilter{Root: true})
	require.NoError(t, err)
	assert.Empty(t, root)

	child, err := env.svc.GetEntry(ctx, inside.ID, owner)
	require.NoError(t, err)
	assert.False(t, child.IsTrashed)

	// Double-trash is a state error.
	_, err = env.svc.Trash(ctx, folder.ID, owner)
	assert.ErrorIs(t, err, service.ErrInvalidState)

	restored, err := env.svc.Restore(ctx, folder.ID, owner)
	require.NoError(t, err)
	assert.False(t, restored.IsTrashed)

	root, err = env.svc.ListEntries(ctx, owner, repository.ListFilter{Root: true})
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, folder.ID, root[0].ID)
}

func TestTrashRestoreRoundTripPreservesEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	original := env.mustUpload(t, owner, nil, "keep.pdf", 123, "application/pdf", "x")
	_, err := env.svc.ToggleStar(ctx, original.ID, owner)
	require.NoError(t, err)

	_, err = env.svc.Trash(ctx, original.ID, owner)
	require.NoError(t, err)
	restored, err := env.svc.Restore(ctx, original.ID, owner)
	require.NoError(t, err)

	// Everything but the timestamps survives the round trip.
	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, original.Name, restored.Name)
	assert.Equal(t, original.ParentID, restored.ParentID)
	assert.Equal(t, original.Size, restored.Size)
	assert.Equal(t, original.ContentType, restored.ContentType)
	assert.Equal(t, original.ObjectKey, restored.ObjectKey)
	assert.Equal(t, original.FileURL, restored.FileURL)
	assert.True(t, restored.IsStarred)
	assert.False(t, restored.IsTrashed)
}

func TestRestoreRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	// Restoring an entry that is not in the trash.
	active := env.mustCreateFolder(t, owner, "Active", nil)
	_, err := env.svc.Restore(ctx, active.ID, owner)
	assert.ErrorIs(t, err, service.ErrInvalidState)

	// Restoring while an ancestor is still trashed.
	parent := env.mustCreateFolder(t, owner, "Parent", nil)
	child := env.mustCreateFolder(t, owner, "Child", &parent.ID)
	_, err = env.svc.Trash(ctx, child.ID, owner)
	require.NoError(t, err)
	_, err = env.svc.Trash(ctx, parent.ID, owner)
	require.NoError(t, err)

	_, err = env.svc.Restore(ctx, child.ID, owner)
	assert.ErrorIs(t, err, service.ErrInvalidState)

	// Once the parent is back, the child restores fine.
	_, err = env.svc.Restore(ctx, parent.ID, owner)
	require.NoError(t, err)
	_, err = env.svc.Restore(ctx, child.ID, owner)
	assert.NoError(t, err)
}

func TestRestoreBlockedByNameSquatter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	first := env.mustUpload(t, owner, nil, "report.txt", 4, "text/plain", "data")
	_, err := env.svc.Trash(ctx, first.ID, owner)
	require.NoError(t, err)

	// The freed name is taken while the original sits in the trash.
	env.mustUpload(t, owner, nil, "report.txt", 4, "text/plain", "data")

	_, err = env.svc.Restore(ctx, first.ID, owner)
	assert.ErrorIs(t, err, repository.ErrDuplicateName)
}

func TestDeletePermanentlyRequiresTrash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	file := env.mustUpload(t, owner, nil, "doc.txt", 4, "text/plain", "data")

	err := env.svc.DeletePermanently(ctx, file.ID, owner)
	assert.ErrorIs(t, err, service.ErrInvalidState)

	_, err = env.svc.Trash(ctx, file.ID, owner)
	require.NoError(t, err)
	require.NoError(t, env.svc.DeletePermanently(ctx, file.ID, owner))

	_, err = env.svc.GetEntry(ctx, file.ID, owner)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, []string{file.ObjectKey}, env.blobs.removedKeys())
}

func TestDeletePermanentlyCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	folder := env.mustCreateFolder(t, owner, "Old", nil)
	sub := env.mustCreateFolder(t, owner, "Nested", &folder.ID)
	fileA := env.mustUpload(t, owner, &folder.ID, "a.txt", 1, "text/plain", "a")
	fileB := env.mustUpload(t, owner, &sub.ID, "b.txt", 1, "text/plain", "b")

	_, err := env.svc.Trash(ctx, folder.ID, owner)
	require.NoError(t, err)
	require.NoError(t, env.svc.DeletePermanently(ctx, folder.ID, owner))

	for _, id := range []uuid.UUID{folder.ID, sub.ID, fileA.ID, fileB.ID} {
		_, err := env.svc.GetEntry(ctx, id, owner)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}

	removed := env.blobs.removedKeys()
	assert.ElementsMatch(t, []string{fileA.ObjectKey, fileB.ObjectKey}, removed)
}

func TestEmptyTrash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	fileA := env.mustUpload(t, owner, nil, "a.txt", 1, "text/plain", "a")
	fileB := env.mustUpload(t, owner, nil, "b.txt", 1, "text/plain", "b")
	keeper := env.mustUpload(t, owner, nil, "keep.txt", 1, "text/plain", "k")

	for _, id := range []uuid.UUID{fileA.ID, fileB.ID} {
		_, err := env.svc.Trash(ctx, id, owner)
		require.NoError(t, err)
	}

	deleted, err := env.svc.EmptyTrash(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.ElementsMatch(t, []string{fileA.ObjectKey, fileB.ObjectKey}, env.blobs.removedKeys())

	// Untouched entries stay.
	_, err = env.svc.GetEntry(ctx, keeper.ID, owner)
	assert.NoError(t, err)

	// Emptying an already empty trash is a no-op.
	deleted, err = env.svc.EmptyTrash(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestEmptyTrashCountsNestedTrashOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	folder := env.mustCreateFolder(t, owner, "Stale", nil)
	inner := env.mustUpload(t, owner, &folder.ID, "inner.txt", 1, "text/plain", "x")

	// The file is trashed on its own, then its folder is trashed too, so
	// the file sits both in the trash listing and inside a trashed subtree.
	_, err := env.svc.Trash(ctx, inner.ID, owner)
	require.NoError(t, err)
	_, err = env.svc.Trash(ctx, folder.ID, owner)
	require.NoError(t, err)

	deleted, err := env.svc.EmptyTrash(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestEmptyTrashSurvivesBlobFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	file := env.mustUpload(t, owner, nil, "stuck.txt", 1, "text/plain", "x")
	_, err := env.svc.Trash(ctx, file.ID, owner)
	require.NoError(t, err)

	env.blobs.failRemove = true

	// Metadata removal must not block on the object store; the orphaned
	// object is handed to the cleanup queue instead.
	deleted, err := env.svc.EmptyTrash(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = env.svc.GetEntry(ctx, file.ID, owner)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.Len(t, env.queue.msgs, 1)
	assert.Equal(t, file.ObjectKey, env.queue.msgs[0].ObjectKey)
	assert.Equal(t, owner.String(), env.queue.msgs[0].OwnerID)
}
