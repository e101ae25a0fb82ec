package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skydrive-cloud/sky-drive-service/entity"
	"github.com/skydrive-cloud/sky-drive-service/repository"
)

// ToggleStar flips the star flag. Allowed in any non-deleted state.
func (s *Service) ToggleStar(ctx context.Context, entryID, ownerID uuid.UUID) (*entity.Entry, error) {
	entry, err := s.repo.EntryRepo.FindByID(entryID, ownerID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.EntryRepo.UpdateFields(entryID, ownerID, map[string]interface{}{
		"is_starred": !entry.IsStarred,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return updated, nil
}

// Trash moves an active entry to the trash. The flag is set only on the
// entry itself; its subtree stays reachable solely through this trashed
// root, which keeps it out of every active listing.
func (s *Service) Trash(ctx context.Context, entryID, ownerID uuid.UUID) (*entity.Entry, error) {
	entry, err := s.repo.EntryRepo.FindByID(entryID, ownerID)
	if err != nil {
		return nil, err
	}
	if entry.IsTrashed {
		return nil, ErrInvalidState
	}

	updated, err := s.repo.EntryRepo.UpdateFields(entryID, ownerID, map[string]interface{}{
		"is_trashed": true,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	s.log.InfoContext(ctx, "entry trashed", "owner_id", ownerID, "entry_id", entryID)
	return updated, nil
}

// Restore returns a trashed entry to its original directory. Rejected
// while an ancestor is still trashed (the subtree is only reachable
// through that ancestor) and when an active sibling has meanwhile taken
// the name.
func (s *Service) Restore(ctx context.Context, entryID, ownerID uuid.UUID) (*entity.Entry, error) {
	entry, err := s.repo.EntryRepo.FindByID(entryID, ownerID)
	if err != nil {
		return nil, err
	}
	if !entry.IsTrashed {
		return nil, ErrInvalidState
	}

	trashedAncestor, err := s.hasTrashedAncestor(ownerID, entry)
	if err != nil {
		return nil, err
	}
	if trashedAncestor {
		return nil, ErrInvalidState
	}

	if err := s.checkActiveSibling(ownerID, entry.ParentID, entry.Name); err != nil {
		return nil, err
	}

	updated, err := s.repo.EntryRepo.UpdateFields(entryID, ownerID, map[string]interface{}{
		"is_trashed": false,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	s.log.InfoContext(ctx, "entry restored", "owner_id", ownerID, "entry_id", entryID)
	return updated, nil
}

// DeletePermanently removes a trashed entry and, for folders, its whole
// subtree. Blob deletion is best-effort: a failure is logged and handed
// to the cleanup queue, never blocking the metadata removal.
func (s *Service) DeletePermanently(ctx context.Context, entryID, ownerID uuid.UUID) error {
	entry, err := s.repo.EntryRepo.FindByID(entryID, ownerID)
	if err != nil {
		return err
	}
	if !entry.IsTrashed {
		return ErrInvalidState
	}

	subtree, err := s.collectSubtree(ownerID, entry)
	if err != nil {
		return err
	}

	_, err = s.deleteEntries(ctx, ownerID, subtree)
	if err != nil {
		return err
	}

	s.invalidateStats(ctx, ownerID)
	s.log.InfoContext(ctx, "entry permanently deleted",
		"owner_id", ownerID, "entry_id", entryID, "subtree_size", len(subtree))
	return nil
}

// EmptyTrash permanently deletes every trashed entry for the owner,
// cascading into their subtrees, and reports how many entries went away.
// Re-running it simply targets whatever trash remains, so a partially
// completed call is safe to retry.
func (s *Service) EmptyTrash(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	trashed, err := s.repo.EntryRepo.ListTrashed(ownerID)
	if err != nil {
		return 0, err
	}
	if len(trashed) == 0 {
		return 0, nil
	}

	// Union of every trashed root's subtree; a trashed child inside a
	// trashed folder must not be collected twice.
	seen := make(map[uuid.UUID]bool)
	var union []entity.Entry
	for i := range trashed {
		subtree, err := s.collectSubtree(ownerID, &trashed[i])
		if err != nil {
			return 0, err
		}
		for _, e := range subtree {
			if !seen[e.ID] {
				seen[e.ID] = true
				union = append(union, e)
			}
		}
	}

	deleted, err := s.deleteEntries(ctx, ownerID, union)
	if err != nil {
		return 0, err
	}

	s.invalidateStats(ctx, ownerID)
	s.log.InfoContext(ctx, "trash emptied", "owner_id", ownerID, "deleted_count", deleted)
	return deleted, nil
}

// collectSubtree returns the entry and all its descendants via breadth
// first walk over the parent index, with a visited guard.
func (s *Service) collectSubtree(ownerID uuid.UUID, root *entity.Entry) ([]entity.Entry, error) {
	visited := map[uuid.UUID]bool{root.ID: true}
	result := []entity.Entry{*root}

	queue := []entity.Entry{*root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if !current.IsFolder {
			continue
		}

		children, err := s.repo.EntryRepo.ListChildren(ownerID, current.ID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}

	return result, nil
}

// deleteEntries removes the backing blobs best-effort, then drops the
// metadata rows in one transaction.
func (s *Service) deleteEntries(ctx context.Context, ownerID uuid.UUID, entries []entity.Entry) (int64, error) {
	for i := range entries {
		s.removeBlob(ctx, &entries[i])
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	var deleted int64
	err := s.repo.Transaction(func(txRepo *repository.Repository) error {
		n, err := txRepo.EntryRepo.DeleteByIDs(ids, ownerID)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
