package entity

import (
	"gorm.io/gorm"
)

// activeSiblingNameIndex enforces per-directory name uniqueness among
// active entries at write time. The COALESCE folds the nullable root
// parent into a single bucket; trashed entries are excluded so they may
// collide freely. Pre-checks in the service layer are a fast path only,
// this index is the correctness guard under concurrent creates.
const activeSiblingNameIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_active_sibling_name
ON entries (owner_id, COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'), name)
WHERE is_trashed = false`

// Migrate creates the entries table and its indexes. Shared by the
// Postgres client and the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return err
	}
	return db.Exec(activeSiblingNameIndex).Error
}
