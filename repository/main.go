package repository

import (
	"gorm.io/gorm"
)

type Repository struct {
	EntryRepo *EntryRepository

	db *gorm.DB
}

var repository *Repository

func InitRepository(db *gorm.DB) *Repository {
	repository = &Repository{
		EntryRepo: NewEntryRepository(db),
		db:        db,
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{
		EntryRepo: NewEntryRepository(tx),
		db:        tx,
	}
}

// Transaction runs fn against a transactional copy of the repository,
// committing when fn returns nil and rolling back otherwise.
func (r *Repository) Transaction(fn func(txRepo *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTransaction(tx))
	})
}
