package repository

import (
	"sync"

	"gorm.io/gorm"
)

// NewRepositories creates all repository instances for a DB handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product: NewProductRepository(db),
		Order:   NewOrderRepository(db),
	}
}

// Global factory instance
var (
	globalRepos *Repositories
	factoryOnce sync.Once
)

// InitializeFactory initializes the global repositories.
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalRepos = NewRepositories(db)
	})
}

// GetGlobalRepositories returns the global repositories instance.
func GetGlobalRepositories() *Repositories {
	if globalRepos == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalRepos
}
