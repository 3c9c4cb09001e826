package repository

import (
	"github.com/shopforge/shopforge/app/models"
)

// ProductRepository defines read and inventory operations on the catalog.
// Catalog CRUD is owned by another service; this one only looks products up
// and adjusts stock counters after orders.
type ProductRepository interface {
	GetProductByID(id uint) (*models.Product, error)
	DecrementInventory(id uint, quantity int) error
}

// OrderRepository defines the read operations backing the order API.
type OrderRepository interface {
	GetByID(id uint) (*models.Order, error)
	List(status, customerEmail string, limit int) ([]models.Order, error)
}

// Repositories holds all repository instances.
type Repositories struct {
	Product ProductRepository
	Order   OrderRepository
}
