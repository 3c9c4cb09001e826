package repository

import (
	"github.com/shopforge/shopforge/app/models"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a catalog repository backed by GORM.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProductByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementInventory subtracts sold quantity without going below zero. The
// decrement is best effort and not transactional with order creation.
func (r *productRepository) DecrementInventory(id uint, quantity int) error {
	return r.db.Model(&models.Product{}).
		Where("id = ? AND inventory >= ?", id, quantity).
		UpdateColumn("inventory", gorm.Expr("inventory - ?", quantity)).Error
}
