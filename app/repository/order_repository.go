package repository

import (
	"github.com/shopforge/shopforge/app/models"
	"gorm.io/gorm"
)

const maxOrderPageSize = 100

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order read repository backed by GORM.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(status, customerEmail string, limit int) ([]models.Order, error) {
	if limit <= 0 || limit > maxOrderPageSize {
		limit = maxOrderPageSize
	}

	q := r.db.Order("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if customerEmail != "" {
		q = q.Where("customer_email = ?", customerEmail)
	}

	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, err
}
