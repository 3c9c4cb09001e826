package payments

import (
	"time"

	"github.com/shopforge/shopforge/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the payments service. All
// idempotency decisions are made by storage-level uniqueness constraints,
// never by check-then-insert in application code.
type Repository interface {
	// Transaction runs fn against a repository bound to one DB transaction.
	Transaction(fn func(Repository) error) error

	// ClaimEvent inserts the event row, with the unique event_id index as the
	// arbiter. claimed=false means another delivery already owns the event;
	// the stored row is returned either way.
	ClaimEvent(event *models.WebhookEvent) (claimed bool, stored *models.WebhookEvent, err error)
	MarkEventProcessed(id uint) error
	MarkEventFailed(id uint, errorMessage string) error
	StaleUnprocessedEvents(olderThan time.Duration, limit int) ([]models.WebhookEvent, error)

	// CreateOrderIfAbsent inserts the order unless one already exists for its
	// (payment_provider, payment_id) key. created=false means the key was
	// taken; the stored row is returned either way.
	CreateOrderIfAbsent(order *models.Order) (created bool, stored *models.Order, err error)
	FindOrderByPayment(provider, paymentID string) (*models.Order, error)
	UpdateOrderStatus(id uint, status string) error
	CreateOrderItems(items []models.OrderItem) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) ClaimEvent(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	claimed := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("event_id = ?", event.EventID).First(&stored).Error; err != nil {
		return false, nil, err
	}
	return claimed, &stored, nil
}

func (r *gormRepository) MarkEventProcessed(id uint) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed":     true,
		"processed_at":  &now,
		"error_message": "",
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) MarkEventFailed(id uint, errorMessage string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed":     false,
		"processed_at":  &now,
		"error_message": errorMessage,
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) StaleUnprocessedEvents(olderThan time.Duration, limit int) ([]models.WebhookEvent, error) {
	var events []models.WebhookEvent
	cutoff := time.Now().Add(-olderThan)
	err := r.db.
		Where("processed = ? AND created_at < ?", false, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *gormRepository) CreateOrderIfAbsent(order *models.Order) (bool, *models.Order, error) {
	tx := r.db.Omit("Items").Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "payment_provider"},
			{Name: "payment_id"},
		},
		DoNothing: true,
	}).Create(order)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.Order
	if err := r.db.Where("payment_provider = ? AND payment_id = ?", order.PaymentProvider, order.PaymentID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) FindOrderByPayment(provider, paymentID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("payment_provider = ? AND payment_id = ?", provider, paymentID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) UpdateOrderStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *gormRepository) CreateOrderItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}
