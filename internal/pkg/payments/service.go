package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopforge/shopforge/app/models"
	"gorm.io/gorm"
)

// ProductLookup resolves catalog products when enriching order items.
// Implemented by app/repository; kept as an interface here so the service
// has no dependency on the catalog layer.
type ProductLookup interface {
	GetProductByID(id uint) (*models.Product, error)
}

// Service sequences claim, materialization and outcome recording for one
// webhook delivery. It holds no mutable state; all coordination between
// concurrent deliveries happens through the repository's uniqueness
// constraints.
type Service struct {
	repo     Repository
	catalog  ProductLookup
	validate *validator.Validate
}

// NewService creates a payments service from an injected repository. catalog
// may be nil, in which case line items are never enriched.
func NewService(repo Repository, catalog ProductLookup) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		validate: validator.New(),
	}
}

// NewServiceFromDB creates a payments service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, catalog ProductLookup) *Service {
	return NewService(NewRepository(db), catalog)
}

// ProcessEvent runs one verified, normalized delivery to a terminal state.
// Claim, materialization and mark-processed share a single transaction: a
// crash mid-way rolls back both the claim and the order so a redelivery can
// reprocess cleanly. On a handled materialization error the transaction is
// rolled back and the failure is recorded in a fresh claim so the audit row
// survives; the caller responds 5xx and the provider redelivers.
func (s *Service) ProcessEvent(ctx context.Context, envlp *Envelope) (*Outcome, error) {
	outcome := &Outcome{}

	err := s.repo.Transaction(func(tx Repository) error {
		claimed, stored, err := tx.ClaimEvent(&models.WebhookEvent{
			Provider:  envlp.Provider,
			EventType: envlp.EventType,
			EventID:   envlp.EventID,
			Payload:   string(envlp.Raw),
		})
		if err != nil {
			return err
		}
		if !claimed {
			outcome.Duplicate = true
			return nil
		}

		switch envlp.Event.Kind {
		case KindPaymentSucceeded:
			if err := s.materialize(tx, envlp, stored.ID, outcome); err != nil {
				return err
			}
		case KindPaymentFailed:
			if err := s.transition(tx, envlp, models.OrderStatusFailed); err != nil {
				return err
			}
		case KindPaymentRefunded:
			if err := s.transition(tx, envlp, models.OrderStatusRefunded); err != nil {
				return err
			}
		}

		return tx.MarkEventProcessed(stored.ID)
	})
	if err != nil {
		s.recordFailure(envlp, err)
		return nil, err
	}
	return outcome, nil
}

// materialize turns a payment-succeeded event into an order, idempotent on
// (payment_provider, payment_id). A second qualifying event for the same
// payment never creates a second order; it may only complete a pending one.
func (s *Service) materialize(tx Repository, envlp *Envelope, webhookEventID uint, outcome *Outcome) error {
	ev := envlp.Event
	if err := s.validate.Struct(ev); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	created, stored, err := tx.CreateOrderIfAbsent(&models.Order{
		PaymentProvider: envlp.Provider,
		PaymentID:       ev.PaymentID,
		PaymentIntentID: ev.PaymentIntentID,
		CustomerEmail:   ev.CustomerEmail,
		CustomerName:    ev.CustomerName,
		TotalAmount:     ev.AmountMinor,
		Currency:        ev.Currency,
		Status:          models.OrderStatusCompleted,
		WebhookEventID:  &webhookEventID,
	})
	if err != nil {
		return err
	}

	if created {
		if err := s.createOrderItems(tx, stored.ID, ev.Items); err != nil {
			return err
		}
	} else if CanTransition(stored.Status, models.OrderStatusCompleted) {
		if err := tx.UpdateOrderStatus(stored.ID, models.OrderStatusCompleted); err != nil {
			return err
		}
	}

	outcome.OrderCreated = created
	outcome.OrderID = stored.ID
	outcome.Order = &OrderRef{
		ID:            stored.ID,
		CustomerEmail: stored.CustomerEmail,
		TotalAmount:   stored.TotalAmount,
		Currency:      stored.Currency,
		Items:         ev.Items,
	}
	return nil
}

// createOrderItems denormalizes catalog data into order items. Lines whose
// product no longer exists are skipped; order history stays valid with the
// lines that could be resolved.
func (s *Service) createOrderItems(tx Repository, orderID uint, lines []LineItem) error {
	if len(lines) == 0 || s.catalog == nil {
		return nil
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: line item quantity %d", ErrInvariantViolation, line.Quantity)
		}
		product, err := s.catalog.GetProductByID(line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warnf("[Payments] Skipping line item for missing product %d on order %d", line.ProductID, orderID)
				continue
			}
			return err
		}

		unitPrice := line.UnitPrice
		if unitPrice == 0 {
			unitPrice = product.Price
		}
		productID := product.ID
		items = append(items, models.OrderItem{
			OrderID:            orderID,
			ProductID:          &productID,
			ProductName:        product.Name,
			ProductDescription: product.Description,
			Quantity:           line.Quantity,
			UnitPrice:          unitPrice,
			TotalPrice:         unitPrice * int64(line.Quantity),
		})
	}
	return tx.CreateOrderItems(items)
}

// transition applies a later event (failure, refund) to an existing order.
// Events for unknown payments and illegal transitions are benign no-ops.
func (s *Service) transition(tx Repository, envlp *Envelope, target string) error {
	if envlp.Event.PaymentID == "" {
		return fmt.Errorf("%w: missing payment id", ErrInvariantViolation)
	}
	order, err := tx.FindOrderByPayment(envlp.Provider, envlp.Event.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if !CanTransition(order.Status, target) {
		return nil
	}
	return tx.UpdateOrderStatus(order.ID, target)
}

// recordFailure re-claims the event outside the rolled-back transaction so
// the delivery stays on the audit trail with its error text. Best effort: a
// concurrent delivery may own the event by now, in which case its outcome
// stands.
func (s *Service) recordFailure(envlp *Envelope, procErr error) {
	claimed, stored, err := s.repo.ClaimEvent(&models.WebhookEvent{
		Provider:  envlp.Provider,
		EventType: envlp.EventType,
		EventID:   envlp.EventID,
		Payload:   string(envlp.Raw),
	})
	if err != nil {
		log.Errorf("[Payments] Could not record failure for event %s: %v", envlp.EventID, err)
		return
	}
	if !claimed && stored.Processed {
		return
	}
	if err := s.repo.MarkEventFailed(stored.ID, procErr.Error()); err != nil {
		log.Errorf("[Payments] Could not mark event %s failed: %v", envlp.EventID, err)
	}
}

// StaleUnprocessedEvents lists claimed-but-unprocessed events older than the
// given age, for the operational sweep. Providers stop redelivering after a
// while, so these rows need an operator.
func (s *Service) StaleUnprocessedEvents(ctx context.Context, olderThan time.Duration, limit int) ([]models.WebhookEvent, error) {
	return s.repo.StaleUnprocessedEvents(olderThan, limit)
}
