package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/shopforge/shopforge/app/repository"
	"github.com/shopforge/shopforge/internal/pkg/mail"
	"github.com/shopforge/shopforge/internal/pkg/sms"
)

// processOrderConfirmationEmailJob sends the confirmation mail for a
// completed order.
func (q *Queue) processOrderConfirmationEmailJob(ctx context.Context, job *Job) error {
	payload, err := OrderConfirmationEmailJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	if payload.CustomerEmail == "" {
		log.Warnf("[JobQueue] Order %d has no customer email, skipping confirmation mail", payload.OrderID)
		return nil
	}

	subject := fmt.Sprintf("Order #%d confirmed", payload.OrderID)
	body := mail.OrderConfirmationBody(payload.OrderID, payload.TotalAmount, payload.Currency)

	if err := mail.SendMail(payload.CustomerEmail, subject, body); err != nil {
		return fmt.Errorf("failed to send confirmation mail for order %d: %w", payload.OrderID, err)
	}

	return nil
}

// processOrderAlertSMSJob notifies the configured operator phone about a new
// completed order.
func (q *Queue) processOrderAlertSMSJob(ctx context.Context, job *Job) error {
	payload, err := OrderAlertSMSJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	if payload.Phone == "" {
		log.Warnf("[JobQueue] No alert phone configured, skipping SMS for order %d", payload.OrderID)
		return nil
	}

	client := sms.NewTextbeltClientFromEnv()
	message := fmt.Sprintf("New order #%d: %d.%02d %s",
		payload.OrderID, payload.TotalAmount/100, payload.TotalAmount%100, payload.Currency)

	if err := client.SendSMS(ctx, payload.Phone, message); err != nil {
		return fmt.Errorf("failed to send alert SMS for order %d: %w", payload.OrderID, err)
	}

	return nil
}

// processInventoryDecrementJob subtracts the ordered quantities from the
// product catalog. An insufficient stock level is logged but does not fail
// the job, the order itself is already paid.
func (q *Queue) processInventoryDecrementJob(job *Job) error {
	payload, err := InventoryDecrementJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	repos := repository.GetGlobalRepositories()
	for _, line := range payload.Lines {
		if line.Quantity <= 0 {
			continue
		}
		if err := repos.Product.DecrementInventory(line.ProductID, line.Quantity); err != nil {
			log.Warnf("[JobQueue] Could not decrement inventory for product %d (order %d): %v",
				line.ProductID, payload.OrderID, err)
		}
	}

	return nil
}
