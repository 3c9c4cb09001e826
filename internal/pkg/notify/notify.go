// Package notify dispatches post-commit side effects for completed orders.
// Everything here is fire-and-forget: a lost notification is acceptable, a
// duplicated or blocked webhook response is not.
package notify

import (
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/shopforge/shopforge/internal/pkg/env"
	"github.com/shopforge/shopforge/internal/pkg/jobqueue"
	"github.com/shopforge/shopforge/internal/pkg/payments"
)

// OrderCompleted enqueues the follow-up jobs for a freshly completed order:
// customer confirmation mail, operator alert SMS and inventory decrement.
// Called after the storage transaction committed, never inside it.
func OrderCompleted(order *payments.OrderRef) {
	if order == nil {
		return
	}

	queue := jobqueue.GetManager().GetQueue()

	if strings.TrimSpace(order.CustomerEmail) != "" {
		payload := jobqueue.OrderConfirmationEmailJobPayload{
			OrderID:       order.ID,
			CustomerEmail: order.CustomerEmail,
			TotalAmount:   order.TotalAmount,
			Currency:      order.Currency,
		}
		if _, err := queue.EnqueueJob(jobqueue.JobTypeOrderConfirmationEmail, payload.ToMap()); err != nil {
			log.Errorf("[Notify] Could not enqueue confirmation mail for order %d: %v", order.ID, err)
		}
	}

	if phone := strings.TrimSpace(env.GetEnv("ADMIN_ALERT_PHONE", "")); phone != "" {
		payload := jobqueue.OrderAlertSMSJobPayload{
			OrderID:     order.ID,
			Phone:       phone,
			TotalAmount: order.TotalAmount,
			Currency:    order.Currency,
		}
		if _, err := queue.EnqueueJob(jobqueue.JobTypeOrderAlertSMS, payload.ToMap()); err != nil {
			log.Errorf("[Notify] Could not enqueue alert SMS for order %d: %v", order.ID, err)
		}
	}

	if len(order.Items) > 0 {
		lines := make([]jobqueue.InventoryLine, 0, len(order.Items))
		for _, item := range order.Items {
			if item.ProductID == 0 || item.Quantity <= 0 {
				continue
			}
			lines = append(lines, jobqueue.InventoryLine{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if len(lines) > 0 {
			payload := jobqueue.InventoryDecrementJobPayload{
				OrderID: order.ID,
				Lines:   lines,
			}
			if _, err := queue.EnqueueJob(jobqueue.JobTypeInventoryDecrement, payload.ToMap()); err != nil {
				log.Errorf("[Notify] Could not enqueue inventory decrement for order %d: %v", order.ID, err)
			}
		}
	}
}
