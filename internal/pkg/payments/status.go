package payments

import "github.com/shopforge/shopforge/app/models"

// Legal order status transitions. Later webhook events may move an order
// along these edges; anything else is ignored rather than rejected, since
// providers redeliver events in arbitrary order.
var orderTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusCompleted, models.OrderStatusFailed},
	models.OrderStatusCompleted: {models.OrderStatusRefunded},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
