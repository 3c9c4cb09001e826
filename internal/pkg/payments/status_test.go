package payments

import (
	"testing"

	"github.com/shopforge/shopforge/app/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{models.OrderStatusPending, models.OrderStatusCompleted, true},
		{models.OrderStatusPending, models.OrderStatusFailed, true},
		{models.OrderStatusCompleted, models.OrderStatusRefunded, true},
		{models.OrderStatusPending, models.OrderStatusRefunded, false},
		{models.OrderStatusCompleted, models.OrderStatusFailed, false},
		{models.OrderStatusCompleted, models.OrderStatusCompleted, false},
		{models.OrderStatusFailed, models.OrderStatusCompleted, false},
		{models.OrderStatusRefunded, models.OrderStatusCompleted, false},
		{"unknown", models.OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
