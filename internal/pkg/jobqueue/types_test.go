package jobqueue

import (
	"testing"
)

func TestOrderConfirmationEmailJobPayloadRoundTrip(t *testing.T) {
	payload := OrderConfirmationEmailJobPayload{
		OrderID:       42,
		CustomerEmail: "buyer@example.com",
		TotalAmount:   1099,
		Currency:      "USD",
	}

	restored, err := OrderConfirmationEmailJobPayloadFromMap(payload.ToMap())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *restored != payload {
		t.Fatalf("payload did not survive the round trip: %+v", restored)
	}
}

func TestInventoryDecrementJobPayloadRoundTrip(t *testing.T) {
	payload := InventoryDecrementJobPayload{
		OrderID: 42,
		Lines: []InventoryLine{
			{ProductID: 7, Quantity: 2},
			{ProductID: 9, Quantity: 1},
		},
	}

	restored, err := InventoryDecrementJobPayloadFromMap(payload.ToMap())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.OrderID != 42 || len(restored.Lines) != 2 {
		t.Fatalf("payload did not survive the round trip: %+v", restored)
	}
	if restored.Lines[0] != payload.Lines[0] || restored.Lines[1] != payload.Lines[1] {
		t.Fatalf("lines did not survive the round trip: %+v", restored.Lines)
	}
}

func TestJobRetryLifecycle(t *testing.T) {
	job := &Job{
		ID:         "job-1",
		Type:       JobTypeOrderAlertSMS,
		Status:     JobStatusPending,
		MaxRetries: 2,
	}

	job.MarkAsProcessing()
	if job.Status != JobStatusProcessing || job.ProcessedAt == nil {
		t.Fatalf("unexpected state after MarkAsProcessing: %+v", job)
	}

	job.MarkAsFailed("smtp timeout")
	if job.Status != JobStatusFailed || job.RetryCount != 1 {
		t.Fatalf("unexpected state after first failure: %+v", job)
	}
	if !job.IsRetryable() {
		t.Fatal("job with retries left should be retryable")
	}

	job.MarkAsRetrying()
	if job.Status != JobStatusRetrying {
		t.Fatalf("expected retrying status, got %s", job.Status)
	}

	job.MarkAsFailed("smtp timeout")
	job.MarkAsFailed("smtp timeout")
	if job.IsRetryable() {
		t.Fatalf("job past max retries must not be retryable: %+v", job)
	}

	job.MarkAsCompleted()
	if job.Status != JobStatusCompleted || job.CompletedAt == nil || job.ErrorMsg != "" {
		t.Fatalf("unexpected state after completion: %+v", job)
	}
}
