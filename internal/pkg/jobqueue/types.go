package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeOrderConfirmationEmail JobType = "order_confirmation_email"
	JobTypeOrderAlertSMS          JobType = "order_alert_sms"
	JobTypeInventoryDecrement     JobType = "inventory_decrement"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// OrderConfirmationEmailJobPayload contains the payload for order
// confirmation email jobs.
type OrderConfirmationEmailJobPayload struct {
	OrderID       uint   `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
	TotalAmount   int64  `json:"total_amount"`
	Currency      string `json:"currency"`
}

// ToMap converts the payload to a map for storage
func (p OrderConfirmationEmailJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"order_id":       p.OrderID,
		"customer_email": p.CustomerEmail,
		"total_amount":   p.TotalAmount,
		"currency":       p.Currency,
	}
}

// FromMap creates a payload from a map
func OrderConfirmationEmailJobPayloadFromMap(data map[string]interface{}) (*OrderConfirmationEmailJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload OrderConfirmationEmailJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// OrderAlertSMSJobPayload contains the payload for operator SMS alert jobs.
type OrderAlertSMSJobPayload struct {
	OrderID     uint   `json:"order_id"`
	Phone       string `json:"phone"`
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
}

// ToMap converts the payload to a map for storage
func (p OrderAlertSMSJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"order_id":     p.OrderID,
		"phone":        p.Phone,
		"total_amount": p.TotalAmount,
		"currency":     p.Currency,
	}
}

// FromMap creates a payload from a map
func OrderAlertSMSJobPayloadFromMap(data map[string]interface{}) (*OrderAlertSMSJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload OrderAlertSMSJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// InventoryLine is one ordered quantity to subtract from the catalog.
type InventoryLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// InventoryDecrementJobPayload contains the payload for inventory jobs.
type InventoryDecrementJobPayload struct {
	OrderID uint            `json:"order_id"`
	Lines   []InventoryLine `json:"lines"`
}

// ToMap converts the payload to a map for storage
func (p InventoryDecrementJobPayload) ToMap() map[string]interface{} {
	lines := make([]interface{}, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, map[string]interface{}{
			"product_id": l.ProductID,
			"quantity":   l.Quantity,
		})
	}
	return map[string]interface{}{
		"order_id": p.OrderID,
		"lines":    lines,
	}
}

// FromMap creates a payload from a map
func InventoryDecrementJobPayloadFromMap(data map[string]interface{}) (*InventoryDecrementJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload InventoryDecrementJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
