package events

import "time"

const SalaryPaidTopic = "finance.salary.paid.v1"

type SalaryPaidEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	PaymentID   string    `json:"payment_id"`
	UserID      string    `json:"user_id"`
	CompanyID   string    `json:"company_id"`
	Amount      float64   `json:"amount"`
	PaymentType string    `json:"payment_type"` // SALARY or BONUS
	OccurredAt  time.Time `json:"occurred_at"`
}
