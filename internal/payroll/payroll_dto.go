package payroll

import "time"

type PayBonusRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

type SalaryPaymentResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	PaymentType   string    `json:"payment_type"`
	PaidAt        time.Time `json:"paid_at"`
}

type RecurringRunResponse struct {
	SalariesPaid    int     `json:"salaries_paid"`
	RentCharged     bool    `json:"rent_charged"`
	UtilitiesCharged bool   `json:"utilities_charged"`
	TotalCharged    float64 `json:"total_charged"`
}
