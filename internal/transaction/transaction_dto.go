package transaction

import "time"

type CreateTransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Type        string  `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date"` // RFC3339 or YYYY-MM-DD, defaults to now
}

type ArchiveRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

type TransactionResponse struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	IsArchived  bool      `json:"is_archived"`
}
