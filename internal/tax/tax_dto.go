package tax

type CalculateRequest struct {
	Months []string `json:"months" binding:"required,min=1"`
}

type CalculateResponse struct {
	Income             float64 `json:"income"`
	Expenses           float64 `json:"expenses"`
	NetProfit          float64 `json:"net_profit"`
	Rate               float64 `json:"rate"`
	IncomeTax          float64 `json:"income_tax"`
	SocialContribution float64 `json:"social_contribution"`
	Total              float64 `json:"total"`
	PeriodLabel        string  `json:"period_label"`
}

type PayRequest struct {
	Amount float64  `json:"amount" binding:"required,gt=0"`
	Label  string   `json:"label" binding:"required"`
	Months []string `json:"months" binding:"required,min=1"`
}

type PayResponse struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
}
