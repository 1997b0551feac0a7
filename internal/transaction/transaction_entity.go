package transaction

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Categories written by the system itself. Manual entries may use anything.
const (
	CategorySalary    = "Salary"
	CategoryBonus     = "Bonus"
	CategoryRent      = "Rent"
	CategoryUtilities = "Utilities"
	CategoryTaxes     = "Taxes"
)

type Transaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount      float64   `gorm:"type:numeric(14,2);not null"`
	Type        string    `gorm:"type:varchar(8);not null"`
	Category    string    `gorm:"type:varchar(64);not null"`
	Description string    `gorm:"type:varchar(512)"`
	Date        time.Time `gorm:"not null;index"`
	IsArchived  bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BalanceDelta is the signed effect the transaction had on the company
// balance when it was created.
func (t *Transaction) BalanceDelta() float64 {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return -t.Amount
}
