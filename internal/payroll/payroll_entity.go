package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentTypeSalary = "SALARY"
	PaymentTypeBonus  = "BONUS"
)

type SalaryPayment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Amount        float64   `gorm:"type:numeric(14,2);not null"`
	PaymentType   string    `gorm:"type:varchar(8);not null"`
	PaidAt        time.Time `gorm:"not null"`
	CreatedAt     time.Time
}
