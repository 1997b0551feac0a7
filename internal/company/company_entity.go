package company

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleOwner    = "OWNER"
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

const (
	TaxGroupSimplified1   = "SIMPLIFIED_GROUP1"
	TaxGroupSimplified2   = "SIMPLIFIED_GROUP2"
	TaxGroupSimplified3At5 = "SIMPLIFIED_GROUP3_5"
	TaxGroupSimplified3At3 = "SIMPLIFIED_GROUP3_3"
	TaxGroupGeneral       = "GENERAL"
)

const (
	RevenueDaily   = "DAILY"
	RevenueWeekly  = "WEEKLY"
	RevenueMonthly = "MONTHLY"
)

type Company struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"type:varchar(255);not null"`
	InviteCode       string    `gorm:"type:varchar(8);uniqueIndex;not null"`
	Balance          float64   `gorm:"type:numeric(14,2);not null;default:0"`
	TaxGroup         string    `gorm:"type:varchar(32);not null;default:'GENERAL'"`
	RevenueFrequency string    `gorm:"type:varchar(16);not null;default:'MONTHLY'"`
	RentAmount       float64   `gorm:"type:numeric(14,2);not null;default:0"`
	UtilitiesAmount  float64   `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        *uuid.UUID `gorm:"type:uuid;index"` // nil once removed from the roster
	Email            string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone            string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	FullName         string     `gorm:"type:varchar(255);not null"`
	Password         string     `gorm:"type:varchar(255);not null"`
	Role             string     `gorm:"type:varchar(16);not null;default:'EMPLOYEE'"`
	JobTitle         string     `gorm:"type:varchar(255)"`
	MonthlySalary    *float64   `gorm:"type:numeric(14,2)"`
	IncludeInAutoPay bool       `gorm:"not null;default:false"`
	LastSalaryPaidAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TaxRate returns the income-tax rate for a tax group.
func TaxRate(taxGroup string) float64 {
	switch taxGroup {
	case TaxGroupSimplified3At5:
		return 0.06
	case TaxGroupSimplified3At3:
		return 0.04
	case TaxGroupSimplified1:
		return 0.10
	case TaxGroupSimplified2:
		return 0.20
	default:
		return 0.18
	}
}

// HasSocialContribution reports whether the tax group owes the fixed monthly
// social contribution on top of the profit tax.
func HasSocialContribution(taxGroup string) bool {
	return taxGroup == TaxGroupSimplified3At5 || taxGroup == TaxGroupSimplified3At3
}

func ValidTaxGroup(v string) bool {
	switch v {
	case TaxGroupSimplified1, TaxGroupSimplified2, TaxGroupSimplified3At5, TaxGroupSimplified3At3, TaxGroupGeneral:
		return true
	}
	return false
}

func ValidRevenueFrequency(v string) bool {
	switch v {
	case RevenueDaily, RevenueWeekly, RevenueMonthly:
		return true
	}
	return false
}
