package company

import "time"

type UpdateSettingsRequest struct {
	TaxGroup         *string  `json:"tax_group"`
	RevenueFrequency *string  `json:"revenue_frequency"`
	RentAmount       *float64 `json:"rent_amount" binding:"omitempty,gte=0"`
	UtilitiesAmount  *float64 `json:"utilities_amount" binding:"omitempty,gte=0"`
}

type UpdateEmployeeRequest struct {
	JobTitle         *string  `json:"job_title"`
	MonthlySalary    *float64 `json:"monthly_salary"`
	IncludeInAutoPay *bool    `json:"include_in_auto_pay"`
	// ClearSalary unsets monthly_salary; needed because JSON null and a
	// missing field are both decoded as a nil pointer.
	ClearSalary bool `json:"clear_salary"`
}

type CompanyResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	InviteCode       string         `json:"invite_code"`
	Balance          float64        `json:"balance"`
	TaxGroup         string         `json:"tax_group"`
	RevenueFrequency string         `json:"revenue_frequency"`
	RentAmount       float64        `json:"rent_amount"`
	UtilitiesAmount  float64        `json:"utilities_amount"`
	Users            []UserSummary  `json:"users,omitempty"`
}

type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type EmployeeResponse struct {
	ID               string     `json:"id"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Role             string     `json:"role"`
	JobTitle         string     `json:"job_title"`
	MonthlySalary    *float64   `json:"monthly_salary"`
	IncludeInAutoPay bool       `json:"include_in_auto_pay"`
	LastSalaryPaidAt *time.Time `json:"last_salary_paid_at"`
}

type SalarySummaryResponse struct {
	TotalMonthlySalary float64 `json:"total_monthly_salary"`
}
