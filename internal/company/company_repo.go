package company

import (
	"context"
	"database/sql"

	"go-bizops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetByID(ctx context.Context, id string) (*Company, error)
	GetByInviteCode(ctx context.Context, code string) (*Company, error)
	InviteCodeExists(ctx context.Context, code string) (bool, error)
	UpdateSettings(ctx context.Context, c *Company) error
	SetInviteCode(ctx context.Context, companyID, code string) error
	FindEmployees(ctx context.Context, companyID string) ([]User, error)
	FindEmployee(ctx context.Context, companyID, userID string) (*User, error)
	UpdateEmployee(ctx context.Context, u *User) error
	DetachEmployee(ctx context.Context, userID string) error
	SumMonthlySalaries(ctx context.Context, companyID string) (float64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Company, error) {
	var c Company
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) GetByInviteCode(ctx context.Context, code string) (*Company, error) {
	var c Company
	err := r.db.WithContext(ctx).First(&c, "invite_code = ?", code).Error
	return &c, err
}

func (r *repository) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Company{}).
		Where("invite_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateSettings(ctx context.Context, c *Company) error {
	return r.db.WithContext(ctx).
		Model(&Company{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"tax_group":         c.TaxGroup,
			"revenue_frequency": c.RevenueFrequency,
			"rent_amount":       c.RentAmount,
			"utilities_amount":  c.UtilitiesAmount,
		}).Error
}

func (r *repository) SetInviteCode(ctx context.Context, companyID, code string) error {
	return r.db.WithContext(ctx).
		Model(&Company{}).
		Where("id = ?", companyID).
		Update("invite_code", code).Error
}

func (r *repository) FindEmployees(ctx context.Context, companyID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindEmployee(ctx context.Context, companyID, userID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&u, "id = ?", userID).Error
	return &u, err
}

func (r *repository) UpdateEmployee(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"job_title":           u.JobTitle,
			"monthly_salary":      u.MonthlySalary,
			"include_in_auto_pay": u.IncludeInAutoPay,
		}).Error
}

func (r *repository) DetachEmployee(ctx context.Context, userID string) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx,
			`UPDATE users SET company_id = NULL, updated_at = NOW() WHERE id = $1`, userID)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("company_id", nil).Error
}

func (r *repository) SumMonthlySalaries(ctx context.Context, companyID string) (float64, error) {
	var total sql.NullFloat64
	err := r.db.WithContext(ctx).Raw(`
SELECT SUM(monthly_salary)
FROM users
WHERE company_id = ?
	AND monthly_salary IS NOT NULL
	AND monthly_salary > 0
`, companyID).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
