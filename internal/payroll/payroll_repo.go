package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-bizops/internal/company"
	"go-bizops/internal/tenant"
	"go-bizops/internal/transaction"

	"gorm.io/gorm"
)

const historyLimit = 100

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetCompany(ctx context.Context, companyID string) (*company.Company, error)
	FindEmployee(ctx context.Context, companyID, userID string) (*company.User, error)
	FindAutoPayEmployees(ctx context.Context, companyID string, before time.Time) ([]company.User, error)
	CreateTransaction(ctx context.Context, t *transaction.Transaction) error
	CreateSalaryPayment(ctx context.Context, p *SalaryPayment) error
	SetLastSalaryPaidAt(ctx context.Context, userID string, at time.Time) error
	AdjustCompanyBalance(ctx context.Context, companyID string, delta float64) error
	FindSalaryHistory(ctx context.Context, companyID, userID string) ([]SalaryPayment, error)
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

func (r *repository) GetCompany(ctx context.Context, companyID string) (*company.Company, error) {
	var c company.Company
	err := r.db.WithContext(ctx).First(&c, "id = ?", companyID).Error
	return &c, err
}

func (r *repository) FindEmployee(ctx context.Context, companyID, userID string) (*company.User, error) {
	var u company.User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&u, "id = ?", userID).Error
	return &u, err
}

func (r *repository) FindAutoPayEmployees(ctx context.Context, companyID string, before time.Time) ([]company.User, error) {
	var users []company.User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("include_in_auto_pay = ?", true).
		Where("monthly_salary IS NOT NULL AND monthly_salary > 0").
		Where("last_salary_paid_at IS NULL OR last_salary_paid_at < ?", before).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO transactions (
	id, company_id, amount, type, category, description, date, is_archived, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
`,
			t.ID, t.CompanyID, t.Amount, t.Type, t.Category, t.Description, t.Date, t.IsArchived,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) CreateSalaryPayment(ctx context.Context, p *SalaryPayment) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO salary_payments (
	id, company_id, user_id, transaction_id, amount, payment_type, paid_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
`,
			p.ID, p.CompanyID, p.UserID, p.TransactionID, p.Amount, p.PaymentType, p.PaidAt,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) SetLastSalaryPaidAt(ctx context.Context, userID string, at time.Time) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx,
			`UPDATE users SET last_salary_paid_at = $2, updated_at = NOW() WHERE id = $1`,
			userID, at,
		)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&company.User{}).
		Where("id = ?", userID).
		Update("last_salary_paid_at", at).Error
}

func (r *repository) AdjustCompanyBalance(ctx context.Context, companyID string, delta float64) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx,
			`UPDATE companies SET balance = balance + $2, updated_at = NOW() WHERE id = $1`,
			companyID, delta,
		)
		return err
	}
	return r.db.WithContext(ctx).Exec(
		`UPDATE companies SET balance = balance + ?, updated_at = NOW() WHERE id = ?`,
		delta, companyID,
	).Error
}

func (r *repository) FindSalaryHistory(ctx context.Context, companyID, userID string) ([]SalaryPayment, error) {
	var payments []SalaryPayment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ?", userID).
		Order("paid_at DESC").
		Limit(historyLimit).
		Find(&payments).Error
	return payments, err
}
