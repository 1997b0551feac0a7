package tax

import (
	"context"
	"database/sql"
	"time"

	"go-bizops/internal/company"
	"go-bizops/internal/transaction"

	"gorm.io/gorm"
)

//go:generate mockgen -source=tax_repo.go -destination=mock/tax_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetCompany(ctx context.Context, companyID string) (*company.Company, error)
	ListTransactionMonths(ctx context.Context, companyID string) ([]string, error)
	SumByType(ctx context.Context, companyID string, from, to time.Time) (income, expenses float64, err error)
	CreateTransaction(ctx context.Context, t *transaction.Transaction) error
	AdjustCompanyBalance(ctx context.Context, companyID string, delta float64) error
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

func (r *repository) ListTransactionMonths(ctx context.Context, companyID string) ([]string, error) {
	var months []string
	err := r.db.WithContext(ctx).
		Model(&transaction.Transaction{}).
		Where("company_id = ? AND is_archived = ?", companyID, false).
		Distinct("to_char(date, 'YYYY-MM')").
		Order("to_char(date, 'YYYY-MM') ASC").
		Pluck("to_char(date, 'YYYY-MM')", &months).Error
	return months, err
}

func (r *repository) SumByType(ctx context.Context, companyID string, from, to time.Time) (float64, float64, error) {
	var sums struct {
		Income   float64
		Expenses float64
	}
	err := r.db.WithContext(ctx).
		Model(&transaction.Transaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expenses",
			transaction.TypeIncome, transaction.TypeExpense,
		).
		Where("company_id = ? AND is_archived = ? AND date >= ? AND date <= ?",
			companyID, false, from, to).
		Scan(&sums).Error
	return sums.Income, sums.Expenses, err
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
