package transaction

import (
	"context"
	"database/sql"

	"go-bizops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=transaction_repo.go -destination=mock/transaction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Transaction) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Transaction, error)
	FindPage(ctx context.Context, companyID string, archived bool, offset, limit int) ([]Transaction, int64, error)
	CountSalaryPayments(ctx context.Context, transactionID string) (int64, error)
	Delete(ctx context.Context, id string) error
	ArchiveMany(ctx context.Context, companyID string, ids []string) (int64, error)
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

func (r *repository) Create(ctx context.Context, t *Transaction) error {
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

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Transaction, error) {
	var t Transaction
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindPage(
	ctx context.Context,
	companyID string,
	archived bool,
	offset, limit int,
) ([]Transaction, int64, error) {
	var (
		items []Transaction
		total int64
	)

	base := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Scopes(tenant.Scope(companyID)).
		Where("is_archived = ?", archived)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("date DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

func (r *repository) CountSalaryPayments(ctx context.Context, transactionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("salary_payments").
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	return count, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
		return err
	}
	return r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id).Error
}

func (r *repository) ArchiveMany(ctx context.Context, companyID string, ids []string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", ids).
		Update("is_archived", true)
	return res.RowsAffected, res.Error
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
