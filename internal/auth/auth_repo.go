package auth

import (
	"context"
	"database/sql"

	"go-bizops/internal/company"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByLogin(ctx context.Context, login string) (*company.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*company.User, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	GetCompanyByInviteCode(ctx context.Context, code string) (*company.Company, error)
	InviteCodeExists(ctx context.Context, code string) (bool, error)
	CreateCompany(ctx context.Context, c *company.Company) error
	CreateUser(ctx context.Context, u *company.User) error
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

func (r *repository) FindByLogin(ctx context.Context, login string) (*company.User, error) {
	var u company.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR phone = ?", login, login).
		First(&u).Error
	return &u, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*company.User, error) {
	var u company.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&company.User{}).
		Where("email = ? OR phone = ?", email, phone).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GetCompanyByInviteCode(ctx context.Context, code string) (*company.Company, error) {
	var c company.Company
	err := r.db.WithContext(ctx).First(&c, "invite_code = ?", code).Error
	return &c, err
}

func (r *repository) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&company.Company{}).
		Where("invite_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateCompany(ctx context.Context, c *company.Company) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO companies (
	id, name, invite_code, balance, tax_group, revenue_frequency,
	rent_amount, utilities_amount, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
`,
			c.ID, c.Name, c.InviteCode, c.Balance, c.TaxGroup,
			c.RevenueFrequency, c.RentAmount, c.UtilitiesAmount,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) CreateUser(ctx context.Context, u *company.User) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO users (
	id, company_id, email, phone, full_name, password, role,
	job_title, include_in_auto_pay, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
`,
			u.ID, u.CompanyID, u.Email, u.Phone, u.FullName, u.Password,
			u.Role, u.JobTitle, u.IncludeInAutoPay,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(u).Error
}
