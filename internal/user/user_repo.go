package user

import (
	"context"

	"go-bizops/internal/company"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, userID string) (*company.User, error)
	Update(ctx context.Context, u *company.User) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, userID string) (*company.User, error) {
	var u company.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", userID).Error
	return &u, err
}

func (r *repository) Update(ctx context.Context, u *company.User) error {
	return r.db.WithContext(ctx).
		Model(&company.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"full_name": u.FullName,
			"email":     u.Email,
			"phone":     u.Phone,
			"password":  u.Password,
		}).Error
}
