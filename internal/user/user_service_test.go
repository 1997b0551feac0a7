package user_test

import (
	"context"
	"net/http"
	"testing"

	"go-bizops/internal/company"
	"go-bizops/internal/shared/apperror"
	"go-bizops/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepository struct {
	findByIDFn func(ctx context.Context, userID string) (*company.User, error)
	updateFn   func(ctx context.Context, u *company.User) error
}

func (f *fakeUserRepository) FindByID(ctx context.Context, userID string) (*company.User, error) {
	return f.findByIDFn(ctx, userID)
}

func (f *fakeUserRepository) Update(ctx context.Context, u *company.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func TestUserService_UpdateProfile_RehashesPassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	oldHash, err := bcrypt.GenerateFromPassword([]byte("old-secret"), bcrypt.MinCost)
	assert.NoError(t, err)

	var saved *company.User
	repo := &fakeUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*company.User, error) {
			return &company.User{ID: userID, Email: "iryna@example.com", Password: string(oldHash)}, nil
		},
		updateFn: func(ctx context.Context, u *company.User) error {
			saved = u
			return nil
		},
	}

	svc := user.NewService(repo)

	password := "new-secret"
	name := "Iryna B."
	_, err = svc.UpdateProfile(ctx, userID.String(), user.UpdateProfileRequest{
		FullName: &name,
		Password: &password,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Iryna B.", saved.FullName)
	assert.NotEqual(t, string(oldHash), saved.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("new-secret")))
}

func TestUserService_UpdateProfile_DuplicateEmailConflict(t *testing.T) {
	ctx := context.Background()

	repo := &fakeUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*company.User, error) {
			return &company.User{ID: uuid.New()}, nil
		},
		updateFn: func(ctx context.Context, u *company.User) error {
			return &pgconn.PgError{Code: "23505"}
		},
	}

	svc := user.NewService(repo)

	email := "taken@example.com"
	_, err := svc.UpdateProfile(ctx, uuid.New().String(), user.UpdateProfileRequest{Email: &email})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
}
