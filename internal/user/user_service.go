package user

import (
	"context"
	"errors"
	"net/http"

	autherrors "go-bizops/internal/auth/errors"
	"go-bizops/internal/company"
	"go-bizops/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	GetProfile(ctx context.Context, userID string) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*ProfileResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo:   repo,
		logger: zap.L().Named("user.service"),
	}
}

func (s *service) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load profile", 500)
	}
	resp := toProfileResponse(u)
	return &resp, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*ProfileResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load profile", 500)
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to hash password", 500)
		}
		u.Password = string(hashed)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperror.New(apperror.CodeConflict, "Email or phone already in use", http.StatusConflict)
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update profile", 500)
	}

	s.logger.Info("profile updated", zap.String("user_id", userID))

	resp := toProfileResponse(u)
	return &resp, nil
}

func toProfileResponse(u *company.User) ProfileResponse {
	companyID := ""
	if u.CompanyID != nil {
		companyID = u.CompanyID.String()
	}
	return ProfileResponse{
		ID:        u.ID.String(),
		CompanyID: companyID,
		Email:     u.Email,
		Phone:     u.Phone,
		FullName:  u.FullName,
		Role:      u.Role,
		JobTitle:  u.JobTitle,
		CreatedAt: u.CreatedAt,
	}
}
