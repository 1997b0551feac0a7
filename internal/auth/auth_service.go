package auth

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	autherrors "go-bizops/internal/auth/errors"
	"go-bizops/internal/company"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const accessTokenTTL = 24 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	// Register creates a company together with its OWNER user.
	Register(ctx context.Context, req RegisterRequest) (accessToken string, resp AuthResponse, err error)

	// Join attaches a new EMPLOYEE user to the company matching the invite code.
	Join(ctx context.Context, req JoinRequest) (accessToken string, resp AuthResponse, err error)

	Login(ctx context.Context, login, password string) (accessToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (string, AuthResponse, error) {
	exists, err := s.repo.ExistsByEmailOrPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return "", AuthResponse{}, err
	}
	if exists {
		return "", AuthResponse{}, autherrors.ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", AuthResponse{}, err
	}

	inviteCode, err := s.generateUniqueInviteCode(ctx)
	if err != nil {
		return "", AuthResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", AuthResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	comp := &company.Company{
		ID:               uuid.New(),
		Name:             req.CompanyName,
		InviteCode:       inviteCode,
		TaxGroup:         company.TaxGroupGeneral,
		RevenueFrequency: company.RevenueMonthly,
	}
	if err := qtx.CreateCompany(ctx, comp); err != nil {
		s.logger.Error("register create company failed", zap.Error(err))
		return "", AuthResponse{}, err
	}

	owner := &company.User{
		ID:        uuid.New(),
		CompanyID: &comp.ID,
		Email:     req.Email,
		Phone:     req.Phone,
		FullName:  req.FullName,
		Password:  string(hashed),
		Role:      company.RoleOwner,
		JobTitle:  "Owner",
	}
	if err := qtx.CreateUser(ctx, owner); err != nil {
		s.logger.Error("register create owner failed", zap.Error(err))
		return "", AuthResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return "", AuthResponse{}, err
	}

	s.logger.Info("company registered",
		zap.String("company_id", comp.ID.String()),
		zap.String("owner_id", owner.ID.String()),
	)

	return s.issueToken(owner)
}

func (s *service) Join(ctx context.Context, req JoinRequest) (string, AuthResponse, error) {
	comp, err := s.repo.GetCompanyByInviteCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", AuthResponse{}, autherrors.ErrInvalidInviteCode
		}
		return "", AuthResponse{}, err
	}

	exists, err := s.repo.ExistsByEmailOrPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return "", AuthResponse{}, err
	}
	if exists {
		return "", AuthResponse{}, autherrors.ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", AuthResponse{}, err
	}

	user := &company.User{
		ID:        uuid.New(),
		CompanyID: &comp.ID,
		Email:     req.Email,
		Phone:     req.Phone,
		FullName:  req.FullName,
		Password:  string(hashed),
		Role:      company.RoleEmployee,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		s.logger.Error("join create user failed", zap.Error(err))
		return "", AuthResponse{}, err
	}

	s.logger.Info("employee joined company",
		zap.String("company_id", comp.ID.String()),
		zap.String("user_id", user.ID.String()),
	)

	return s.issueToken(user)
}

func (s *service) Login(ctx context.Context, login, password string) (string, AuthResponse, error) {
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapToResponse(u)
	return &resp, nil
}

func (s *service) issueToken(user *company.User) (string, AuthResponse, error) {
	companyID := ""
	if user.CompanyID != nil {
		companyID = user.CompanyID.String()
	}

	token, err := generateToken(user.ID.String(), companyID, user.Role, accessTokenTTL)
	if err != nil {
		return "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return token, mapToResponse(user), nil
}

func mapToResponse(u *company.User) AuthResponse {
	companyID := ""
	if u.CompanyID != nil {
		companyID = u.CompanyID.String()
	}
	return AuthResponse{
		ID:        u.ID.String(),
		CompanyID: companyID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
	}
}

func (s *service) generateUniqueInviteCode(ctx context.Context) (string, error) {
	for {
		code := company.NewInviteCode()
		exists, err := s.repo.InviteCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

func generateToken(userID, companyID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"company_id": companyID,
		"role":       role,
		"exp":        time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
