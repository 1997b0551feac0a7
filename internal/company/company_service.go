package company

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	companyerrors "go-bizops/internal/company/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const SalarySummaryKeyPrefix = "company:salary-summary:"

func GetSalarySummaryKey(companyID string) string {
	return SalarySummaryKeyPrefix + companyID
}

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	GetCompany(ctx context.Context, companyID string) (*CompanyResponse, error)
	UpdateSettings(ctx context.Context, companyID, requesterRole string, req UpdateSettingsRequest) (*CompanyResponse, error)
	RegenerateInviteCode(ctx context.Context, companyID, requesterRole string) (*CompanyResponse, error)
	ListEmployees(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, companyID, userID, requesterRole string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	RemoveEmployee(ctx context.Context, companyID, userID, requesterRole string) error
	SalarySummary(ctx context.Context, companyID string) (SalarySummaryResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetCompany(ctx context.Context, companyID string) (*CompanyResponse, error) {
	comp, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, mapNotFound(err, companyerrors.ErrCompanyNotFound)
	}

	users, err := s.repo.FindEmployees(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := mapToCompanyResponse(comp)
	resp.Users = make([]UserSummary, len(users))
	for i, u := range users {
		resp.Users[i] = UserSummary{
			ID:       u.ID.String(),
			FullName: u.FullName,
			Email:    u.Email,
			Role:     u.Role,
		}
	}
	return resp, nil
}

func (s *service) UpdateSettings(
	ctx context.Context,
	companyID, requesterRole string,
	req UpdateSettingsRequest,
) (*CompanyResponse, error) {
	if err := requireOwnerOrAdmin(requesterRole); err != nil {
		return nil, err
	}

	comp, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, mapNotFound(err, companyerrors.ErrCompanyNotFound)
	}

	if req.TaxGroup != nil {
		if !ValidTaxGroup(*req.TaxGroup) {
			return nil, companyerrors.ErrInvalidTaxGroup
		}
		comp.TaxGroup = *req.TaxGroup
	}
	if req.RevenueFrequency != nil {
		if !ValidRevenueFrequency(*req.RevenueFrequency) {
			return nil, companyerrors.ErrInvalidRevenueFrequency
		}
		comp.RevenueFrequency = *req.RevenueFrequency
	}
	if req.RentAmount != nil {
		comp.RentAmount = *req.RentAmount
	}
	if req.UtilitiesAmount != nil {
		comp.UtilitiesAmount = *req.UtilitiesAmount
	}

	if err := s.repo.UpdateSettings(ctx, comp); err != nil {
		return nil, err
	}

	s.logger.Info("company settings updated",
		zap.String("company_id", companyID),
		zap.String("tax_group", comp.TaxGroup),
	)

	return mapToCompanyResponse(comp), nil
}

func (s *service) RegenerateInviteCode(
	ctx context.Context,
	companyID, requesterRole string,
) (*CompanyResponse, error) {
	if err := requireOwnerOrAdmin(requesterRole); err != nil {
		return nil, err
	}

	comp, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, mapNotFound(err, companyerrors.ErrCompanyNotFound)
	}

	var code string
	for {
		code = NewInviteCode()
		exists, err := s.repo.InviteCodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	if err := s.repo.SetInviteCode(ctx, companyID, code); err != nil {
		return nil, err
	}

	comp.InviteCode = code
	s.logger.Info("invite code regenerated", zap.String("company_id", companyID))

	return mapToCompanyResponse(comp), nil
}

func (s *service) ListEmployees(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	users, err := s.repo.FindEmployees(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeResponse, len(users))
	for i, u := range users {
		resp[i] = mapToEmployeeResponse(u)
	}
	return resp, nil
}

func (s *service) UpdateEmployee(
	ctx context.Context,
	companyID, userID, requesterRole string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	if err := requireOwnerOrAdmin(requesterRole); err != nil {
		return EmployeeResponse{}, err
	}

	user, err := s.repo.FindEmployee(ctx, companyID, userID)
	if err != nil {
		return EmployeeResponse{}, mapNotFound(err, companyerrors.ErrEmployeeNotFound)
	}

	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}
	if req.ClearSalary {
		user.MonthlySalary = nil
	} else if req.MonthlySalary != nil {
		if *req.MonthlySalary < 0 {
			return EmployeeResponse{}, companyerrors.ErrNegativeSalary
		}
		user.MonthlySalary = req.MonthlySalary
	}
	if req.IncludeInAutoPay != nil {
		user.IncludeInAutoPay = *req.IncludeInAutoPay
	}

	if err := s.repo.UpdateEmployee(ctx, user); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateSalarySummary(ctx, companyID)
	s.logger.Info("employee updated",
		zap.String("company_id", companyID),
		zap.String("user_id", userID),
	)

	return mapToEmployeeResponse(*user), nil
}

func (s *service) RemoveEmployee(
	ctx context.Context,
	companyID, userID, requesterRole string,
) error {
	if err := requireOwnerOrAdmin(requesterRole); err != nil {
		return err
	}

	user, err := s.repo.FindEmployee(ctx, companyID, userID)
	if err != nil {
		return mapNotFound(err, companyerrors.ErrEmployeeNotFound)
	}

	if user.Role == RoleOwner {
		return companyerrors.ErrCannotRemoveOwner
	}

	// Detach only: payment history stays linked to the user id.
	if err := s.repo.DetachEmployee(ctx, userID); err != nil {
		return err
	}

	s.invalidateSalarySummary(ctx, companyID)
	s.logger.Info("employee removed from roster",
		zap.String("company_id", companyID),
		zap.String("user_id", userID),
	)

	return nil
}

func (s *service) SalarySummary(ctx context.Context, companyID string) (SalarySummaryResponse, error) {
	cacheKey := GetSalarySummaryKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp SalarySummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight keeps concurrent dashboard loads from stampeding the SUM.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		total, err := s.repo.SumMonthlySalaries(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := SalarySummaryResponse{TotalMonthlySalary: total}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return SalarySummaryResponse{}, err
	}

	return v.(SalarySummaryResponse), nil
}

func (s *service) invalidateSalarySummary(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetSalarySummaryKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate salary summary cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func requireOwnerOrAdmin(role string) error {
	if role != RoleOwner && role != RoleAdmin {
		return companyerrors.ErrNotOwnerOrAdmin
	}
	return nil
}

func mapNotFound(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func mapToCompanyResponse(c *Company) *CompanyResponse {
	return &CompanyResponse{
		ID:               c.ID.String(),
		Name:             c.Name,
		InviteCode:       c.InviteCode,
		Balance:          c.Balance,
		TaxGroup:         c.TaxGroup,
		RevenueFrequency: c.RevenueFrequency,
		RentAmount:       c.RentAmount,
		UtilitiesAmount:  c.UtilitiesAmount,
	}
}

func mapToEmployeeResponse(u User) EmployeeResponse {
	return EmployeeResponse{
		ID:               u.ID.String(),
		FullName:         u.FullName,
		Email:            u.Email,
		Phone:            u.Phone,
		Role:             u.Role,
		JobTitle:         u.JobTitle,
		MonthlySalary:    u.MonthlySalary,
		IncludeInAutoPay: u.IncludeInAutoPay,
		LastSalaryPaidAt: u.LastSalaryPaidAt,
	}
}
