package tax

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"go-bizops/internal/company"
	"go-bizops/internal/shared/apperror"
	taxerrors "go-bizops/internal/tax/errors"
	"go-bizops/internal/transaction"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Monthly social contribution owed by the flat-rate groups, on top of the
// profit tax.
const socialContributionMonthly = 1902.34

const monthKeyLayout = "2006-01"

type Service interface {
	AvailableMonths(ctx context.Context, companyID string) ([]string, error)
	Calculate(ctx context.Context, companyID string, req CalculateRequest) (*CalculateResponse, error)
	Pay(ctx context.Context, companyID string, req PayRequest) (*PayResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{
		db:     db,
		repo:   repo,
		logger: zap.L().Named("tax.service"),
	}
}

func (s *service) AvailableMonths(ctx context.Context, companyID string) ([]string, error) {
	months, err := s.repo.ListTransactionMonths(ctx, companyID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list months", 500)
	}

	current := time.Now().Format(monthKeyLayout)
	out := make([]string, 0, len(months))
	for _, m := range months {
		if m != current {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *service) Calculate(ctx context.Context, companyID string, req CalculateRequest) (*CalculateResponse, error) {
	months, err := parseMonths(req.Months)
	if err != nil {
		return nil, err
	}

	comp, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load company", 500)
	}

	// The window spans min..max of the selection. A non-contiguous selection
	// still aggregates interior months.
	from, to := windowOf(months)

	income, expenses, err := s.repo.SumByType(ctx, companyID, from, to)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to aggregate transactions", 500)
	}

	netProfit := income - expenses
	if netProfit < 0 {
		netProfit = 0
	}

	rate := company.TaxRate(comp.TaxGroup)
	incomeTax := round2(netProfit * rate)

	var contribution float64
	if company.HasSocialContribution(comp.TaxGroup) {
		contribution = round2(socialContributionMonthly * float64(len(months)))
	}

	return &CalculateResponse{
		Income:             income,
		Expenses:           expenses,
		NetProfit:          netProfit,
		Rate:               rate,
		IncomeTax:          incomeTax,
		SocialContribution: contribution,
		Total:              incomeTax + contribution,
		PeriodLabel:        periodLabel(months),
	}, nil
}

func (s *service) Pay(ctx context.Context, companyID string, req PayRequest) (*PayResponse, error) {
	months, err := parseMonths(req.Months)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, m := range months {
		if m.Equal(currentMonth) {
			return nil, taxerrors.ErrCurrentMonthNotAllowed
		}
	}

	compID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "invalid company id", 400)
	}

	t := &transaction.Transaction{
		ID:          uuid.New(),
		CompanyID:   compID,
		Amount:      req.Amount,
		Type:        transaction.TypeExpense,
		Category:    transaction.CategoryTaxes,
		Description: fmt.Sprintf("Unified tax (%s)", req.Label),
		Date:        now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to start transaction", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.CreateTransaction(ctx, t); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to record tax payment", 500)
	}
	if err := qtx.AdjustCompanyBalance(ctx, companyID, -req.Amount); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update balance", 500)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to commit tax payment", 500)
	}

	s.logger.Info("tax paid",
		zap.String("company_id", companyID),
		zap.Float64("amount", req.Amount),
		zap.String("label", req.Label),
	)

	return &PayResponse{
		TransactionID: t.ID.String(),
		Amount:        req.Amount,
		Description:   t.Description,
	}, nil
}

// parseMonths validates and sorts the month keys chronologically, returning
// them as first-of-month instants in UTC.
func parseMonths(keys []string) ([]time.Time, error) {
	if len(keys) == 0 {
		return nil, taxerrors.ErrNoMonths
	}
	months := make([]time.Time, 0, len(keys))
	for _, key := range keys {
		m, err := time.ParseInLocation(monthKeyLayout, key, time.UTC)
		if err != nil {
			return nil, taxerrors.ErrInvalidMonthKey
		}
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months, nil
}

// windowOf returns the inclusive window from the first day of the earliest
// month to the last instant of the latest month.
func windowOf(months []time.Time) (time.Time, time.Time) {
	from := months[0]
	last := months[len(months)-1]
	to := last.AddDate(0, 1, 0).Add(-time.Millisecond)
	return from, to
}

func periodLabel(months []time.Time) string {
	first := months[0]
	last := months[len(months)-1]
	if first.Equal(last) {
		return fmt.Sprintf("%s %d", first.Month(), first.Year())
	}
	return fmt.Sprintf("%s %d – %s %d", first.Month(), first.Year(), last.Month(), last.Year())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
