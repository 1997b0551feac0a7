package transaction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-bizops/internal/shared/apperror"
	txerrors "go-bizops/internal/transaction/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pageSize = 20

type Service interface {
	Create(ctx context.Context, companyID string, req CreateTransactionRequest) (*TransactionResponse, error)
	List(ctx context.Context, companyID string, archived bool, page int) ([]TransactionResponse, int64, error)
	Delete(ctx context.Context, companyID, id string) error
	Archive(ctx context.Context, companyID string, ids []string) (int64, error)
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
		logger: zap.L().Named("transaction.service"),
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateTransactionRequest) (*TransactionResponse, error) {
	if req.Type != TypeIncome && req.Type != TypeExpense {
		return nil, txerrors.ErrInvalidType
	}

	compID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "invalid company id", 400)
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			return nil, apperror.New(apperror.CodeInvalidInput, "invalid date format", 400)
		}
		date = parsed
	}

	t := &Transaction{
		ID:          uuid.New(),
		CompanyID:   compID,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to start transaction", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, t); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to record transaction", 500)
	}
	if err := qtx.AdjustCompanyBalance(ctx, companyID, t.BalanceDelta()); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update balance", 500)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to commit transaction", 500)
	}

	s.logger.Info("transaction recorded",
		zap.String("transaction_id", t.ID.String()),
		zap.String("company_id", companyID),
		zap.String("type", t.Type),
		zap.Float64("amount", t.Amount),
	)

	resp := toResponse(t)
	return &resp, nil
}

func (s *service) List(ctx context.Context, companyID string, archived bool, page int) ([]TransactionResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	items, total, err := s.repo.FindPage(ctx, companyID, archived, offset, pageSize)
	if err != nil {
		return nil, 0, apperror.Wrap(err, apperror.CodeInternalError, "failed to list transactions", 500)
	}

	out := make([]TransactionResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, total, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	t, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return txerrors.ErrTransactionNotFound
		}
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to load transaction", 500)
	}

	linked, err := s.repo.CountSalaryPayments(ctx, id)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to check payment links", 500)
	}
	if linked > 0 {
		return txerrors.ErrLinkedToPayroll
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to start transaction", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to delete transaction", 500)
	}
	// Removing a transaction reverses its effect on the balance.
	if err := qtx.AdjustCompanyBalance(ctx, companyID, -t.BalanceDelta()); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to update balance", 500)
	}

	if err := tx.Commit(); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to commit transaction", 500)
	}

	s.logger.Info("transaction deleted",
		zap.String("transaction_id", id),
		zap.String("company_id", companyID),
	)
	return nil
}

func (s *service) Archive(ctx context.Context, companyID string, ids []string) (int64, error) {
	count, err := s.repo.ArchiveMany(ctx, companyID, ids)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeInternalError, "failed to archive transactions", 500)
	}
	return count, nil
}

func toResponse(t *Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date,
		IsArchived:  t.IsArchived,
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
