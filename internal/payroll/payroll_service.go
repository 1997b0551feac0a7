package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-bizops/internal/company"
	"go-bizops/internal/events"
	"go-bizops/internal/messaging/kafka"
	payrollerrors "go-bizops/internal/payroll/errors"
	"go-bizops/internal/shared/apperror"
	"go-bizops/internal/shared/contextutil"
	"go-bizops/internal/transaction"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	PaySalary(ctx context.Context, companyID, role, userID string) (*SalaryPaymentResponse, error)
	PayBonus(ctx context.Context, companyID, role, userID string, req PayBonusRequest) (*SalaryPaymentResponse, error)
	SalaryHistory(ctx context.Context, companyID, role, actorID, userID string) ([]SalaryPaymentResponse, error)
	GenerateMonthlyExpenses(ctx context.Context, companyID, role string) (*RecurringRunResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository) Service {
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		logger: zap.L().Named("payroll.service"),
	}
}

func (s *service) PaySalary(ctx context.Context, companyID, role, userID string) (*SalaryPaymentResponse, error) {
	if err := requireOwnerOrAdmin(role); err != nil {
		return nil, err
	}

	emp, err := s.repo.FindEmployee(ctx, companyID, userID)
	if err != nil {
		return nil, mapNotFound(err, payrollerrors.ErrEmployeeNotFound)
	}
	if emp.MonthlySalary == nil || *emp.MonthlySalary <= 0 {
		return nil, payrollerrors.ErrNoSalarySet
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to start transaction", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qoutbox := s.outbox.WithTx(tx)

	now := time.Now()
	payment, err := s.payEmployee(ctx, qtx, qoutbox, emp, *emp.MonthlySalary, PaymentTypeSalary, "Salary - "+emp.FullName, now)
	if err != nil {
		return nil, err
	}
	if err := qtx.SetLastSalaryPaidAt(ctx, userID, now); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to mark salary as paid", 500)
	}
	if err := qtx.AdjustCompanyBalance(ctx, companyID, -payment.Amount); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update balance", 500)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to commit payment", 500)
	}

	s.logger.Info("salary paid",
		zap.String("payment_id", payment.ID.String()),
		zap.String("user_id", userID),
		zap.String("company_id", companyID),
		zap.Float64("amount", payment.Amount),
	)

	resp := toPaymentResponse(payment)
	return &resp, nil
}

func (s *service) PayBonus(ctx context.Context, companyID, role, userID string, req PayBonusRequest) (*SalaryPaymentResponse, error) {
	if err := requireOwnerOrAdmin(role); err != nil {
		return nil, err
	}

	emp, err := s.repo.FindEmployee(ctx, companyID, userID)
	if err != nil {
		return nil, mapNotFound(err, payrollerrors.ErrEmployeeNotFound)
	}

	description := req.Description
	if description == "" {
		description = "Bonus - " + emp.FullName
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to start transaction", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qoutbox := s.outbox.WithTx(tx)

	payment, err := s.payEmployee(ctx, qtx, qoutbox, emp, req.Amount, PaymentTypeBonus, description, time.Now())
	if err != nil {
		return nil, err
	}
	if err := qtx.AdjustCompanyBalance(ctx, companyID, -payment.Amount); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update balance", 500)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to commit payment", 500)
	}

	s.logger.Info("bonus paid",
		zap.String("payment_id", payment.ID.String()),
		zap.String("user_id", userID),
		zap.String("company_id", companyID),
		zap.Float64("amount", payment.Amount),
	)

	resp := toPaymentResponse(payment)
	return &resp, nil
}

func (s *service) SalaryHistory(ctx context.Context, companyID, role, actorID, userID string) ([]SalaryPaymentResponse, error) {
	if role != company.RoleOwner && role != company.RoleAdmin && actorID != userID {
		return nil, payrollerrors.ErrSelfHistoryOnly
	}

	if _, err := s.repo.FindEmployee(ctx, companyID, userID); err != nil {
		return nil, mapNotFound(err, payrollerrors.ErrEmployeeNotFound)
	}

	payments, err := s.repo.FindSalaryHistory(ctx, companyID, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load salary history", 500)
	}

	out := make([]SalaryPaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, toPaymentResponse(&payments[i]))
	}
	return out, nil
}

// GenerateMonthlyExpenses charges configured rent and utilities and pays every
// auto-pay salary not yet paid this calendar month. Rent and utilities are
// charged on every call; only salaries carry the once-per-month guard.
func (s *service) GenerateMonthlyExpenses(ctx context.Context, companyID, role string) (*RecurringRunResponse, error) {
	if err := requireOwnerOrAdmin(role); err != nil {
		return nil, err
	}

	comp, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load company", 500)
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	employees, err := s.repo.FindAutoPayEmployees(ctx, companyID, startOfMonth)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load auto-pay roster", 500)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to start transaction", 500)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qoutbox := s.outbox.WithTx(tx)

	result := &RecurringRunResponse{}
	total := 0.0

	if comp.RentAmount > 0 {
		if err := s.createExpense(ctx, qtx, comp.ID, comp.RentAmount, transaction.CategoryRent, "Monthly rent", now); err != nil {
			return nil, err
		}
		result.RentCharged = true
		total += comp.RentAmount
	}
	if comp.UtilitiesAmount > 0 {
		if err := s.createExpense(ctx, qtx, comp.ID, comp.UtilitiesAmount, transaction.CategoryUtilities, "Monthly utilities", now); err != nil {
			return nil, err
		}
		result.UtilitiesCharged = true
		total += comp.UtilitiesAmount
	}

	for i := range employees {
		emp := &employees[i]
		payment, err := s.payEmployee(ctx, qtx, qoutbox, emp, *emp.MonthlySalary, PaymentTypeSalary, "Salary - "+emp.FullName, now)
		if err != nil {
			return nil, err
		}
		if err := qtx.SetLastSalaryPaidAt(ctx, emp.ID.String(), now); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to mark salary as paid", 500)
		}
		result.SalariesPaid++
		total += payment.Amount
	}

	if total > 0 {
		if err := qtx.AdjustCompanyBalance(ctx, companyID, -total); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update balance", 500)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to commit recurring run", 500)
	}

	result.TotalCharged = total

	s.logger.Info("recurring expenses generated",
		zap.String("company_id", companyID),
		zap.Int("salaries_paid", result.SalariesPaid),
		zap.Bool("rent_charged", result.RentCharged),
		zap.Bool("utilities_charged", result.UtilitiesCharged),
		zap.Float64("total_charged", total),
	)
	return result, nil
}

// payEmployee records the expense transaction, the payment row and the outbox
// event inside the caller's database transaction. It does not touch the
// company balance; the caller settles it once.
func (s *service) payEmployee(
	ctx context.Context,
	qtx Repository,
	qoutbox kafka.OutboxRepository,
	emp *company.User,
	amount float64,
	paymentType string,
	description string,
	paidAt time.Time,
) (*SalaryPayment, error) {
	t := &transaction.Transaction{
		ID:          uuid.New(),
		CompanyID:   *emp.CompanyID,
		Amount:      amount,
		Type:        transaction.TypeExpense,
		Category:    categoryFor(paymentType),
		Description: description,
		Date:        paidAt,
	}
	if err := qtx.CreateTransaction(ctx, t); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to record payment transaction", 500)
	}

	payment := &SalaryPayment{
		ID:            uuid.New(),
		CompanyID:     *emp.CompanyID,
		UserID:        emp.ID,
		TransactionID: t.ID,
		Amount:        amount,
		PaymentType:   paymentType,
		PaidAt:        paidAt,
	}
	if err := qtx.CreateSalaryPayment(ctx, payment); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to record payment", 500)
	}

	if err := enqueuePaidEvent(ctx, qoutbox, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func enqueuePaidEvent(ctx context.Context, qoutbox kafka.OutboxRepository, payment *SalaryPayment) error {
	event := events.SalaryPaidEvent{
		EventType:   "finance.salary.paid",
		RequestID:   contextutil.GetRequestID(ctx),
		PaymentID:   payment.ID.String(),
		UserID:      payment.UserID.String(),
		CompanyID:   payment.CompanyID.String(),
		Amount:      payment.Amount,
		PaymentType: payment.PaymentType,
		OccurredAt:  payment.PaidAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to encode event", 500)
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "salary_payment",
		AggregateID:   payment.ID.String(),
		EventType:     event.EventType,
		Topic:         events.SalaryPaidTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := qoutbox.Create(ctx, outboxEvent); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to enqueue event", 500)
	}
	return nil
}

func (s *service) createExpense(
	ctx context.Context,
	qtx Repository,
	companyID uuid.UUID,
	amount float64,
	category, description string,
	date time.Time,
) error {
	t := &transaction.Transaction{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Amount:      amount,
		Type:        transaction.TypeExpense,
		Category:    category,
		Description: description,
		Date:        date,
	}
	if err := qtx.CreateTransaction(ctx, t); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to record expense", 500)
	}
	return nil
}

func categoryFor(paymentType string) string {
	if paymentType == PaymentTypeBonus {
		return transaction.CategoryBonus
	}
	return transaction.CategorySalary
}

func requireOwnerOrAdmin(role string) error {
	if role != company.RoleOwner && role != company.RoleAdmin {
		return payrollerrors.ErrNotOwnerOrAdmin
	}
	return nil
}

func mapNotFound(err error, sentinel *apperror.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return apperror.Wrap(err, apperror.CodeInternalError, "database error", 500)
}

func toPaymentResponse(p *SalaryPayment) SalaryPaymentResponse {
	return SalaryPaymentResponse{
		ID:            p.ID.String(),
		UserID:        p.UserID.String(),
		TransactionID: p.TransactionID.String(),
		Amount:        p.Amount,
		PaymentType:   p.PaymentType,
		PaidAt:        p.PaidAt,
	}
}
