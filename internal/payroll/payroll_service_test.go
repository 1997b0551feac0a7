package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"go-bizops/internal/company"
	"go-bizops/internal/events"
	"go-bizops/internal/messaging/kafka"
	"go-bizops/internal/payroll"
	payrollerrors "go-bizops/internal/payroll/errors"
	"go-bizops/internal/shared/apperror"
	"go-bizops/internal/transaction"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePayrollRepository struct {
	withTxFn               func(tx *sql.Tx) payroll.Repository
	getCompanyFn           func(ctx context.Context, companyID string) (*company.Company, error)
	findEmployeeFn         func(ctx context.Context, companyID, userID string) (*company.User, error)
	findAutoPayEmployeesFn func(ctx context.Context, companyID string, before time.Time) ([]company.User, error)
	createTransactionFn    func(ctx context.Context, t *transaction.Transaction) error
	createSalaryPaymentFn  func(ctx context.Context, p *payroll.SalaryPayment) error
	setLastSalaryPaidAtFn  func(ctx context.Context, userID string, at time.Time) error
	adjustCompanyBalanceFn func(ctx context.Context, companyID string, delta float64) error
	findSalaryHistoryFn    func(ctx context.Context, companyID, userID string) ([]payroll.SalaryPayment, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) GetCompany(ctx context.Context, companyID string) (*company.Company, error) {
	if f.getCompanyFn != nil {
		return f.getCompanyFn(ctx, companyID)
	}
	return &company.Company{}, nil
}

func (f *fakePayrollRepository) FindEmployee(ctx context.Context, companyID, userID string) (*company.User, error) {
	if f.findEmployeeFn != nil {
		return f.findEmployeeFn(ctx, companyID, userID)
	}
	return nil, sql.ErrNoRows
}

func (f *fakePayrollRepository) FindAutoPayEmployees(ctx context.Context, companyID string, before time.Time) ([]company.User, error) {
	if f.findAutoPayEmployeesFn != nil {
		return f.findAutoPayEmployeesFn(ctx, companyID, before)
	}
	return nil, nil
}

func (f *fakePayrollRepository) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	if f.createTransactionFn != nil {
		return f.createTransactionFn(ctx, t)
	}
	return nil
}

func (f *fakePayrollRepository) CreateSalaryPayment(ctx context.Context, p *payroll.SalaryPayment) error {
	if f.createSalaryPaymentFn != nil {
		return f.createSalaryPaymentFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) SetLastSalaryPaidAt(ctx context.Context, userID string, at time.Time) error {
	if f.setLastSalaryPaidAtFn != nil {
		return f.setLastSalaryPaidAtFn(ctx, userID, at)
	}
	return nil
}

func (f *fakePayrollRepository) AdjustCompanyBalance(ctx context.Context, companyID string, delta float64) error {
	if f.adjustCompanyBalanceFn != nil {
		return f.adjustCompanyBalanceFn(ctx, companyID, delta)
	}
	return nil
}

func (f *fakePayrollRepository) FindSalaryHistory(ctx context.Context, companyID, userID string) ([]payroll.SalaryPayment, error) {
	if f.findSalaryHistoryFn != nil {
		return f.findSalaryHistoryFn(ctx, companyID, userID)
	}
	return nil, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type payrollServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service payroll.Service
	repo    *fakePayrollRepository
	outbox  *fakeOutboxRepository
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	outbox := &fakeOutboxRepository{}
	svc := payroll.NewService(db, repo, outbox)

	return &payrollServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, outbox: outbox}
}

func employeeWithSalary(companyID uuid.UUID, salary float64) *company.User {
	return &company.User{
		ID:            uuid.New(),
		CompanyID:     &companyID,
		FullName:      "Oleh Marchenko",
		Role:          company.RoleEmployee,
		MonthlySalary: &salary,
	}
}

func TestPayrollService_PaySalary(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	emp := employeeWithSalary(companyID, 2500)
	deps.repo.findEmployeeFn = func(ctx context.Context, cid, uid string) (*company.User, error) {
		return emp, nil
	}

	var createdTx *transaction.Transaction
	var createdPayment *payroll.SalaryPayment
	var delta float64
	var lastPaidUser string
	deps.repo.createTransactionFn = func(ctx context.Context, tr *transaction.Transaction) error {
		createdTx = tr
		return nil
	}
	deps.repo.createSalaryPaymentFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
		createdPayment = p
		return nil
	}
	deps.repo.adjustCompanyBalanceFn = func(ctx context.Context, cid string, d float64) error {
		delta = d
		return nil
	}
	deps.repo.setLastSalaryPaidAtFn = func(ctx context.Context, uid string, at time.Time) error {
		lastPaidUser = uid
		return nil
	}

	resp, err := deps.service.PaySalary(ctx, companyID.String(), company.RoleOwner, emp.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, 2500.0, resp.Amount)
	assert.Equal(t, payroll.PaymentTypeSalary, resp.PaymentType)

	// One EXPENSE transaction and one payment row, mutually referencing.
	assert.Equal(t, transaction.TypeExpense, createdTx.Type)
	assert.Equal(t, transaction.CategorySalary, createdTx.Category)
	assert.Equal(t, "Salary - Oleh Marchenko", createdTx.Description)
	assert.Equal(t, createdTx.ID, createdPayment.TransactionID)

	// Balance moves by exactly minus the amount.
	assert.Equal(t, -2500.0, delta)
	assert.Equal(t, emp.ID.String(), lastPaidUser)

	assert.Len(t, deps.outbox.created, 1)
	assert.Equal(t, events.SalaryPaidTopic, deps.outbox.created[0].Topic)

	var event events.SalaryPaidEvent
	assert.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &event))
	assert.Equal(t, 2500.0, event.Amount)
	assert.Equal(t, payroll.PaymentTypeSalary, event.PaymentType)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_PaySalary_DoubleInvocationPaysTwice(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	emp := employeeWithSalary(companyID, 2500)
	deps.repo.findEmployeeFn = func(ctx context.Context, cid, uid string) (*company.User, error) {
		return emp, nil
	}

	var createdTxs []*transaction.Transaction
	deps.repo.createTransactionFn = func(ctx context.Context, tr *transaction.Transaction) error {
		createdTxs = append(createdTxs, tr)
		return nil
	}
	var createdPayments []*payroll.SalaryPayment
	deps.repo.createSalaryPaymentFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
		createdPayments = append(createdPayments, p)
		return nil
	}
	var totalDelta float64
	deps.repo.adjustCompanyBalanceFn = func(ctx context.Context, cid string, delta float64) error {
		totalDelta += delta
		return nil
	}
	deps.repo.setLastSalaryPaidAtFn = func(ctx context.Context, uid string, at time.Time) error {
		paidAt := at
		emp.LastSalaryPaidAt = &paidAt
		return nil
	}

	// Manual salary payment carries no period guard. A repeated call within
	// the same month pays the employee again in full.
	_, err := deps.service.PaySalary(ctx, companyID.String(), company.RoleOwner, emp.ID.String())
	assert.NoError(t, err)
	_, err = deps.service.PaySalary(ctx, companyID.String(), company.RoleOwner, emp.ID.String())
	assert.NoError(t, err)

	assert.Len(t, createdTxs, 2)
	assert.Len(t, createdPayments, 2)
	assert.NotEqual(t, createdPayments[0].ID, createdPayments[1].ID)
	assert.Equal(t, -5000.0, totalDelta)
	assert.Len(t, deps.outbox.created, 2)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_PaySalary_NoSalarySet(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	emp := &company.User{ID: uuid.New(), CompanyID: &companyID, FullName: "No Salary"}
	deps.repo.findEmployeeFn = func(ctx context.Context, cid, uid string) (*company.User, error) {
		return emp, nil
	}

	_, err := deps.service.PaySalary(ctx, companyID.String(), company.RoleAdmin, emp.ID.String())

	assert.ErrorIs(t, err, payrollerrors.ErrNoSalarySet)

	// Paying an employee without a configured salary is a business-rule
	// violation, not bad input.
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_PaySalary_EmployeeRoleForbidden(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.PaySalary(ctx, uuid.New().String(), company.RoleEmployee, uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrNotOwnerOrAdmin)
}

func TestPayrollService_PayBonus(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	emp := employeeWithSalary(companyID, 2500)
	deps.repo.findEmployeeFn = func(ctx context.Context, cid, uid string) (*company.User, error) {
		return emp, nil
	}

	var createdTx *transaction.Transaction
	var lastPaidCalled bool
	deps.repo.createTransactionFn = func(ctx context.Context, tr *transaction.Transaction) error {
		createdTx = tr
		return nil
	}
	deps.repo.setLastSalaryPaidAtFn = func(ctx context.Context, uid string, at time.Time) error {
		lastPaidCalled = true
		return nil
	}

	resp, err := deps.service.PayBonus(ctx, companyID.String(), company.RoleOwner, emp.ID.String(), payroll.PayBonusRequest{Amount: 700})

	assert.NoError(t, err)
	assert.Equal(t, 700.0, resp.Amount)
	assert.Equal(t, payroll.PaymentTypeBonus, resp.PaymentType)
	assert.Equal(t, transaction.CategoryBonus, createdTx.Category)
	assert.Equal(t, "Bonus - Oleh Marchenko", createdTx.Description)

	// A bonus does not reset the monthly salary marker.
	assert.False(t, lastPaidCalled)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_SalaryHistory_EmployeeSelfOnly(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	self := uuid.New()
	other := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.findEmployeeFn = func(ctx context.Context, cid, uid string) (*company.User, error) {
		return &company.User{ID: self, CompanyID: &companyID}, nil
	}

	_, err := deps.service.SalaryHistory(ctx, companyID.String(), company.RoleEmployee, self.String(), other.String())
	assert.ErrorIs(t, err, payrollerrors.ErrSelfHistoryOnly)

	_, err = deps.service.SalaryHistory(ctx, companyID.String(), company.RoleEmployee, self.String(), self.String())
	assert.NoError(t, err)
}

func TestPayrollService_GenerateMonthlyExpenses(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.repo.getCompanyFn = func(ctx context.Context, cid string) (*company.Company, error) {
		return &company.Company{ID: companyID, RentAmount: 1200, UtilitiesAmount: 300}, nil
	}

	var gotBefore time.Time
	deps.repo.findAutoPayEmployeesFn = func(ctx context.Context, cid string, before time.Time) ([]company.User, error) {
		gotBefore = before
		return []company.User{*employeeWithSalary(companyID, 2000)}, nil
	}

	var categories []string
	deps.repo.createTransactionFn = func(ctx context.Context, tr *transaction.Transaction) error {
		categories = append(categories, tr.Category)
		return nil
	}

	var deltas []float64
	deps.repo.adjustCompanyBalanceFn = func(ctx context.Context, cid string, d float64) error {
		deltas = append(deltas, d)
		return nil
	}

	resp, err := deps.service.GenerateMonthlyExpenses(ctx, companyID.String(), company.RoleOwner)

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.SalariesPaid)
	assert.True(t, resp.RentCharged)
	assert.True(t, resp.UtilitiesCharged)
	assert.Equal(t, 3500.0, resp.TotalCharged)

	// Salaries already paid this month are filtered against the first instant
	// of the current month.
	now := time.Now()
	assert.Equal(t, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), gotBefore)

	assert.Equal(t, []string{transaction.CategoryRent, transaction.CategoryUtilities, transaction.CategorySalary}, categories)

	// One settlement for the whole run.
	assert.Equal(t, []float64{-3500.0}, deltas)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

// Re-running within the same month skips salaries (the roster query filters on
// the last-paid marker) but charges rent and utilities again.
func TestPayrollService_GenerateMonthlyExpenses_RerunRechargesRent(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.repo.getCompanyFn = func(ctx context.Context, cid string) (*company.Company, error) {
		return &company.Company{ID: companyID, RentAmount: 1200}, nil
	}
	deps.repo.findAutoPayEmployeesFn = func(ctx context.Context, cid string, before time.Time) ([]company.User, error) {
		return nil, nil
	}

	resp, err := deps.service.GenerateMonthlyExpenses(ctx, companyID.String(), company.RoleOwner)

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.SalariesPaid)
	assert.True(t, resp.RentCharged)
	assert.Equal(t, 1200.0, resp.TotalCharged)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_PaySalary_RollsBackOnPaymentFailure(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectRollback()

	emp := employeeWithSalary(companyID, 2500)
	deps.repo.findEmployeeFn = func(ctx context.Context, cid, uid string) (*company.User, error) {
		return emp, nil
	}
	deps.repo.createSalaryPaymentFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
		return assert.AnError
	}

	_, err := deps.service.PaySalary(ctx, companyID.String(), company.RoleOwner, emp.ID.String())

	assert.Error(t, err)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
