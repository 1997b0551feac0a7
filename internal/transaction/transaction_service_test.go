package transaction_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-bizops/internal/transaction"
	transactionerrors "go-bizops/internal/transaction/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTransactionRepository struct {
	withTxFn               func(tx *sql.Tx) transaction.Repository
	createFn               func(ctx context.Context, t *transaction.Transaction) error
	findByIDAndCompanyFn   func(ctx context.Context, companyID, id string) (*transaction.Transaction, error)
	findPageFn             func(ctx context.Context, companyID string, archived bool, offset, limit int) ([]transaction.Transaction, int64, error)
	countSalaryPaymentsFn  func(ctx context.Context, transactionID string) (int64, error)
	deleteFn               func(ctx context.Context, id string) error
	archiveManyFn          func(ctx context.Context, companyID string, ids []string) (int64, error)
	adjustCompanyBalanceFn func(ctx context.Context, companyID string, delta float64) error
}

func (f *fakeTransactionRepository) WithTx(tx *sql.Tx) transaction.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeTransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeTransactionRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*transaction.Transaction, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTransactionRepository) FindPage(ctx context.Context, companyID string, archived bool, offset, limit int) ([]transaction.Transaction, int64, error) {
	if f.findPageFn != nil {
		return f.findPageFn(ctx, companyID, archived, offset, limit)
	}
	return nil, 0, nil
}

func (f *fakeTransactionRepository) CountSalaryPayments(ctx context.Context, transactionID string) (int64, error) {
	if f.countSalaryPaymentsFn != nil {
		return f.countSalaryPaymentsFn(ctx, transactionID)
	}
	return 0, nil
}

func (f *fakeTransactionRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeTransactionRepository) ArchiveMany(ctx context.Context, companyID string, ids []string) (int64, error) {
	if f.archiveManyFn != nil {
		return f.archiveManyFn(ctx, companyID, ids)
	}
	return int64(len(ids)), nil
}

func (f *fakeTransactionRepository) AdjustCompanyBalance(ctx context.Context, companyID string, delta float64) error {
	if f.adjustCompanyBalanceFn != nil {
		return f.adjustCompanyBalanceFn(ctx, companyID, delta)
	}
	return nil
}

type transactionServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service transaction.Service
	repo    *fakeTransactionRepository
}

func setupTransactionServiceTest(t *testing.T) *transactionServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeTransactionRepository{}
	svc := transaction.NewService(db, repo)

	return &transactionServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func TestTransactionService_Create_IncomeRaisesBalance(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupTransactionServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	var delta float64
	deps.repo.adjustCompanyBalanceFn = func(ctx context.Context, cid string, d float64) error {
		delta = d
		return nil
	}

	resp, err := deps.service.Create(ctx, companyID, transaction.CreateTransactionRequest{
		Amount:   1500,
		Type:     transaction.TypeIncome,
		Category: "Sales",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1500.0, resp.Amount)
	assert.Equal(t, 1500.0, delta)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTransactionService_Create_ExpenseLowersBalance(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupTransactionServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	var delta float64
	deps.repo.adjustCompanyBalanceFn = func(ctx context.Context, cid string, d float64) error {
		delta = d
		return nil
	}

	_, err := deps.service.Create(ctx, companyID, transaction.CreateTransactionRequest{
		Amount:   400,
		Type:     transaction.TypeExpense,
		Category: "Supplies",
		Date:     "2025-06-15",
	})

	assert.NoError(t, err)
	assert.Equal(t, -400.0, delta)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTransactionService_Delete_LinkedToPayrollForbidden(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	id := uuid.New()

	deps := setupTransactionServiceTest(t)
	defer deps.db.Close()

	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, tid string) (*transaction.Transaction, error) {
		return &transaction.Transaction{ID: id, Amount: 2500, Type: transaction.TypeExpense}, nil
	}
	deps.repo.countSalaryPaymentsFn = func(ctx context.Context, tid string) (int64, error) {
		return 1, nil
	}

	err := deps.service.Delete(ctx, companyID, id.String())

	assert.ErrorIs(t, err, transactionerrors.ErrLinkedToPayroll)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTransactionService_Delete_ReversesBalanceDelta(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	id := uuid.New()

	deps := setupTransactionServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()

	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, tid string) (*transaction.Transaction, error) {
		return &transaction.Transaction{ID: id, Amount: 900, Type: transaction.TypeIncome, Date: time.Now()}, nil
	}

	var delta float64
	deps.repo.adjustCompanyBalanceFn = func(ctx context.Context, cid string, d float64) error {
		delta = d
		return nil
	}

	err := deps.service.Delete(ctx, companyID, id.String())

	assert.NoError(t, err)
	// Deleting an INCOME row takes its amount back off the balance.
	assert.Equal(t, -900.0, delta)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestTransactionService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()

	deps := setupTransactionServiceTest(t)
	defer deps.db.Close()

	err := deps.service.Delete(ctx, uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, transactionerrors.ErrTransactionNotFound)
}

func TestTransactionService_List_Pagination(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupTransactionServiceTest(t)
	defer deps.db.Close()

	var gotOffset, gotLimit int
	deps.repo.findPageFn = func(ctx context.Context, cid string, archived bool, offset, limit int) ([]transaction.Transaction, int64, error) {
		gotOffset, gotLimit = offset, limit
		return []transaction.Transaction{{ID: uuid.New(), Amount: 10, Type: transaction.TypeIncome}}, 41, nil
	}

	items, total, err := deps.service.List(ctx, companyID, false, 3)

	assert.NoError(t, err)
	assert.Equal(t, int64(41), total)
	assert.Len(t, items, 1)
	assert.Equal(t, 40, gotOffset)
	assert.Equal(t, 20, gotLimit)
}

func TestTransactionService_Archive(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupTransactionServiceTest(t)
	defer deps.db.Close()

	count, err := deps.service.Archive(ctx, companyID, []string{uuid.New().String(), uuid.New().String()})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
