package transactionerrors

import (
	"net/http"

	"go-bizops/internal/shared/apperror"
)

var (
	ErrTransactionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Transaction not found",
		http.StatusNotFound,
	)

	ErrLinkedToPayroll = apperror.New(
		apperror.CodeForbidden,
		"Cannot delete salary or bonus payment. Use employees section to manage.",
		http.StatusForbidden,
	)

	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"Transaction type must be INCOME or EXPENSE",
		http.StatusBadRequest,
	)
)
