package payrollerrors

import (
	"net/http"

	"go-bizops/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)

	ErrNoSalarySet = apperror.New(
		apperror.CodeForbidden,
		"Employee has no monthly salary set",
		http.StatusForbidden,
	)

	ErrNotOwnerOrAdmin = apperror.New(
		apperror.CodeForbidden,
		"Only the owner or an administrator can run payroll",
		http.StatusForbidden,
	)

	ErrSelfHistoryOnly = apperror.New(
		apperror.CodeForbidden,
		"You can only view your own salary history",
		http.StatusForbidden,
	)
)
