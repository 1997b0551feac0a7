package taxerrors

import (
	"net/http"

	"go-bizops/internal/shared/apperror"
)

var (
	ErrNoMonths = apperror.New(
		apperror.CodeInvalidInput,
		"At least one month must be selected",
		http.StatusBadRequest,
	)

	ErrInvalidMonthKey = apperror.New(
		apperror.CodeInvalidInput,
		"Month keys must use the YYYY-MM format",
		http.StatusBadRequest,
	)

	ErrCurrentMonthNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"Cannot pay tax for the current month",
		http.StatusForbidden,
	)
)
