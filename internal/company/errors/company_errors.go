package companyerrors

import (
	"net/http"

	"go-bizops/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)

	ErrNotOwnerOrAdmin = apperror.New(
		apperror.CodeForbidden,
		"Only owner or admin can manage employees",
		http.StatusForbidden,
	)

	ErrCannotRemoveOwner = apperror.New(
		apperror.CodeForbidden,
		"Cannot remove company owner",
		http.StatusForbidden,
	)

	ErrInvalidTaxGroup = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown tax group",
		http.StatusBadRequest,
	)

	ErrInvalidRevenueFrequency = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown revenue frequency",
		http.StatusBadRequest,
	)

	ErrNegativeSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Monthly salary must be zero or positive",
		http.StatusBadRequest,
	)
)
