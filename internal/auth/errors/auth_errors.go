package autherrors

import (
	"net/http"

	"go-bizops/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid login or password",
		http.StatusUnauthorized,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with this email or phone already exists",
		http.StatusConflict,
	)

	ErrInvalidInviteCode = apperror.New(
		apperror.CodeNotFound,
		"Invite code does not match any company",
		http.StatusNotFound,
	)

	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)

	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)

	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate token",
		http.StatusInternalServerError,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user id",
		http.StatusBadRequest,
	)

	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to perform this action",
		http.StatusForbidden,
	)

	ErrNoCompany = apperror.New(
		apperror.CodeForbidden,
		"User is not attached to a company",
		http.StatusForbidden,
	)
)
