package chaterrors

import (
	"net/http"

	"go-bizops/internal/shared/apperror"
)

var (
	ErrChatNotFound = apperror.New(
		apperror.CodeNotFound,
		"Chat not found",
		http.StatusNotFound,
	)

	ErrAssistantUnavailable = apperror.New(
		apperror.CodeUpstreamError,
		"The assistant is temporarily unavailable",
		http.StatusBadGateway,
	)
)
