package chat

import (
	"net/http"

	"go-bizops/internal/shared/apperror"
	"go-bizops/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetString("user_id")

	chats, err := h.service.ListChats(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, chats, nil)
}

func (h *Handler) Send(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
		return
	}

	resp, err := h.service.Send(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Messages(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")

	messages, err := h.service.Messages(c.Request.Context(), userID, chatID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, messages, nil)
}

func (h *Handler) Rename(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
		return
	}

	if err := h.service.Rename(c.Request.Context(), userID, chatID, req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"renamed": true}, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), userID, chatID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
