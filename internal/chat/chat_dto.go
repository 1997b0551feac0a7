package chat

import "time"

type SendMessageRequest struct {
	ChatID  string `json:"chat_id" binding:"omitempty,uuid"`
	Content string `json:"content" binding:"required,max=4000"`
}

type RenameRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

type ChatResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageResponse struct {
	ChatID string          `json:"chat_id"`
	Title  string          `json:"title"`
	Reply  MessageResponse `json:"reply"`
}
