package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	chaterrors "go-bizops/internal/chat/errors"
	"go-bizops/internal/chat/gemini"
	"go-bizops/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const systemInstruction = "You are a helpful assistant for small-business owners. " +
	"Answer questions about bookkeeping, payroll, taxes and day-to-day operations. " +
	"Keep answers short and practical. If a question needs a licensed accountant " +
	"or lawyer, say so."

const titleInstruction = "Summarize the user's message as a chat title of at " +
	"most five words. Reply with the title only, no quotes."

type Service interface {
	ListChats(ctx context.Context, userID string) ([]ChatResponse, error)
	Messages(ctx context.Context, userID, chatID string) ([]MessageResponse, error)
	Send(ctx context.Context, userID string, req SendMessageRequest) (*SendMessageResponse, error)
	Rename(ctx context.Context, userID, chatID string, req RenameRequest) error
	Delete(ctx context.Context, userID, chatID string) error
}

type service struct {
	repo   Repository
	model  *gemini.Client
	logger *zap.Logger
}

func NewService(repo Repository, model *gemini.Client) Service {
	return &service{
		repo:   repo,
		model:  model,
		logger: zap.L().Named("chat.service"),
	}
}

func (s *service) ListChats(ctx context.Context, userID string) ([]ChatResponse, error) {
	chats, err := s.repo.FindChats(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list chats", 500)
	}

	out := make([]ChatResponse, 0, len(chats))
	for _, c := range chats {
		out = append(out, ChatResponse{
			ID:        c.ID.String(),
			Title:     c.Title,
			Preview:   c.Preview,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return out, nil
}

func (s *service) Messages(ctx context.Context, userID, chatID string) ([]MessageResponse, error) {
	if _, err := s.repo.FindChat(ctx, userID, chatID); err != nil {
		return nil, mapChatNotFound(err)
	}

	messages, err := s.repo.FindMessages(ctx, chatID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load messages", 500)
	}

	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, toMessageResponse(&messages[i]))
	}
	return out, nil
}

func (s *service) Send(ctx context.Context, userID string, req SendMessageRequest) (*SendMessageResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "invalid user id", 400)
	}

	var (
		conv    *Chat
		isNew   bool
		history []Message
	)

	if req.ChatID != "" {
		conv, err = s.repo.FindChat(ctx, userID, req.ChatID)
		if err != nil {
			return nil, mapChatNotFound(err)
		}
		history, err = s.repo.FindRecentMessages(ctx, req.ChatID, historyWindow)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load history", 500)
		}
	} else {
		conv = &Chat{ID: uuid.New(), UserID: uid, Title: "New chat"}
		if err := s.repo.CreateChat(ctx, conv); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to create chat", 500)
		}
		isNew = true
	}

	userMsg := &Message{
		ID:      uuid.New(),
		ChatID:  conv.ID,
		Role:    RoleUser,
		Content: req.Content,
	}
	if err := s.repo.CreateMessage(ctx, userMsg); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to save message", 500)
	}

	replyText, err := s.model.Generate(ctx, systemInstruction, buildContents(history, req.Content))
	if err != nil {
		s.logger.Warn("model call failed",
			zap.String("chat_id", conv.ID.String()),
			zap.Error(err),
		)
		return nil, chaterrors.ErrAssistantUnavailable
	}

	modelMsg := &Message{
		ID:      uuid.New(),
		ChatID:  conv.ID,
		Role:    RoleModel,
		Content: replyText,
	}
	if err := s.repo.CreateMessage(ctx, modelMsg); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to save reply", 500)
	}
	if err := s.repo.TouchChat(ctx, conv.ID.String(), time.Now()); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update chat", 500)
	}

	// Title generation is best effort. A failure keeps the placeholder title.
	if isNew {
		s.generateTitle(ctx, conv.ID.String(), req.Content, &conv.Title)
	}

	return &SendMessageResponse{
		ChatID: conv.ID.String(),
		Title:  conv.Title,
		Reply:  toMessageResponse(modelMsg),
	}, nil
}

func (s *service) Rename(ctx context.Context, userID, chatID string, req RenameRequest) error {
	if _, err := s.repo.FindChat(ctx, userID, chatID); err != nil {
		return mapChatNotFound(err)
	}
	if err := s.repo.UpdateTitle(ctx, chatID, req.Title); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to rename chat", 500)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID, chatID string) error {
	if _, err := s.repo.FindChat(ctx, userID, chatID); err != nil {
		return mapChatNotFound(err)
	}
	if err := s.repo.DeleteChat(ctx, chatID); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to delete chat", 500)
	}
	return nil
}

func (s *service) generateTitle(ctx context.Context, chatID, firstMessage string, title *string) {
	generated, err := s.model.Generate(ctx, titleInstruction, []gemini.Content{
		{Role: RoleUser, Parts: []gemini.Part{{Text: firstMessage}}},
	})
	if err != nil {
		s.logger.Debug("title generation failed", zap.String("chat_id", chatID), zap.Error(err))
		return
	}

	generated = strings.TrimSpace(generated)
	if generated == "" {
		return
	}
	if err := s.repo.UpdateTitle(ctx, chatID, generated); err != nil {
		s.logger.Debug("title update failed", zap.String("chat_id", chatID), zap.Error(err))
		return
	}
	*title = generated
}

// buildContents converts the recent history, fetched newest first, into the
// chronological contents list the model expects, ending with the new message.
func buildContents(history []Message, newMessage string) []gemini.Content {
	contents := make([]gemini.Content, 0, len(history)+1)
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		contents = append(contents, gemini.Content{
			Role:  m.Role,
			Parts: []gemini.Part{{Text: m.Content}},
		})
	}
	contents = append(contents, gemini.Content{
		Role:  RoleUser,
		Parts: []gemini.Part{{Text: newMessage}},
	})
	return contents
}

func mapChatNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return chaterrors.ErrChatNotFound
	}
	return apperror.Wrap(err, apperror.CodeInternalError, "database error", 500)
}

func toMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID.String(),
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
