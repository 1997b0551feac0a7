package chat

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const historyWindow = 10

type ChatWithPreview struct {
	Chat
	Preview string
}

//go:generate mockgen -source=chat_repo.go -destination=mock/chat_repo_mock.go -package=mock
type Repository interface {
	FindChats(ctx context.Context, userID string) ([]ChatWithPreview, error)
	FindChat(ctx context.Context, userID, chatID string) (*Chat, error)
	CreateChat(ctx context.Context, c *Chat) error
	UpdateTitle(ctx context.Context, chatID, title string) error
	TouchChat(ctx context.Context, chatID string, at time.Time) error
	DeleteChat(ctx context.Context, chatID string) error
	CreateMessage(ctx context.Context, m *Message) error
	FindMessages(ctx context.Context, chatID string) ([]Message, error)
	FindRecentMessages(ctx context.Context, chatID string, limit int) ([]Message, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindChats(ctx context.Context, userID string) ([]ChatWithPreview, error) {
	var chats []ChatWithPreview
	err := r.db.WithContext(ctx).
		Model(&Chat{}).
		Select("chats.*, COALESCE((SELECT content FROM messages m WHERE m.chat_id = chats.id ORDER BY m.created_at ASC LIMIT 1), '') AS preview").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Scan(&chats).Error
	return chats, err
}

func (r *repository) FindChat(ctx context.Context, userID, chatID string) (*Chat, error) {
	var c Chat
	err := r.db.WithContext(ctx).
		First(&c, "id = ? AND user_id = ?", chatID, userID).Error
	return &c, err
}

func (r *repository) CreateChat(ctx context.Context, c *Chat) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) UpdateTitle(ctx context.Context, chatID, title string) error {
	return r.db.WithContext(ctx).
		Model(&Chat{}).
		Where("id = ?", chatID).
		Update("title", title).Error
}

func (r *repository) TouchChat(ctx context.Context, chatID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Chat{}).
		Where("id = ?", chatID).
		Update("updated_at", at).Error
}

func (r *repository) DeleteChat(ctx context.Context, chatID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Message{}, "chat_id = ?", chatID).Error; err != nil {
			return err
		}
		return tx.Delete(&Chat{}, "id = ?", chatID).Error
	})
}

func (r *repository) CreateMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) FindMessages(ctx context.Context, chatID string) ([]Message, error) {
	var messages []Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *repository) FindRecentMessages(ctx context.Context, chatID string, limit int) ([]Message, error) {
	var messages []Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
