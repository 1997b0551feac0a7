package chat_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-bizops/internal/chat"
	chaterrors "go-bizops/internal/chat/errors"
	"go-bizops/internal/chat/gemini"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeChatRepository struct {
	chats    map[string]*chat.Chat
	messages map[string][]chat.Message

	findChatsFn func(ctx context.Context, userID string) ([]chat.ChatWithPreview, error)
}

func newFakeChatRepository() *fakeChatRepository {
	return &fakeChatRepository{
		chats:    map[string]*chat.Chat{},
		messages: map[string][]chat.Message{},
	}
}

func (f *fakeChatRepository) FindChats(ctx context.Context, userID string) ([]chat.ChatWithPreview, error) {
	if f.findChatsFn != nil {
		return f.findChatsFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeChatRepository) FindChat(ctx context.Context, userID, chatID string) (*chat.Chat, error) {
	c, ok := f.chats[chatID]
	if !ok || c.UserID.String() != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeChatRepository) CreateChat(ctx context.Context, c *chat.Chat) error {
	f.chats[c.ID.String()] = c
	return nil
}

func (f *fakeChatRepository) UpdateTitle(ctx context.Context, chatID, title string) error {
	if c, ok := f.chats[chatID]; ok {
		c.Title = title
	}
	return nil
}

func (f *fakeChatRepository) TouchChat(ctx context.Context, chatID string, at time.Time) error {
	if c, ok := f.chats[chatID]; ok {
		c.UpdatedAt = at
	}
	return nil
}

func (f *fakeChatRepository) DeleteChat(ctx context.Context, chatID string) error {
	delete(f.chats, chatID)
	delete(f.messages, chatID)
	return nil
}

func (f *fakeChatRepository) CreateMessage(ctx context.Context, m *chat.Message) error {
	f.messages[m.ChatID.String()] = append(f.messages[m.ChatID.String()], *m)
	return nil
}

func (f *fakeChatRepository) FindMessages(ctx context.Context, chatID string) ([]chat.Message, error) {
	return f.messages[chatID], nil
}

func (f *fakeChatRepository) FindRecentMessages(ctx context.Context, chatID string, limit int) ([]chat.Message, error) {
	msgs := f.messages[chatID]
	out := make([]chat.Message, 0, limit)
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}
	return out, nil
}

func modelServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *gemini.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := gemini.NewClient("test-key", "gemini-2.0-flash").WithBaseURL(server.URL)
	return server, client
}

func replyWith(w http.ResponseWriter, text string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			}},
		},
	})
}

func TestChatService_Send_NewChat(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	var calls atomic.Int32
	server, client := modelServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			replyWith(w, "Track income and expenses separately.")
			return
		}
		replyWith(w, "Bookkeeping basics")
	})
	defer server.Close()

	repo := newFakeChatRepository()
	svc := chat.NewService(repo, client)

	resp, err := svc.Send(ctx, userID.String(), chat.SendMessageRequest{Content: "How do I start bookkeeping?"})

	assert.NoError(t, err)
	assert.Equal(t, "Track income and expenses separately.", resp.Reply.Content)
	assert.Equal(t, chat.RoleModel, resp.Reply.Role)

	// Both the user message and the model reply are persisted.
	msgs := repo.messages[resp.ChatID]
	assert.Len(t, msgs, 2)
	assert.Equal(t, chat.RoleUser, msgs[0].Role)
	assert.Equal(t, chat.RoleModel, msgs[1].Role)

	// New chats get a generated title.
	assert.Equal(t, "Bookkeeping basics", resp.Title)
	assert.Equal(t, "Bookkeeping basics", repo.chats[resp.ChatID].Title)
}

func TestChatService_Send_TitleFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	var calls atomic.Int32
	server, client := modelServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			replyWith(w, "Open a separate bank account.")
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer server.Close()

	repo := newFakeChatRepository()
	svc := chat.NewService(repo, client)

	resp, err := svc.Send(ctx, userID.String(), chat.SendMessageRequest{Content: "Any tips?"})

	assert.NoError(t, err)
	assert.Equal(t, "Open a separate bank account.", resp.Reply.Content)
	assert.Equal(t, "New chat", resp.Title)
}

func TestChatService_Send_PrimaryFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	server, client := modelServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer server.Close()

	repo := newFakeChatRepository()
	svc := chat.NewService(repo, client)

	_, err := svc.Send(ctx, userID.String(), chat.SendMessageRequest{Content: "Hello?"})

	assert.ErrorIs(t, err, chaterrors.ErrAssistantUnavailable)
}

func TestChatService_Send_ExistingChatKeepsHistoryOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	chatID := uuid.New()

	var gotContents []map[string]any
	server, client := modelServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, c := range body["contents"].([]any) {
			gotContents = append(gotContents, c.(map[string]any))
		}
		replyWith(w, "Sure.")
	})
	defer server.Close()

	repo := newFakeChatRepository()
	repo.chats[chatID.String()] = &chat.Chat{ID: chatID, UserID: userID, Title: "Taxes"}
	repo.messages[chatID.String()] = []chat.Message{
		{ID: uuid.New(), ChatID: chatID, Role: chat.RoleUser, Content: "first"},
		{ID: uuid.New(), ChatID: chatID, Role: chat.RoleModel, Content: "second"},
	}

	svc := chat.NewService(repo, client)

	_, err := svc.Send(ctx, userID.String(), chat.SendMessageRequest{ChatID: chatID.String(), Content: "third"})

	assert.NoError(t, err)
	// History goes to the model oldest first, ending with the new message.
	assert.Len(t, gotContents, 3)
	assert.Equal(t, "first", partText(gotContents[0]))
	assert.Equal(t, "second", partText(gotContents[1]))
	assert.Equal(t, "third", partText(gotContents[2]))
}

func TestChatService_OwnerChecks(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()
	chatID := uuid.New()

	server, client := modelServer(t, func(w http.ResponseWriter, r *http.Request) {
		replyWith(w, "ok")
	})
	defer server.Close()

	repo := newFakeChatRepository()
	repo.chats[chatID.String()] = &chat.Chat{ID: chatID, UserID: owner, Title: "Private"}

	svc := chat.NewService(repo, client)

	_, err := svc.Messages(ctx, intruder.String(), chatID.String())
	assert.ErrorIs(t, err, chaterrors.ErrChatNotFound)

	err = svc.Rename(ctx, intruder.String(), chatID.String(), chat.RenameRequest{Title: "Mine now"})
	assert.ErrorIs(t, err, chaterrors.ErrChatNotFound)

	err = svc.Delete(ctx, intruder.String(), chatID.String())
	assert.ErrorIs(t, err, chaterrors.ErrChatNotFound)

	err = svc.Delete(ctx, owner.String(), chatID.String())
	assert.NoError(t, err)
	assert.Empty(t, repo.chats)
}

func partText(content map[string]any) string {
	parts := content["parts"].([]any)
	return parts[0].(map[string]any)["text"].(string)
}
