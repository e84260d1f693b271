package port

import (
	"context"

	"github.com/vidranorte/vitrine-api/internal/domain"
)

// ChatStore is the chat/message table surface. Chats are keyed by
// (user id, role); messages come back ordered by creation ascending.
type ChatStore interface {
	GetChatByUser(ctx context.Context, userID string, role domain.Role) (*domain.Chat, error)
	CreateChat(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	ListChats(ctx context.Context) ([]domain.Chat, error)
	ListMessages(ctx context.Context, chatID string) ([]domain.ChatMessage, error)
	CreateMessage(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
}
