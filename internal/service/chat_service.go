package service

import (
	"context"
	"strings"

	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var chatTracer = otel.Tracer("service/chat")

// ChatService implements the customer/staff conversation flows. Each
// signed-in account owns at most one chat per role; staff see all of them.
type ChatService struct {
	store  port.ChatStore
	logger *zap.Logger
}

func NewChatService(store port.ChatStore, logger *zap.Logger) *ChatService {
	return &ChatService{store: store, logger: logger}
}

// GetOrCreateChat returns the session's chat, creating it on first access.
func (s *ChatService) GetOrCreateChat(ctx context.Context, session *domain.Session) (*domain.Chat, error) {
	ctx, span := chatTracer.Start(ctx, "ChatService.GetOrCreateChat")
	defer span.End()
	span.SetAttributes(attribute.String("chat.role", string(session.Role)))

	chat, err := s.store.GetChatByUser(ctx, session.UserID, session.Role)
	if err != nil {
		return nil, err
	}
	if chat != nil {
		return chat, nil
	}

	created, err := s.store.CreateChat(ctx, &domain.Chat{
		ID:     uuid.NewString(),
		UserID: session.UserID,
		Role:   session.Role,
		Nome:   session.Nome,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("chat created",
		zap.String("chat_id", created.ID),
		zap.String("role", string(session.Role)),
	)
	return created, nil
}

// ListMessages returns the chat's messages oldest first. Non-staff sessions
// can only read their own chat.
func (s *ChatService) ListMessages(ctx context.Context, session *domain.Session, chatID string) ([]domain.ChatMessage, error) {
	ctx, span := chatTracer.Start(ctx, "ChatService.ListMessages")
	defer span.End()

	if err := s.authorize(ctx, session, chatID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, chatID)
}

// SendMessage appends a message to the chat. Sender identity comes from
// the session, never from the request body.
func (s *ChatService) SendMessage(ctx context.Context, session *domain.Session, chatID, conteudo string) (*domain.ChatMessage, error) {
	ctx, span := chatTracer.Start(ctx, "ChatService.SendMessage")
	defer span.End()

	conteudo = strings.TrimSpace(conteudo)
	if conteudo == "" {
		return nil, &domain.ErrValidation{Field: "conteudo", Message: "Mensagem vazia."}
	}
	if err := s.authorize(ctx, session, chatID); err != nil {
		return nil, err
	}

	return s.store.CreateMessage(ctx, &domain.ChatMessage{
		ID:         uuid.NewString(),
		ChatID:     chatID,
		SenderRole: session.Role,
		SenderNome: session.Nome,
		Conteudo:   conteudo,
	})
}

// ListChats returns every open conversation for the staff inbox.
func (s *ChatService) ListChats(ctx context.Context, session *domain.Session) ([]domain.Chat, error) {
	ctx, span := chatTracer.Start(ctx, "ChatService.ListChats")
	defer span.End()

	if !session.Role.Staff() {
		return nil, &domain.ErrForbidden{Action: "listar conversas"}
	}
	return s.store.ListChats(ctx)
}

// authorize checks the session may touch chatID: staff may touch any chat,
// everyone else only the chat keyed to their own account.
func (s *ChatService) authorize(ctx context.Context, session *domain.Session, chatID string) error {
	if session.Role.Staff() {
		return nil
	}
	own, err := s.store.GetChatByUser(ctx, session.UserID, session.Role)
	if err != nil {
		return err
	}
	if own == nil || own.ID != chatID {
		return &domain.ErrForbidden{Action: "acessar esta conversa"}
	}
	return nil
}
