package supabase

import (
	"context"
	"net/url"

	"github.com/vidranorte/vitrine-api/internal/domain"
)

// ============================================================
// ChatStore implementation — chats and messages via PostgREST
// ============================================================

// GetChatByUser finds the chat keyed by (user id, role). (nil, nil) when
// the user has no chat yet.
func (c *Client) GetChatByUser(ctx context.Context, userID string, role domain.Role) (*domain.Chat, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetChatByUser")
	defer span.End()

	path := "chats?user_id=eq." + url.QueryEscape(userID) + "&role=eq." + url.QueryEscape(string(role)) + "&limit=1"

	var chat *domain.Chat
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}
		chat, err = firstRow[domain.Chat](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/chats", Err: err}
	}
	return chat, nil
}

func (c *Client) CreateChat(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateChat")
	defer span.End()

	body, err := c.doPost(ctx, "chats", chat, "")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/chats", Err: err}
	}
	created, err := firstRow[domain.Chat](body)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return chat, nil
	}
	return created, nil
}

// ListChats returns every chat for the dashboard inbox, newest first.
func (c *Client) ListChats(ctx context.Context) ([]domain.Chat, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListChats")
	defer span.End()

	var chats []domain.Chat
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "chats?order=created_at.desc")
		if err != nil {
			return err
		}
		chats, err = decodeRows[domain.Chat](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/chats", Err: err}
	}
	return chats, nil
}

// ListMessages returns a chat's messages ordered by creation ascending.
func (c *Client) ListMessages(ctx context.Context, chatID string) ([]domain.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListMessages")
	defer span.End()

	path := "chat_messages?chat_id=eq." + url.QueryEscape(chatID) + "&order=created_at.asc"

	var msgs []domain.ChatMessage
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}
		msgs, err = decodeRows[domain.ChatMessage](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/chat_messages", Err: err}
	}
	return msgs, nil
}

func (c *Client) CreateMessage(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateMessage")
	defer span.End()

	body, err := c.doPost(ctx, "chat_messages", msg, "")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/chat_messages", Err: err}
	}
	created, err := firstRow[domain.ChatMessage](body)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return msg, nil
	}
	return created, nil
}
