package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vidranorte/vitrine-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Atendimento — chat entre cliente/arquiteto e a equipe
// ============================================================

// GET /v1/chat
func getChatHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/chat")
		defer span.End()

		chat, err := svc.GetOrCreateChat(ctx, SessionFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, chat)
	}
}

// GET /v1/chat/{chatId}/messages
func listMessagesHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/chat/{chatId}/messages")
		defer span.End()

		chatID := chi.URLParam(r, "chatId")
		messages, err := svc.ListMessages(ctx, SessionFromContext(ctx), chatID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
	}
}

// POST /v1/chat/{chatId}/messages
func sendMessageHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/chat/{chatId}/messages")
		defer span.End()

		var body struct {
			Conteudo string `json:"conteudo"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		chatID := chi.URLParam(r, "chatId")
		msg, err := svc.SendMessage(ctx, SessionFromContext(ctx), chatID, body.Conteudo)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// GET /v1/dashboard/chats
func listChatsHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/chats")
		defer span.End()

		chats, err := svc.ListChats(ctx, SessionFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
	}
}
