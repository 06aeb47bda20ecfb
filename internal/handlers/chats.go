package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"chat-frontend/internal/logging"
	"chat-frontend/internal/repository"
	"chat-frontend/pkg/models"
)

type chatEventPublisher interface {
	Publish(ctx context.Context, evt models.ChatEvent) error
}

type ChatHandler struct {
	chats  repository.ChatStore
	events chatEventPublisher
}

func NewChatHandler(chats repository.ChatStore, events chatEventPublisher) *ChatHandler {
	return &ChatHandler{chats: chats, events: events}
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.List(r.Context())
	if err != nil {
		internalError(w, r, err, "Failed to list chats")
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	chat, err := h.chats.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Chat not found", r))
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to load chat")
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ChatCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.UserID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"userId": "User ID is required"}, r))
		return
	}

	chat := &models.Chat{UserID: req.UserID}
	if req.Contents != nil {
		chat.Contents = *req.Contents
	}

	err := h.chats.Create(r.Context(), chat)
	if errors.Is(err, repository.ErrUnknownUser) {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"userId": "User does not exist"}, r))
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to create chat")
		return
	}

	h.publish(r, models.ChatEvent{Type: models.ChatEventCreated, ChatID: chat.ID, Chat: chat})
	writeJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req models.ChatUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	err := h.chats.UpdateContents(r.Context(), id, req.Contents)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Chat not found", r))
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to update chat")
		return
	}

	evt := models.ChatEvent{Type: models.ChatEventUpdated, ChatID: id}
	if chat, err := h.chats.GetByID(r.Context(), id); err == nil {
		evt.Chat = chat
	}
	h.publish(r, evt)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	err := h.chats.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Chat not found", r))
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to delete chat")
		return
	}

	h.publish(r, models.ChatEvent{Type: models.ChatEventDeleted, ChatID: id})
	w.WriteHeader(http.StatusNoContent)
}

// publish never fails the request: the change is already stored.
func (h *ChatHandler) publish(r *http.Request, evt models.ChatEvent) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(r.Context(), evt); err != nil {
		logger := logging.Ctx(r.Context())
		logger.Warn().Err(err).Str("event", evt.Type).Int("chat_id", evt.ChatID).Msg("failed to publish chat event")
	}
}
