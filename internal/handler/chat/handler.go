package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/planning"
	"github.com/zhouzirui/jashn-planner/backend/internal/service/assistant"
	chatService "github.com/zhouzirui/jashn-planner/backend/internal/service/chat"
	"github.com/zhouzirui/jashn-planner/backend/pkg/utils"
)

// Assistant produces the bot reply for a user message.
type Assistant interface {
	SendMessage(ctx context.Context, conv llm.Conversation, message string, loc *chat.Location) assistant.Result
}

// UserDirectory resolves the users allowed to open sessions.
type UserDirectory interface {
	FindUser(ctx context.Context, id string) (planning.User, bool)
}

// Handler 聊天服务的HTTP处理器，同时提供 REST 与 WebSocket 通道
type Handler struct {
	chatSvc   *chatService.Service
	assistant Assistant
	users     UserDirectory
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

// New 创建聊天处理器；未配置模型时 assistant 可以为 nil
func New(chatSvc *chatService.Service, assistant Assistant, users UserDirectory, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc:   chatSvc,
		assistant: assistant,
		users:     users,
		logger:    logger.Named("chat"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions/{sessionID}/messages", h.handleListMessages)
	r.Post("/sessions/{sessionID}/messages", h.handleSendMessage)
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type sendRequest struct {
	Text     string         `json:"text"`
	Location *chat.Location `json:"location,omitempty"`
}

type exchangeResponse struct {
	UserMessage chat.Message   `json:"userMessage"`
	Reply       chat.Message   `json:"reply"`
	Kind        assistant.Kind `json:"kind"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if h.users != nil {
		if _, ok := h.users.FindUser(r.Context(), payload.UserID); !ok {
			utils.RespondError(w, http.StatusBadRequest, "user not found")
			return
		}
	}

	session, transcript, err := h.chatSvc.CreateSession(r.Context(), payload.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.logger.Info("session created", zap.String("session", session.ID), zap.String("user", session.UserID))
	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"session":  session,
		"messages": transcript,
	})
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatSvc.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "assistant unavailable")
		return
	}

	var payload sendRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	userMsg, _, err := h.chatSvc.StartExchange(r.Context(), sessionID, payload.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	reply, kind, err := h.completeExchange(r.Context(), sessionID, userMsg.Text, payload.Location)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, exchangeResponse{
		UserMessage: userMsg,
		Reply:       reply,
		Kind:        kind,
	})
}

// completeExchange asks the assistant for a reply and swaps it in for the placeholder. The
// placeholder is resolved even if the caller went away.
func (h *Handler) completeExchange(ctx context.Context, sessionID, text string, loc *chat.Location) (chat.Message, assistant.Kind, error) {
	conv, err := h.chatSvc.Conversation(ctx, sessionID)
	if err != nil {
		return chat.Message{}, "", err
	}

	result := h.assistant.SendMessage(ctx, conv, text, loc)
	if result.Err != nil {
		h.logger.Warn("assistant fallback",
			zap.String("session", sessionID),
			zap.Error(result.Err))
	}

	reply, err := h.chatSvc.ResolveReply(context.WithoutCancel(ctx), sessionID, result.Message)
	if err != nil {
		return chat.Message{}, "", err
	}
	return reply, result.Kind, nil
}

func respondServiceError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	utils.RespondError(w, status, message)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, chatService.ErrReplyInFlight):
		return http.StatusConflict, err.Error()
	case errors.Is(err, chatService.ErrUserRequired), errors.Is(err, chatService.ErrEmptyMessage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, chatService.ErrConversationUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
