package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// wsConn serializes writes; gorilla allows one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msgType, sessionID string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	transcript, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Info("websocket connected", zap.String("session", sessionID))

	// Pending replies finish after cancel so their placeholders are resolved before returning.
	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ws := &wsConn{conn: conn}

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go pingLoop(ctx, conn)

	if err := ws.send("connected", sessionID, map[string]any{"messages": transcript}); err != nil {
		h.logger.Warn("websocket write failed", zap.Error(err))
		return
	}

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.String("session", sessionID), zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(ws, sessionID, "session mismatch")
			continue
		}

		switch msg.Type {
		case "message":
			var req sendRequest
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				h.sendError(ws, sessionID, "invalid message payload")
				continue
			}
			h.handleChatMessage(ctx, ws, &wg, sessionID, req)
		default:
			h.sendError(ws, sessionID, "unsupported message type")
		}
	}
}

// handleChatMessage records the user message and placeholder right away and completes the reply in
// the background, so a second message while one is pending gets an error instead of queueing.
func (h *Handler) handleChatMessage(ctx context.Context, ws *wsConn, wg *sync.WaitGroup, sessionID string, req sendRequest) {
	if h.assistant == nil {
		h.sendError(ws, sessionID, "assistant unavailable")
		return
	}

	userMsg, placeholder, err := h.chatSvc.StartExchange(ctx, sessionID, req.Text)
	if err != nil {
		_, message := errorStatus(err)
		h.sendError(ws, sessionID, message)
		return
	}

	if err := ws.send("placeholder", sessionID, map[string]any{
		"userMessage": userMsg,
		"placeholder": placeholder,
	}); err != nil {
		h.logger.Warn("websocket write failed", zap.Error(err))
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		reply, kind, err := h.completeExchange(ctx, sessionID, userMsg.Text, req.Location)
		if err != nil {
			_, message := errorStatus(err)
			h.sendError(ws, sessionID, message)
			return
		}
		if err := ws.send("reply", sessionID, map[string]any{
			"message":    reply,
			"kind":       kind,
			"replacesId": chat.LoadingMessageID,
		}); err != nil {
			h.logger.Debug("websocket reply not delivered", zap.String("session", sessionID), zap.Error(err))
		}
	}()
}

func (h *Handler) sendError(ws *wsConn, sessionID, message string) {
	if err := ws.send("error", sessionID, map[string]string{"message": message}); err != nil {
		h.logger.Warn("websocket write error failed", zap.Error(err))
	}
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
