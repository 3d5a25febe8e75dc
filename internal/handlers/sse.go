package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/requestdata"
	"github.com/brightsteps/sessionscribe-backend/internal/sse"
)

// SSEHandler owns the live SSE connections, one per signed-in user. A new
// stream for the same user replaces the old one. Report-generation progress
// arrives on per-draft channels the frontend subscribes to.
type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub

	mu      sync.RWMutex
	clients map[uuid.UUID]*sse.SSEClient
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*sse.SSEClient),
	}
}

func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	userID := rd.UserID

	h.mu.Lock()
	if existing, ok := h.clients[userID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, userID)
	}
	client := h.hub.NewSSEClient(userID)
	h.clients[userID] = client
	h.mu.Unlock()

	// Streams opened with ?draft_id= start subscribed to that draft's
	// generation channel.
	if raw := c.Query("draft_id"); raw != "" {
		if draftID, err := uuid.Parse(raw); err == nil {
			h.hub.AddChannel(client, sse.ReportChannel(draftID))
		}
	}

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	// A newer stream for this user may already own the map slot; only
	// clear it when it is still ours.
	h.mu.Lock()
	if h.clients[userID] == client {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

func (h *SSEHandler) Subscribe(c *gin.Context) {
	h.changeSubscription(c, true)
}

func (h *SSEHandler) Unsubscribe(c *gin.Context) {
	h.changeSubscription(c, false)
}

func (h *SSEHandler) changeSubscription(c *gin.Context, subscribe bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		RespondError(c, http.StatusBadRequest, "invalid_channel", err)
		return
	}

	h.mu.RLock()
	client, exists := h.clients[rd.UserID]
	h.mu.RUnlock()
	if !exists {
		RespondError(c, http.StatusConflict, "no_active_stream", nil)
		return
	}

	if subscribe {
		h.hub.AddChannel(client, req.Channel)
		RespondOK(c, gin.H{"message": "subscribed", "channel": req.Channel})
		return
	}
	h.hub.RemoveChannel(client, req.Channel)
	RespondOK(c, gin.H{"message": "unsubscribed", "channel": req.Channel})
}
