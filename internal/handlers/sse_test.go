package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsteps/sessionscribe-backend/internal/logger"
	"github.com/brightsteps/sessionscribe-backend/internal/requestdata"
	"github.com/brightsteps/sessionscribe-backend/internal/sse"
)

func sseTestHandler(t *testing.T) *SSEHandler {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatal(err)
	}
	return NewSSEHandler(log, sse.NewSSEHub(log))
}

func streamRequest(ctx context.Context, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/sse/stream", nil)
	ctx = requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: userID})
	return req.WithContext(ctx)
}

// runStream drives Stream on its own goroutine and reports any panic.
func runStream(ctx context.Context, h *SSEHandler, userID uuid.UUID) chan any {
	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = streamRequest(ctx, userID)
		h.Stream(c)
	}()
	return done
}

func (h *SSEHandler) liveClient(userID uuid.UUID) (*sse.SSEClient, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[userID]
	return client, ok
}

// Opening a second stream for the same user replaces the first. The
// replaced stream's cleanup must neither panic nor unregister the stream
// that replaced it.
func TestStreamReplacementKeepsNewStreamRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := sseTestHandler(t)
	userID := uuid.New()

	firstDone := runStream(context.Background(), h, userID)

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := h.liveClient(userID); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first stream never registered")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	secondCtx, cancelSecond := context.WithCancel(context.Background())
	defer cancelSecond()
	secondDone := runStream(secondCtx, h, userID)

	select {
	case p := <-firstDone:
		if p != nil {
			t.Fatalf("replaced stream panicked: %v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("replaced stream did not exit")
	}

	if _, ok := h.liveClient(userID); !ok {
		t.Fatal("live stream lost its registration after the old stream's cleanup")
	}

	cancelSecond()
	select {
	case p := <-secondDone:
		if p != nil {
			t.Fatalf("live stream panicked: %v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("live stream did not exit after cancel")
	}

	if _, ok := h.liveClient(userID); ok {
		t.Fatal("client entry not cleared after the live stream closed")
	}
}
