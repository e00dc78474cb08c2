package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"labclimate/internal/models"
	"labclimate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 2 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

// Envelope types pushed to dashboard clients.
const (
	wsTypeState = "state"
	wsTypeLog   = "log"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Browsers cannot set headers on the upgrade request, so the token rides in the query.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Live dashboard stream
// @Description  Pushes "state" snapshots every interval and "log" batches with new entries.
// @Tags         system
// @Param        token        query  string  true   "Operator JWT"
// @Param        interval     query  string  false  "e.g. 500ms, max 10s"
// @Param        interval_ms  query  int     false  "Interval in milliseconds"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	if _, err := h.services.ParseToken(c.Query("token")); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken})
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	var lastSeen string

	// Send initial state and the whole log immediately.
	if lastSeen, err = h.sendUpdate(ctx, conn, lastSeen); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if lastSeen, err = h.sendUpdate(ctx, conn, lastSeen); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// entriesAfter returns the entries newer than the one with ID lastSeen.
// If lastSeen is gone (cleared or rolled off), everything is new.
func entriesAfter(entries []models.LogEntry, lastSeen string) []models.LogEntry {
	if lastSeen == "" {
		return entries
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].ID == lastSeen {
			return entries[i+1:]
		}
	}
	return entries
}

// Helper: sendUpdate writes the current state and any unseen log entries.
// It returns the ID of the newest entry sent so far.
func (h *Handler) sendUpdate(ctx context.Context, conn *websocket.Conn, lastSeen string) (string, error) {
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_state_failed", "err", err)
		}
		return lastSeen, err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: wsTypeState, Data: st}); err != nil {
		return lastSeen, err
	}

	if h.services.Journal == nil {
		return lastSeen, nil
	}
	entries, err := h.services.Journal.List(ctx, service.LogFilter{})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_logs_failed", "err", err)
		}
		return lastSeen, err
	}
	fresh := entriesAfter(entries, lastSeen)
	if len(fresh) == 0 {
		return lastSeen, nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: wsTypeLog, Data: fresh}); err != nil {
		return lastSeen, err
	}
	return fresh[len(fresh)-1].ID, nil
}
