package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chewxy/math32"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cellar_thermostat/internal/models"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 2 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000
)

// wsEnvelope frames every message pushed to the client.
type wsEnvelope struct {
	Type  string     `json:"type"`
	Data  *wsReading `json:"data,omitempty"`
	Error string     `json:"error,omitempty"`
}

type wsReading struct {
	TempC float32          `json:"temp_c"`
	Range models.TempRange `json:"range"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConnect streams periodic sensor readings over a websocket. Each tick
// is a real sensor read and runs the same breach check as /temp, so a
// connected client keeps the thermostat monitoring on its own.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine handles control frames and detects disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// First reading goes out immediately.
	if err := h.sendReading(conn); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
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
			if err := h.sendReading(conn); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=5s or ?interval_ms=5000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
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
	return defaultInterval
}

// startReader drains incoming messages to handle control frames and
// detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// sendReading performs one sensor read and pushes it with the held range.
// A failed reading is pushed as an error envelope, never as a number.
func (h *Handler) sendReading(conn *websocket.Conn) error {
	t := h.services.Read()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if math32.IsNaN(t) {
		return conn.WriteJSON(wsEnvelope{Type: "reading", Error: errorBody})
	}
	h.services.Check(t)
	return conn.WriteJSON(wsEnvelope{Type: "reading", Data: &wsReading{
		TempC: t,
		Range: h.services.Current(),
	}})
}
