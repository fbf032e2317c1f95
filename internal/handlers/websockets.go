package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

// Message types of the replay stream, in the order a client receives them.
const (
	wsTypeRun    = "run"
	wsTypeRecord = "record"
	wsTypeDone   = "done"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins via config once the dashboard host is fixed
}

// @Summary      Replay a run
// @Description  Upgrades to a WebSocket and streams the run metadata, then one record per tick, then a done message.
// @Tags         runs
// @Param        run_id       query  string  true   "Run ID"
// @Param        interval     query  string  false  "Tick as a duration, e.g. 500ms"
// @Param        interval_ms  query  int     false  "Tick in milliseconds"
// @Param        from         query  int     false  "1-based record number to start at"
// @Success      101
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	runID := strings.TrimSpace(c.Query("run_id"))
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_id is required"})
		return
	}
	start, err := queryInt(c, "from", 1)
	if err != nil || start < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a positive record number"})
		return
	}
	interval := h.parseInterval(c)

	// Load before upgrading so a missing run is a plain HTTP error.
	run, recs, err := h.services.Generation.AllRecords(c.Request.Context(), runID)
	if err != nil {
		h.respondError(c, err, "ws_load_run_failed", "run_id", runID)
		return
	}
	if start > len(recs) {
		start = len(recs) + 1
	}
	recs = recs[start-1:]

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

	if err := h.send(conn, wsEnvelope{Type: wsTypeRun, Data: run}); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err, "run_id", runID)
		}
		return
	}

	next := 0
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
			if next == len(recs) {
				h.finish(conn, runID, len(recs))
				return
			}
			if err := h.send(conn, wsEnvelope{Type: wsTypeRecord, Data: recs[next]}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "run_id", runID, "no", recs[next].No)
				}
				return
			}
			next++
		}
	}
}

// finish sends the done message and a normal close frame.
func (h *Handler) finish(conn *websocket.Conn, runID string, sent int) {
	if err := h.send(conn, wsEnvelope{Type: wsTypeDone, Data: gin.H{"run_id": runID, "sent": sent}}); err != nil {
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds,
// falling back to the configured replay interval.
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

	return h.replayInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
