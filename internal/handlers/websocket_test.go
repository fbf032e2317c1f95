package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"amc_simulator/internal/models"
	"amc_simulator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

func TestParseInterval_ConfiguredDefault(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, WithReplayInterval(250*time.Millisecond))
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)
	if got := h.parseInterval(c); got != 250*time.Millisecond {
		t.Fatalf("got %v", got)
	}

	// Out-of-range options keep the built-in default.
	h = NewHandler(&service.Service{}, nil, WithReplayInterval(time.Minute))
	if got := h.parseInterval(c); got != defaultInterval {
		t.Fatalf("got %v", got)
	}
}

// --- websocket integration tests ---

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func newReplayServer(t *testing.T, gen *mockGeneration) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Generation: gen}, nil)
	r.GET("/ws", h.wsConnect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, query url.Values) string {
	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query.Encode()
	return u.String()
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestWebSocket_ReplaysRunInOrder(t *testing.T) {
	gen := &mockGeneration{
		run:     models.Run{ID: "r1", Total: 3},
		records: []models.SensorRecord{{No: 1}, {No: 2}, {No: 3}},
	}
	srv := newReplayServer(t, gen)

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(wsURL(srv, url.Values{"run_id": {"r1"}, "interval_ms": {"10"}}), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	env := readEnvelope(t, conn)
	if env.Type != wsTypeRun {
		t.Fatalf("first message %+v", env)
	}
	var run models.Run
	if err := json.Unmarshal(env.Data, &run); err != nil || run.ID != "r1" {
		t.Fatalf("run payload %s (%v)", env.Data, err)
	}

	for want := 1; want <= 3; want++ {
		env = readEnvelope(t, conn)
		var rec models.SensorRecord
		if env.Type != wsTypeRecord || json.Unmarshal(env.Data, &rec) != nil || rec.No != want {
			t.Fatalf("expected record %d, got %+v", want, env)
		}
	}

	env = readEnvelope(t, conn)
	if env.Type != wsTypeDone {
		t.Fatalf("expected done, got %+v", env)
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close, got %v", err)
	}
}

func TestWebSocket_StartsFromRecord(t *testing.T) {
	gen := &mockGeneration{
		run:     models.Run{ID: "r1"},
		records: []models.SensorRecord{{No: 1}, {No: 2}, {No: 3}},
	}
	srv := newReplayServer(t, gen)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, url.Values{"run_id": {"r1"}, "interval_ms": {"10"}, "from": {"3"}}), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	_ = readEnvelope(t, conn) // run
	env := readEnvelope(t, conn)
	var rec models.SensorRecord
	_ = json.Unmarshal(env.Data, &rec)
	if env.Type != wsTypeRecord || rec.No != 3 {
		t.Fatalf("expected record 3, got %+v", env)
	}
	if env = readEnvelope(t, conn); env.Type != wsTypeDone {
		t.Fatalf("expected done, got %+v", env)
	}
}

func TestWebSocket_HandshakeErrors(t *testing.T) {
	cases := []struct {
		name   string
		query  url.Values
		err    error
		status int
	}{
		{"missing run id", url.Values{}, nil, http.StatusBadRequest},
		{"bad from", url.Values{"run_id": {"r1"}, "from": {"0"}}, nil, http.StatusBadRequest},
		{"unknown run", url.Values{"run_id": {"nope"}}, fmt.Errorf("run nope: %w", service.ErrNotFound), http.StatusNotFound},
		{"load failure", url.Values{"run_id": {"r1"}}, errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newReplayServer(t, &mockGeneration{err: tc.err})
			dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
			conn, resp, err := dialer.Dial(wsURL(srv, tc.query), nil)
			if err == nil {
				conn.Close()
				t.Fatalf("expected handshake failure")
			}
			if !errors.Is(err, websocket.ErrBadHandshake) || resp == nil || resp.StatusCode != tc.status {
				code := 0
				if resp != nil {
					code = resp.StatusCode
				}
				t.Fatalf("err=%v status=%d want %d", err, code, tc.status)
			}
		})
	}
}
