package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, cfg ServerConfig) (*Server, *Console) {
	t.Helper()

	if cfg.Console == nil {
		cfg.Console = New(zerolog.Nop())
	}
	if cfg.Commit == nil {
		cfg.Commit = func(ctx context.Context) (string, error) { return "", nil }
	}
	if cfg.Cancel == nil {
		cfg.Cancel = func() {}
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.NewRegistry()
	}
	cfg.Addr = "127.0.0.1:0"

	return NewServer(cfg), cfg.Console
}

func TestConsole_PollDeliversNewMessages(t *testing.T) {
	c := New(zerolog.Nop())
	c.Display("first")
	c.Display("second")

	state := c.Poll(0)
	if len(state.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(state.Messages))
	}

	state = c.Poll(state.Messages[1].Seq)
	if len(state.Messages) != 0 {
		t.Errorf("expected no new messages, got %d", len(state.Messages))
	}

	c.Display("third")
	state = c.Poll(2)
	if len(state.Messages) != 1 || state.Messages[0].Text != "third" {
		t.Errorf("unexpected messages: %v", state.Messages)
	}
}

func TestConsole_FrontFlagResetsOnPoll(t *testing.T) {
	c := New(zerolog.Nop())
	c.ShowInFront()

	if state := c.Poll(0); !state.Front {
		t.Error("front flag not set")
	}
	if state := c.Poll(0); state.Front {
		t.Error("front flag not consumed")
	}
}

func TestServer_Messages(t *testing.T) {
	server, console := newTestServer(t, ServerConfig{Log: zerolog.Nop()})
	console.Display("FWIMP08: No new price data found.")
	console.EnableCommit(true)

	req := httptest.NewRequest(http.MethodGet, "/api/messages?since=0", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var state State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if len(state.Messages) != 1 || !state.CommitEnabled {
		t.Errorf("state = %+v", state)
	}
}

func TestServer_Commit(t *testing.T) {
	var committed bool
	server, console := newTestServer(t, ServerConfig{
		Commit: func(ctx context.Context) (string, error) {
			committed = true
			return "FWIMP07: Changed 2 security prices.", nil
		},
		Log: zerolog.Nop(),
	})
	console.EnableCommit(true)

	req := httptest.NewRequest(http.MethodPost, "/api/commit", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !committed {
		t.Error("commit handler not called")
	}
	if console.CommitEnabled() {
		t.Error("commit still enabled after success")
	}

	state := console.Poll(0)
	if len(state.Messages) != 1 || state.Messages[0].Text != "FWIMP07: Changed 2 security prices." {
		t.Errorf("messages = %v", state.Messages)
	}
}

func TestServer_CommitWithNothingStaged(t *testing.T) {
	server, _ := newTestServer(t, ServerConfig{
		Commit: func(ctx context.Context) (string, error) {
			t.Error("commit handler called with nothing staged")
			return "", nil
		},
		Log: zerolog.Nop(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/commit", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestServer_CommitFailureKeepsCommitOffered(t *testing.T) {
	server, console := newTestServer(t, ServerConfig{
		Commit: func(ctx context.Context) (string, error) {
			return "", errors.New("storing snapshot for PFORX: connection reset")
		},
		Log: zerolog.Nop(),
	})
	console.EnableCommit(true)

	req := httptest.NewRequest(http.MethodPost, "/api/commit", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	// The staged set survives a failed pass, so the action stays offered.
	if !console.CommitEnabled() {
		t.Error("commit no longer offered after failure")
	}
}

func TestServer_Cancel(t *testing.T) {
	var cancelled bool
	server, _ := newTestServer(t, ServerConfig{
		Cancel: func() { cancelled = true },
		Log:    zerolog.Nop(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/cancel", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if !cancelled {
		t.Error("cancel handler not called")
	}
}

func TestServer_Page(t *testing.T) {
	server, _ := newTestServer(t, ServerConfig{Log: zerolog.Nop()})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Commit Changes") {
		t.Error("page missing commit button")
	}
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "fwlookup_test_total"})
	reg.MustRegister(counter)
	counter.Inc()

	server, _ := newTestServer(t, ServerConfig{Gatherer: reg, Log: zerolog.Nop()})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "fwlookup_test_total 1") {
		t.Errorf("metrics body missing counter: %s", rec.Body.String())
	}
}
