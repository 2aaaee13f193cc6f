package webdriver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestProvider_OpenAttachesToRunningBrowser(t *testing.T) {
	// Stand in for the operator's already-open browser.
	debugger, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { debugger.Close() })

	var gotOptions map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, http.StatusOK, map[string]any{"ready": true})
	})
	mux.HandleFunc("POST /session", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Capabilities struct {
				AlwaysMatch map[string]any `json:"alwaysMatch"`
			} `json:"capabilities"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotOptions, _ = body.Capabilities.AlwaysMatch["goog:chromeOptions"].(map[string]any)
		writeValue(w, http.StatusOK, map[string]any{"sessionId": "sess-attach"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	p := NewProvider(ProviderConfig{
		WebDriverURL:    server.URL,
		DebuggerAddress: debugger.Addr().String(),
	}, zerolog.Nop())

	session, err := p.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if session.(*Session).ID() != "sess-attach" {
		t.Errorf("session id = %q", session.(*Session).ID())
	}
	if gotOptions["debuggerAddress"] != debugger.Addr().String() {
		t.Errorf("chrome options = %v, want attach to %s", gotOptions, debugger.Addr().String())
	}
}

func TestProvider_OpenLaunchArgsWhenNoBrowser(t *testing.T) {
	var gotOptions map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, http.StatusOK, map[string]any{"ready": true})
	})
	mux.HandleFunc("POST /session", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Capabilities struct {
				AlwaysMatch map[string]any `json:"alwaysMatch"`
			} `json:"capabilities"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotOptions, _ = body.Capabilities.AlwaysMatch["goog:chromeOptions"].(map[string]any)
		writeValue(w, http.StatusOK, map[string]any{"sessionId": "sess-launch"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	p := NewProvider(ProviderConfig{
		WebDriverURL: server.URL,
		// Nothing listens on this port, so a fresh browser gets launched.
		DebuggerAddress:   "localhost:14001",
		ChromeUserDataDir: "/tmp/fwlookup-profile",
	}, zerolog.Nop())

	if _, err := p.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}

	args, _ := gotOptions["args"].([]any)
	want := map[string]bool{
		"--remote-debugging-port=14001":         false,
		"--user-data-dir=/tmp/fwlookup-profile": false,
	}
	for _, a := range args {
		if s, ok := a.(string); ok {
			if _, tracked := want[s]; tracked {
				want[s] = true
			}
		}
	}
	for arg, seen := range want {
		if !seen {
			t.Errorf("missing chrome arg %q in %v", arg, args)
		}
	}
}

func TestProvider_OpenFailsWithoutDriver(t *testing.T) {
	p := NewProvider(ProviderConfig{
		// Nothing answers here and no binary is configured.
		WebDriverURL: "http://127.0.0.1:1",
	}, zerolog.Nop())

	if _, err := p.Open(context.Background()); err == nil {
		t.Fatal("expected error with no driver and no binary")
	}
}
