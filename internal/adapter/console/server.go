package console

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ServerConfig holds dependencies for the console server.
type ServerConfig struct {
	// Addr should stay on a loopback interface: the console carries account
	// figures and is not authenticated.
	Addr    string
	Console *Console
	// Commit applies the staged price changes and returns the summary line to
	// show the operator.
	Commit func(ctx context.Context) (string, error)
	// Cancel stops the background run.
	Cancel   func()
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
}

// Server exposes the console over HTTP.
type Server struct {
	cfg  ServerConfig
	http *http.Server
}

// NewServer creates the console server with its routes mounted.
func NewServer(cfg ServerConfig) *Server {
	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.page)
	r.Route("/api", func(r chi.Router) {
		r.Get("/messages", s.messages)
		r.Post("/commit", s.commit)
		r.Post("/cancel", s.cancel)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start serves until Shutdown. It blocks.
func (s *Server) Start() error {
	s.cfg.Log.Info().Str("addr", s.cfg.Addr).Msg("console listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) messages(w http.ResponseWriter, r *http.Request) {
	since, _ := strconv.Atoi(r.URL.Query().Get("since"))
	writeJSON(w, http.StatusOK, s.cfg.Console.Poll(since))
}

func (s *Server) commit(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Console.CommitEnabled() {
		writeError(w, http.StatusConflict, "nothing staged", "no price changes are staged for commit")
		return
	}

	summary, err := s.cfg.Commit(r.Context())
	if err != nil {
		s.cfg.Log.Error().Err(err).Msg("commit failed")
		s.cfg.Console.Display(err.Error())
		writeError(w, http.StatusInternalServerError, "commit failed", err.Error())
		return
	}

	s.cfg.Console.EnableCommit(false)
	s.cfg.Console.Display(summary)
	writeJSON(w, http.StatusOK, map[string]string{"message": summary})
}

func (s *Server) cancel(w http.ResponseWriter, r *http.Request) {
	s.cfg.Cancel()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(pageHTML))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "message": details})
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Price Lookup</title>
<style>
body { font-family: sans-serif; margin: 1.5rem; max-width: 48rem; }
#log { border: 1px solid #ccc; padding: 0.5rem; min-height: 12rem; white-space: pre-wrap; }
button { margin-right: 0.5rem; padding: 0.4rem 1rem; }
button:disabled { opacity: 0.5; }
</style>
</head>
<body>
<h1>Price Lookup</h1>
<div id="log"></div>
<p>
<button id="commit" disabled>Commit Changes</button>
<button id="cancel">Cancel</button>
</p>
<script>
let since = 0;
const log = document.getElementById('log');
const commit = document.getElementById('commit');
const cancel = document.getElementById('cancel');

async function poll() {
  const resp = await fetch('/api/messages?since=' + since);
  const state = await resp.json();
  for (const m of state.messages || []) {
    log.textContent += m.text + '\n';
    since = m.seq;
  }
  commit.disabled = !state.commitEnabled;
  if (state.front) window.focus();
}

commit.addEventListener('click', async () => {
  commit.disabled = true;
  await fetch('/api/commit', {method: 'POST'});
  poll();
});
cancel.addEventListener('click', () => fetch('/api/cancel', {method: 'POST'}));

setInterval(poll, 1000);
poll();
</script>
</body>
</html>
`
