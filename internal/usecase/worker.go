package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/leastlogic/fwlookup/internal/domain"
	"github.com/leastlogic/fwlookup/internal/infrastructure/metrics"
)

// closeTimeout bounds session teardown once the run itself is over.
const closeTimeout = 15 * time.Second

// Worker runs one extraction-and-reconciliation pass on a background
// goroutine: acquire the session, navigate, scrape, reconcile. The staged
// session is handed off read-only once the run ends. Stop cancels the run
// and joins the goroutine before the staged results are discarded, so
// teardown never races an in-flight page read.
type Worker struct {
	scraper   *Scraper
	importer  *Importer
	presenter Presenter
	metrics   *metrics.Metrics
	log       zerolog.Logger
	runID     string

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	session  *Session
	modified bool
}

// NewWorker creates a Worker for a single run. Workers are not reusable.
func NewWorker(scraper *Scraper, importer *Importer, presenter Presenter, m *metrics.Metrics, log zerolog.Logger) *Worker {
	runID := ulid.Make().String()

	return &Worker{
		scraper:   scraper,
		importer:  importer,
		presenter: presenter,
		metrics:   m,
		log:       log.With().Str("run_id", runID).Logger(),
		runID:     runID,
		done:      make(chan struct{}),
	}
}

// RunID identifies this run in logs and metrics.
func (w *Worker) RunID() string { return w.runID }

// Start launches the background run. It returns immediately.
func (w *Worker) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	go w.run(runCtx)
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	started := time.Now()
	w.metrics.RunsStarted.Inc()
	defer func() {
		w.metrics.RunDuration.Observe(time.Since(started).Seconds())
	}()

	// The session must be released on every exit path, even after
	// cancellation, so teardown uses a detached context.
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		w.scraper.Close(closeCtx)
	}()

	if err := w.scraper.Open(ctx); err != nil {
		w.finish(err)
		return
	}
	if err := w.scraper.NavigateToHoldings(ctx); err != nil {
		w.finish(err)
		return
	}

	session, err := w.importer.ImportPrices(ctx, w.scraper.Holdings(ctx))
	w.session = session
	w.finish(err)
}

func (w *Worker) finish(err error) {
	switch {
	case err == nil:
		w.metrics.RunsSucceeded.Inc()
		w.log.Info().Stringer("state", w.scraper.State()).Msg("run finished")
	case errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrSessionGone):
		w.metrics.RunsCancelled.Inc()
		w.log.Info().Stringer("state", w.scraper.State()).Msg("run ended early")
	default:
		w.metrics.RunsFailed.Inc()
		w.log.Error().Err(err).Stringer("state", w.scraper.State()).Msg("run failed")
		w.presenter.Display(err.Error())
	}

	w.modified = w.session != nil && w.session.IsModified()
	if w.modified {
		w.metrics.PricesStaged.Add(float64(w.session.Count()))
	}
	w.presenter.EnableCommit(w.modified)
}

// Stop cancels the run, waits for the background goroutine to finish, then
// discards any staged changes without applying them. Stopping a worker that
// never started is a no-op: with no run in flight there is nothing to join.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	<-w.done

	if w.session != nil {
		w.session.Forget()
	}
}

// Done is closed when the background run has fully stopped.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Session returns the staged-change session of the finished run, or nil when
// the run never reached reconciliation. Callers must not use it before Done.
func (w *Worker) Session() *Session { return w.session }

// Modified reports whether the finished run staged any changes.
func (w *Worker) Modified() bool { return w.modified }
