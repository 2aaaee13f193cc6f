package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/leastlogic/fwlookup/internal/currency"
	"github.com/leastlogic/fwlookup/internal/domain"
)

// ScrapeState tracks where an extraction run is in its lifecycle.
type ScrapeState int

const (
	StateIdle ScrapeState = iota
	StateSessionOpening
	StateAwaitingLogin
	StatePlanSelected
	StateAwaitingHoldingsRender
	StateHoldingsDetailOpen
	StateScraping
	StateDone
	StateCancelled
	StateFailed
)

func (s ScrapeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSessionOpening:
		return "session_opening"
	case StateAwaitingLogin:
		return "awaiting_login"
	case StatePlanSelected:
		return "plan_selected"
	case StateAwaitingHoldingsRender:
		return "awaiting_holdings_render"
	case StateHoldingsDetailOpen:
		return "holdings_detail_open"
	case StateScraping:
		return "scraping"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Page locators for the holdings flow.
var (
	detailsLinkLocator   = Locator{ByCSS, "#holdings-section .show-details-link"}
	effectiveDateLocator = Locator{ByXPath, `//*[@id="modal-header--holdings"]/following-sibling::*`}
	holdingsTableLocator = Locator{ByCSS, "#holdingsTable"}
)

// ScraperConfig carries the page addresses and step timeouts for one
// extraction run.
type ScraperConfig struct {
	LoginURL     string
	PlanLinkText string
	// LoginTimeout bounds the wait for the operator to authenticate by hand.
	LoginTimeout time.Duration
	// RenderTimeout bounds page draws once authenticated.
	RenderTimeout time.Duration
	Currency      currency.Config
}

// Scraper drives a browser session through login, plan selection and the
// holdings detail view, then yields one Holding per scraped row pair.
type Scraper struct {
	provider  SessionProvider
	presenter Presenter
	cfg       ScraperConfig
	log       zerolog.Logger

	session BrowserSession
	state   ScrapeState
}

// NewScraper creates a Scraper. The session is acquired lazily by Open.
func NewScraper(provider SessionProvider, presenter Presenter, cfg ScraperConfig, log zerolog.Logger) *Scraper {
	return &Scraper{
		provider:  provider,
		presenter: presenter,
		cfg:       cfg,
		log:       log,
		state:     StateIdle,
	}
}

// State reports the current lifecycle state.
func (s *Scraper) State() ScrapeState { return s.state }

// Open acquires the browser session. Failure here is fatal for the run.
func (s *Scraper) Open(ctx context.Context) error {
	s.state = StateSessionOpening

	session, err := s.provider.Open(ctx)
	if err != nil {
		return s.fail(ctx, "open browser session", err)
	}
	s.session = session

	return nil
}

// NavigateToHoldings walks the session to the holdings detail view: open the
// log-in page, wait for the operator to authenticate, select the plan, then
// open the holdings details.
func (s *Scraper) NavigateToHoldings(ctx context.Context) error {
	if err := s.session.Navigate(ctx, s.cfg.LoginURL); err != nil {
		return s.fail(ctx, "open log-in page "+s.cfg.LoginURL, err)
	}

	s.state = StateAwaitingLogin
	planLink := Locator{ByLinkText, s.cfg.PlanLinkText}
	link, err := s.session.WaitClickable(ctx, planLink, s.cfg.LoginTimeout)
	if err != nil {
		return s.fail(ctx, "log-in", err)
	}
	s.presenter.ShowInFront()

	s.state = StatePlanSelected
	if err := s.session.Click(ctx, link); err != nil {
		return s.fail(ctx, "select plan link "+s.cfg.PlanLinkText, err)
	}

	s.state = StateAwaitingHoldingsRender
	link, err = s.session.WaitClickable(ctx, detailsLinkLocator, s.cfg.RenderTimeout)
	if err != nil {
		return s.fail(ctx, "render holdings details", err)
	}

	title, err := s.session.Title(ctx)
	if err != nil {
		return s.fail(ctx, "read page title", err)
	}
	s.log.Info().Str("title", title).Msg("holdings page rendered")
	s.presenter.Display(fmt.Sprintf("Obtaining price data from %s.", title))

	if err := s.session.Click(ctx, link); err != nil {
		return s.fail(ctx, "show holdings details", err)
	}
	s.state = StateHoldingsDetailOpen

	return nil
}

// Holdings yields one Holding per pair of table body rows: the first row of
// a pair names the fund, the second carries the data cells. The sequence is
// lazy and forward-only; the table is read once at first iteration.
func (s *Scraper) Holdings(ctx context.Context) iter.Seq2[domain.Holding, error] {
	return func(yield func(domain.Holding, error) bool) {
		text, err := s.session.ElementText(ctx, effectiveDateLocator)
		if err != nil {
			yield(domain.Holding{}, s.fail(ctx, "find effective date", err))
			return
		}
		effectiveDate, err := domain.ParseEffectiveDate(strings.TrimSpace(text))
		if err != nil {
			s.state = StateFailed
			yield(domain.Holding{}, fmt.Errorf("unable to parse effective date: %w", err))
			return
		}

		s.state = StateScraping
		table, err := s.session.TableData(ctx, holdingsTableLocator)
		if err != nil {
			yield(domain.Holding{}, s.fail(ctx, "find holdings table", err))
			return
		}

		for i := 0; i < len(table.Rows); i += 2 {
			if i+1 >= len(table.Rows) {
				s.state = StateFailed
				yield(domain.Holding{}, domain.ErrOddHoldingsRow)
				return
			}

			name := table.Rows[i].LinkText
			cells := table.CellMap(table.Rows[i+1])

			balance, err := s.parseCell(name, cells, domain.HeaderBalance)
			if err != nil {
				s.state = StateFailed
				yield(domain.Holding{}, err)
				return
			}
			shares, err := s.parseCell(name, cells, domain.HeaderShares)
			if err != nil {
				s.state = StateFailed
				yield(domain.Holding{}, err)
				return
			}

			if !yield(domain.NewHolding(name, balance, shares, effectiveDate), nil) {
				return
			}
		}
		s.state = StateDone
	}
}

// Close releases the browser session. Safe to call on any exit path.
func (s *Scraper) Close(ctx context.Context) {
	if s.session == nil {
		return
	}
	if err := s.session.Close(ctx); err != nil {
		s.log.Warn().Err(err).Msg("closing browser session")
	}
	s.session = nil
}

func (s *Scraper) parseCell(fund string, cells map[string]string, header string) (decimal.Decimal, error) {
	raw, ok := cells[header]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("unable to find %q column for %s", header, fund)
	}

	v, err := decimal.NewFromString(s.cfg.Currency.Delocalize(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unable to parse %q value %q for %s: %w", header, raw, fund, err)
	}

	return v, nil
}

// fail classifies a step failure. Cancellation and a vanished browser window
// are benign early termination; everything else is fatal and wrapped with
// the step description.
func (s *Scraper) fail(ctx context.Context, step string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		s.state = StateCancelled
		s.log.Info().Str("step", step).Msg("extraction cancelled")
		return context.Canceled
	}
	if errors.Is(err, domain.ErrSessionGone) {
		s.state = StateCancelled
		s.log.Info().Str("step", step).Msg("browser session gone")
		return domain.ErrSessionGone
	}

	s.state = StateFailed

	return fmt.Errorf("unable to %s: %w", step, err)
}
