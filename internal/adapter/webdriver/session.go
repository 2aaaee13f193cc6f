package webdriver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/leastlogic/fwlookup/internal/domain"
	"github.com/leastlogic/fwlookup/internal/usecase"
)

// pollInterval is the starting interval for element readiness polls.
const pollInterval = 250 * time.Millisecond

// Session is one remote browser session. It implements usecase.BrowserSession.
type Session struct {
	client *Client
	id     string
	log    zerolog.Logger
}

// ID returns the remote session identifier.
func (s *Session) ID() string { return s.id }

func (s *Session) path(parts ...string) string {
	return "/session/" + s.id + strings.Join(parts, "")
}

// Navigate loads the given URL in the session's window.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.client.do(ctx, http.MethodPost, s.path("/url"), map[string]string{"url": url}, nil)
}

func (s *Session) findElement(ctx context.Context, loc usecase.Locator) (usecase.ElementRef, error) {
	var found map[string]string
	body := map[string]string{"using": loc.Strategy, "value": loc.Value}
	if err := s.client.do(ctx, http.MethodPost, s.path("/element"), body, &found); err != nil {
		return "", err
	}

	id, ok := found[elementKey]
	if !ok {
		return "", fmt.Errorf("%w: response carried no element id", domain.ErrNoSuchElement)
	}

	return usecase.ElementRef(id), nil
}

// WaitClickable polls until the located element exists, is displayed and is
// enabled. Elapsing the timeout yields domain.ErrWaitTimeout; a vanished
// session or window stops the poll immediately.
func (s *Session) WaitClickable(ctx context.Context, loc usecase.Locator, timeout time.Duration) (usecase.ElementRef, error) {
	var el usecase.ElementRef

	poll := backoff.NewExponentialBackOff()
	poll.InitialInterval = pollInterval
	poll.MaxInterval = 2 * time.Second
	poll.MaxElapsedTime = timeout

	operation := func() error {
		found, err := s.findElement(ctx, loc)
		if err != nil {
			if errors.Is(err, domain.ErrNoSuchElement) {
				return err
			}
			return backoff.Permanent(err)
		}

		clickable, err := s.isClickable(ctx, found)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !clickable {
			return fmt.Errorf("element %s not yet clickable", loc.Value)
		}

		el = found
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(poll, ctx)); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, domain.ErrSessionGone) {
			return "", err
		}
		return "", fmt.Errorf("%w: waiting for %q: %v", domain.ErrWaitTimeout, loc.Value, err)
	}

	return el, nil
}

func (s *Session) isClickable(ctx context.Context, el usecase.ElementRef) (bool, error) {
	var displayed bool
	if err := s.client.do(ctx, http.MethodGet, s.path("/element/", string(el), "/displayed"), nil, &displayed); err != nil {
		return false, err
	}
	if !displayed {
		return false, nil
	}

	var enabled bool
	if err := s.client.do(ctx, http.MethodGet, s.path("/element/", string(el), "/enabled"), nil, &enabled); err != nil {
		return false, err
	}

	return enabled, nil
}

// Click clicks the element through script execution, which still lands when
// a sticky banner overlaps the element's click point.
func (s *Session) Click(ctx context.Context, el usecase.ElementRef) error {
	body := map[string]any{
		"script": "arguments[0].click();",
		"args":   []any{map[string]string{elementKey: string(el)}},
	}

	return s.client.do(ctx, http.MethodPost, s.path("/execute/sync"), body, nil)
}

// ElementText locates an element and returns its rendered text.
func (s *Session) ElementText(ctx context.Context, loc usecase.Locator) (string, error) {
	el, err := s.findElement(ctx, loc)
	if err != nil {
		return "", err
	}

	var text string
	if err := s.client.do(ctx, http.MethodGet, s.path("/element/", string(el), "/text"), nil, &text); err != nil {
		return "", err
	}

	return text, nil
}

// tableScript walks a table in the page: header texts from thead, one row per
// tbody tr with its first link's text and all cell texts. Reading the whole
// table in one round trip keeps the scrape well under the page's re-render
// cadence.
const tableScript = `
var t = arguments[0];
var headers = Array.prototype.map.call(
	t.querySelectorAll('thead th'),
	function (th) { return th.textContent.trim(); });
var rows = Array.prototype.map.call(
	t.querySelectorAll('tbody tr'),
	function (tr) {
		var a = tr.querySelector('a');
		return {
			linkText: a ? a.textContent.trim() : '',
			cells: Array.prototype.map.call(
				tr.querySelectorAll('td'),
				function (td) { return td.textContent.trim(); })
		};
	});
return {headers: headers, rows: rows};
`

// TableData locates a table element and extracts its headers and body rows.
func (s *Session) TableData(ctx context.Context, loc usecase.Locator) (*domain.ScrapedTable, error) {
	el, err := s.findElement(ctx, loc)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Headers []string `json:"headers"`
		Rows    []struct {
			LinkText string   `json:"linkText"`
			Cells    []string `json:"cells"`
		} `json:"rows"`
	}
	body := map[string]any{
		"script": tableScript,
		"args":   []any{map[string]string{elementKey: string(el)}},
	}
	if err := s.client.do(ctx, http.MethodPost, s.path("/execute/sync"), body, &raw); err != nil {
		return nil, err
	}

	table := &domain.ScrapedTable{Headers: raw.Headers}
	for _, row := range raw.Rows {
		table.Rows = append(table.Rows, domain.ScrapedRow{LinkText: row.LinkText, Cells: row.Cells})
	}

	return table, nil
}

// Title returns the current page title.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.client.do(ctx, http.MethodGet, s.path("/title"), nil, &title); err != nil {
		return "", err
	}

	return title, nil
}

// Close ends the remote session. The browser itself stays up when the
// session was attached to an operator-owned instance.
func (s *Session) Close(ctx context.Context) error {
	if err := s.client.do(ctx, http.MethodDelete, s.path(""), nil, nil); err != nil && !errors.Is(err, domain.ErrSessionGone) {
		return err
	}

	return nil
}
