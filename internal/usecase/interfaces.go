package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leastlogic/fwlookup/internal/domain"
)

// Locator identifies an element on the remote page using a WebDriver
// location strategy.
type Locator struct {
	Strategy string
	Value    string
}

// Location strategies understood by the session driver.
const (
	ByCSS      = "css selector"
	ByLinkText = "link text"
	ByXPath    = "xpath"
)

// ElementRef is an opaque handle to an element held by the remote session.
type ElementRef string

// BrowserSession drives one remote browser session. Implementations must
// honor context cancellation on every blocking call and map a disappeared
// window to domain.ErrSessionGone.
type BrowserSession interface {
	Navigate(ctx context.Context, url string) error
	// WaitClickable blocks until the located element is displayed and
	// enabled, or the timeout elapses (domain.ErrWaitTimeout).
	WaitClickable(ctx context.Context, loc Locator, timeout time.Duration) (ElementRef, error)
	Click(ctx context.Context, el ElementRef) error
	ElementText(ctx context.Context, loc Locator) (string, error)
	TableData(ctx context.Context, loc Locator) (*domain.ScrapedTable, error)
	Title(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// SessionProvider acquires a browser session, attaching to an already
// running one when possible.
type SessionProvider interface {
	Open(ctx context.Context) (BrowserSession, error)
}

// SecurityRepository defines ledger access for securities and their price
// snapshots.
type SecurityRepository interface {
	GetByTicker(ctx context.Context, ticker string) (*domain.Security, error)
	// SnapshotForDate returns the most recent snapshot dated at or before
	// dateInt, or domain.ErrSnapshotNotFound.
	SnapshotForDate(ctx context.Context, securityID int64, dateInt int) (*domain.PriceSnapshot, error)
	LatestSnapshot(ctx context.Context, securityID int64) (*domain.PriceSnapshot, error)
	SetSnapshot(ctx context.Context, securityID int64, dateInt int, rate decimal.Decimal) error
	SetRelativeRate(ctx context.Context, securityID int64, rate decimal.Decimal) error
}

// AccountRepository defines ledger access for accounts.
type AccountRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Account, error)
	GetSubAccountByName(ctx context.Context, parentID int64, name string) (*domain.Account, error)
	// CurrentBalance reports the account's balance as an exact decimal;
	// asset accounts aggregate their sub-accounts recursively.
	CurrentBalance(ctx context.Context, account *domain.Account) (decimal.Decimal, error)
}

// Presenter is the sink for everything the operator sees: advisory text,
// focus requests, and whether the commit action is available.
type Presenter interface {
	Display(msg string)
	ShowInFront()
	EnableCommit(enabled bool)
}
