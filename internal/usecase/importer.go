package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/leastlogic/fwlookup/internal/currency"
	"github.com/leastlogic/fwlookup/internal/domain"
)

// Importer reconciles scraped holdings against the ledger's price history.
// It never writes to the store itself: warranted price updates are staged in
// a Session and applied only on explicit commit. Consistency mismatches and
// lookup misses degrade to advisory messages for the operator.
type Importer struct {
	securities  SecurityRepository
	accounts    AccountRepository
	presenter   Presenter
	cur         currency.Config
	accountName string
	log         zerolog.Logger
}

// NewImporter creates an Importer. accountName names the investment account
// whose balances are verified against the scraped figures.
func NewImporter(
	securities SecurityRepository,
	accounts AccountRepository,
	presenter Presenter,
	cur currency.Config,
	accountName string,
	log zerolog.Logger,
) *Importer {
	return &Importer{
		securities:  securities,
		accounts:    accounts,
		presenter:   presenter,
		cur:         cur,
		accountName: accountName,
		log:         log,
	}
}

// ImportPrices consumes the holdings sequence in arrival order and returns
// the session of staged changes. Holding-sequence errors and store failures
// end the pass; everything the operator should review is emitted through the
// presenter as it is discovered.
func (imp *Importer) ImportPrices(ctx context.Context, holdings iter.Seq2[domain.Holding, error]) (*Session, error) {
	session := NewSession()

	account, err := imp.accounts.GetByName(ctx, imp.accountName)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		imp.presenter.Display(fmt.Sprintf(
			"FWIMP05: Unable to obtain investment account named %s.", imp.accountName))
		account = nil
	case err != nil:
		return session, err
	}

	dates := make(map[int]time.Time)

	for holding, err := range holdings {
		if err != nil {
			return session, err
		}

		security, err := imp.securities.GetByTicker(ctx, holding.Ticker)
		switch {
		case errors.Is(err, domain.ErrSecurityNotFound):
			if err := imp.verifyAccountBalance(ctx, account, holding); err != nil {
				return session, err
			}
		case err != nil:
			return session, err
		default:
			if err := imp.stagePriceIfChanged(ctx, session, security, holding); err != nil {
				return session, err
			}
			if err := imp.verifyShareBalance(ctx, account, security, holding.Shares); err != nil {
				return session, err
			}
		}

		dates[holding.EffectiveDateInt()] = holding.EffectiveDate
	}

	imp.presenter.Display(fmt.Sprintf("FWIMP09: Found effective date%s %s.",
		plural(len(dates)), formatDates(dates)))

	if !session.IsModified() {
		imp.presenter.Display("FWIMP08: No new price data found.")
	}

	return session, nil
}

// stagePriceIfChanged applies the staging decision rule: stage iff no
// snapshot exists for the effective date, or its date differs, or the
// computed price differs from the recorded one; and nothing is already
// staged for the security this session.
func (imp *Importer) stagePriceIfChanged(ctx context.Context, session *Session, security *domain.Security, holding domain.Holding) error {
	price, err := holding.Price()
	if err != nil {
		return fmt.Errorf("computing price for %s: %w", holding.Name, err)
	}
	effInt := holding.EffectiveDateInt()

	snapshot, err := imp.securities.SnapshotForDate(ctx, security.ID, effInt)
	if err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
		return err
	}
	latest, err := imp.securities.LatestSnapshot(ctx, security.ID)
	if err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
		return err
	}

	// With no prior snapshot the old price defaults to 1, and the percent
	// change message is computed against that default. A stored rate whose
	// price rounds to zero at the fund's precision takes the same default:
	// the percent figure must stay defined.
	oldPrice := decimal.NewFromInt(1)
	if snapshot != nil {
		if p := snapshot.Price(holding.Precision); !p.IsZero() {
			oldPrice = p
		}
	}

	changed := snapshot == nil || snapshot.DateInt != effInt || !price.Equal(oldPrice)
	if !changed || session.Staged(security.ID) {
		return nil
	}

	imp.presenter.Display(fmt.Sprintf("FWIMP03: Change %s (%s) price from %s to %s (%s%%).",
		security.Name, holding.Ticker,
		imp.cur.FormatModel(oldPrice, price), imp.cur.Format(price),
		percentChange(price, oldPrice)))

	session.Stage(&StagedChange{
		Security:          security,
		ReferenceSnapshot: latest,
		NewPrice:          price,
		NewDateInt:        effInt,
	})

	return nil
}

// verifyAccountBalance checks the account's current balance against a
// holding that has no matching security. A mismatch is advisory only.
func (imp *Importer) verifyAccountBalance(ctx context.Context, account *domain.Account, holding domain.Holding) error {
	if account == nil {
		return nil
	}

	balance, err := imp.accounts.CurrentBalance(ctx, account)
	if err != nil {
		return err
	}

	if !holding.Balance.Equal(balance) {
		imp.presenter.Display(fmt.Sprintf(
			"FWIMP02: Found a different balance in account %s: have %s, found %s. "+
				"Note: No security %s for ticker symbol (%s).",
			account.Name, imp.cur.FormatModel(balance, holding.Balance),
			imp.cur.Format(holding.Balance), holding.Name, holding.Ticker))
	}

	return nil
}

// verifyShareBalance checks the security sub-account's share balance against
// the scraped share count. A mismatch is advisory only.
func (imp *Importer) verifyShareBalance(ctx context.Context, account *domain.Account, security *domain.Security, foundShares decimal.Decimal) error {
	if account == nil {
		return nil
	}

	subAccount, err := imp.accounts.GetSubAccountByName(ctx, account.ID, security.Name)
	if errors.Is(err, domain.ErrAccountNotFound) {
		imp.presenter.Display(fmt.Sprintf(
			"FWIMP06: Unable to obtain security [%s (%s)] in account %s.",
			security.Name, security.Ticker, account.Name))
		return nil
	}
	if err != nil {
		return err
	}

	balance, err := imp.accounts.CurrentBalance(ctx, subAccount)
	if err != nil {
		return err
	}

	if !foundShares.Equal(balance) {
		imp.presenter.Display(fmt.Sprintf(
			"FWIMP04: Found a different %s (%s) share balance in account %s: have %s, found %s.",
			subAccount.Name, security.Ticker, account.Name, balance, foundShares))
	}

	return nil
}

// percentChange renders (price/oldPrice - 1) * 100 with an explicit sign and
// two decimal places.
func percentChange(price, oldPrice decimal.Decimal) string {
	pct := price.Div(oldPrice).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	s := pct.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}

	return s
}

// formatDates lists the distinct effective dates in ascending order.
func formatDates(dates map[int]time.Time) string {
	ints := make([]int, 0, len(dates))
	for k := range dates {
		ints = append(ints, k)
	}
	sort.Ints(ints)

	parts := make([]string, 0, len(ints))
	for _, k := range ints {
		parts = append(parts, domain.FormatSummaryDate(dates[k]))
	}

	return strings.Join(parts, ", ")
}
