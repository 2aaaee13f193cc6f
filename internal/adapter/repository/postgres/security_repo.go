// Package postgres implements the ledger repositories over pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/leastlogic/fwlookup/internal/domain"
)

// SecurityRepository implements usecase.SecurityRepository.
type SecurityRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewSecurityRepository creates a new SecurityRepository.
func NewSecurityRepository(pool *pgxpool.Pool, retrier *Retrier) *SecurityRepository {
	return &SecurityRepository{pool: pool, retrier: retrier}
}

// GetByTicker retrieves a security by its ticker symbol.
func (r *SecurityRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Security, error) {
	const query = `
		SELECT id, ticker, name, relative_rate
		FROM securities
		WHERE ticker = $1`

	var (
		s    domain.Security
		rate pgtype.Numeric
	)
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&s.ID, &s.Ticker, &s.Name, &rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSecurityNotFound
		}

		return nil, err
	}
	s.RelativeRate = numericToDecimal(rate)

	return &s, nil
}

// SnapshotForDate returns the most recent snapshot dated at or before dateInt.
func (r *SecurityRepository) SnapshotForDate(ctx context.Context, securityID int64, dateInt int) (*domain.PriceSnapshot, error) {
	const query = `
		SELECT security_id, date_int, rate
		FROM price_snapshots
		WHERE security_id = $1 AND date_int <= $2
		ORDER BY date_int DESC
		LIMIT 1`

	return r.scanSnapshot(r.pool.QueryRow(ctx, query, securityID, dateInt))
}

// LatestSnapshot returns the security's newest snapshot.
func (r *SecurityRepository) LatestSnapshot(ctx context.Context, securityID int64) (*domain.PriceSnapshot, error) {
	const query = `
		SELECT security_id, date_int, rate
		FROM price_snapshots
		WHERE security_id = $1
		ORDER BY date_int DESC
		LIMIT 1`

	return r.scanSnapshot(r.pool.QueryRow(ctx, query, securityID))
}

// SetSnapshot stores a (date, rate) snapshot, replacing an existing rate for
// the same date. Re-running a commit therefore converges instead of piling
// up rows.
func (r *SecurityRepository) SetSnapshot(ctx context.Context, securityID int64, dateInt int, rate decimal.Decimal) error {
	const query = `
		INSERT INTO price_snapshots (security_id, date_int, rate)
		VALUES ($1, $2, $3)
		ON CONFLICT (security_id, date_int) DO UPDATE SET rate = EXCLUDED.rate`

	n, err := decimalToNumeric(rate)
	if err != nil {
		return err
	}

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query, securityID, dateInt, n)
		return err
	})
}

// SetRelativeRate updates the security's current relative rate.
func (r *SecurityRepository) SetRelativeRate(ctx context.Context, securityID int64, rate decimal.Decimal) error {
	const query = `
		UPDATE securities SET relative_rate = $2 WHERE id = $1`

	n, err := decimalToNumeric(rate)
	if err != nil {
		return err
	}

	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, query, securityID, n)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrSecurityNotFound
		}
		return nil
	})
}

func (r *SecurityRepository) scanSnapshot(row pgx.Row) (*domain.PriceSnapshot, error) {
	var (
		snap domain.PriceSnapshot
		rate pgtype.Numeric
	)
	if err := row.Scan(&snap.SecurityID, &snap.DateInt, &rate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}

		return nil, err
	}
	snap.Rate = numericToDecimal(rate)

	return &snap, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric

	if err := n.Scan(d.String()); err != nil {
		return n, fmt.Errorf("converting %s to numeric: %w", d, err)
	}

	return n, nil
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
