package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/leastlogic/fwlookup/internal/domain"
)

// AccountRepository implements usecase.AccountRepository. Balances are kept
// in minor units and scaled by each account's decimal_places on read.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// GetByName retrieves a top-level account by name.
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	const query = `
		SELECT id, parent_id, name, type, decimal_places
		FROM accounts
		WHERE name = $1 AND parent_id IS NULL`

	return r.scanAccount(r.pool.QueryRow(ctx, query, name))
}

// GetSubAccountByName retrieves a direct sub-account of parentID by name.
func (r *AccountRepository) GetSubAccountByName(ctx context.Context, parentID int64, name string) (*domain.Account, error) {
	const query = `
		SELECT id, parent_id, name, type, decimal_places
		FROM accounts
		WHERE parent_id = $1 AND name = $2`

	return r.scanAccount(r.pool.QueryRow(ctx, query, parentID, name))
}

// CurrentBalance reports the account's balance as an exact decimal. Security
// accounts carry their own share balance; asset accounts aggregate their
// whole subtree.
func (r *AccountRepository) CurrentBalance(ctx context.Context, account *domain.Account) (decimal.Decimal, error) {
	if account.Type == domain.AccountTypeSecurity {
		const query = `
			SELECT balance_minor FROM accounts WHERE id = $1`

		var minor int64
		if err := r.pool.QueryRow(ctx, query, account.ID).Scan(&minor); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return decimal.Zero, domain.ErrAccountNotFound
			}

			return decimal.Zero, err
		}

		return decimal.New(minor, -int32(account.DecimalPlaces)), nil
	}

	// Each account in the subtree is scaled at its own decimal_places before
	// summing, since sub-accounts carry more places than their parent.
	const query = `
		WITH RECURSIVE subtree AS (
			SELECT id, balance_minor, decimal_places
			FROM accounts
			WHERE id = $1
			UNION ALL
			SELECT a.id, a.balance_minor, a.decimal_places
			FROM accounts a
			JOIN subtree s ON a.parent_id = s.id
		)
		SELECT COALESCE(SUM(balance_minor::numeric * power(10::numeric, -decimal_places)), 0)
		FROM subtree`

	var total pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, account.ID).Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a      domain.Account
		parent pgtype.Int8
	)
	if err := row.Scan(&a.ID, &parent, &a.Name, &a.Type, &a.DecimalPlaces); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}
	if parent.Valid {
		a.ParentID = &parent.Int64
	}

	return &a, nil
}
