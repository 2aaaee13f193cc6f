package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	tests := []string{
		"0",
		"1",
		"14.00",
		"0.0714285714285714",
		"-123000.9876543210",
		"10.893100",
	}

	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			d := decimal.RequireFromString(tt)

			n, err := decimalToNumeric(d)
			require.NoError(t, err)

			back := numericToDecimal(n)
			assert.True(t, back.Equal(d), "round trip %s gave %s", d, back)
		})
	}
}

func TestNumericToDecimalInvalid(t *testing.T) {
	var n pgtype.Numeric

	require.True(t, numericToDecimal(n).IsZero())
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(&pgconn.PgError{Code: pgErrDeadlock}))
	assert.True(t, isRetryableError(&pgconn.PgError{Code: pgErrSerializationFailure}))
	assert.False(t, isRetryableError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isRetryableError(errors.New("plain error")))
}

func TestRetrierGivesUpOnPermanentError(t *testing.T) {
	r := NewRetrier(zerolog.Nop())

	calls := 0
	err := r.Retry(context.Background(), func() error {
		calls++
		return errors.New("not retryable")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrierRetriesSerializationFailures(t *testing.T) {
	r := NewRetrier(zerolog.Nop())

	calls := 0
	err := r.Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: pgErrSerializationFailure}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
