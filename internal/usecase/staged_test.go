package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/leastlogic/fwlookup/internal/domain"
	"github.com/leastlogic/fwlookup/internal/usecase"
	"github.com/leastlogic/fwlookup/internal/usecase/mocks"
)

func decEq(want decimal.Decimal) gomock.Matcher {
	return gomock.Cond(func(got decimal.Decimal) bool { return got.Equal(want) })
}

func TestSession_StageFirstWriteWins(t *testing.T) {
	session := usecase.NewSession()
	security := &domain.Security{ID: 7, Ticker: "PFORX"}

	first := &usecase.StagedChange{Security: security, NewPrice: decimal.RequireFromString("14.00"), NewDateInt: 20250827}
	second := &usecase.StagedChange{Security: security, NewPrice: decimal.RequireFromString("15.00"), NewDateInt: 20250828}

	if !session.Stage(first) {
		t.Fatal("first Stage returned false")
	}
	if session.Stage(second) {
		t.Error("second Stage for same security returned true")
	}
	if session.Count() != 1 {
		t.Errorf("Count = %d, want 1", session.Count())
	}
	if !session.Staged(7) {
		t.Error("Staged(7) = false")
	}
	if session.Staged(8) {
		t.Error("Staged(8) = true")
	}
}

func TestSession_Commit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSecurityRepository(ctrl)

	session := usecase.NewSession()
	price := decimal.RequireFromString("14.00")
	rate := domain.PriceToRate(price)

	// No reference snapshot: the relative rate advances too.
	session.Stage(&usecase.StagedChange{
		Security:   &domain.Security{ID: 7, Ticker: "PFORX"},
		NewPrice:   price,
		NewDateInt: 20250827,
	})
	// Reference snapshot is newer than the change: snapshot only.
	session.Stage(&usecase.StagedChange{
		Security:          &domain.Security{ID: 9, Ticker: "NON40OJFC"},
		ReferenceSnapshot: &domain.PriceSnapshot{SecurityID: 9, DateInt: 20250901},
		NewPrice:          decimal.RequireFromString("10.893100"),
		NewDateInt:        20250827,
	})

	gomock.InOrder(
		repo.EXPECT().SetSnapshot(gomock.Any(), int64(7), 20250827, decEq(rate)).Return(nil),
		repo.EXPECT().SetRelativeRate(gomock.Any(), int64(7), decEq(rate)).Return(nil),
		repo.EXPECT().SetSnapshot(gomock.Any(), int64(9), 20250827, gomock.Any()).Return(nil),
	)

	msg, err := session.Commit(context.Background(), repo)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if msg != "FWIMP07: Changed 2 security prices." {
		t.Errorf("msg = %q", msg)
	}
	if session.IsModified() {
		t.Error("session still modified after commit")
	}
}

func TestSession_CommitSingularMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSecurityRepository(ctrl)

	session := usecase.NewSession()
	session.Stage(&usecase.StagedChange{
		Security:          &domain.Security{ID: 7, Ticker: "PFORX"},
		ReferenceSnapshot: &domain.PriceSnapshot{SecurityID: 7, DateInt: 20250820},
		NewPrice:          decimal.RequireFromString("14.00"),
		NewDateInt:        20250827,
	})

	repo.EXPECT().SetSnapshot(gomock.Any(), int64(7), 20250827, gomock.Any()).Return(nil)
	repo.EXPECT().SetRelativeRate(gomock.Any(), int64(7), gomock.Any()).Return(nil)

	msg, err := session.Commit(context.Background(), repo)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if msg != "FWIMP07: Changed 1 security price." {
		t.Errorf("msg = %q", msg)
	}
}

func TestSession_CommitStopsOnStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSecurityRepository(ctrl)

	session := usecase.NewSession()
	session.Stage(&usecase.StagedChange{
		Security:   &domain.Security{ID: 7, Ticker: "PFORX"},
		NewPrice:   decimal.RequireFromString("14.00"),
		NewDateInt: 20250827,
	})
	session.Stage(&usecase.StagedChange{
		Security:   &domain.Security{ID: 9, Ticker: "NON40OJFC"},
		NewPrice:   decimal.RequireFromString("10.893100"),
		NewDateInt: 20250827,
	})

	storeErr := errors.New("connection reset")
	repo.EXPECT().SetSnapshot(gomock.Any(), int64(7), 20250827, gomock.Any()).Return(nil)
	repo.EXPECT().SetRelativeRate(gomock.Any(), int64(7), gomock.Any()).Return(storeErr)

	_, err := session.Commit(context.Background(), repo)
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want %v", err, storeErr)
	}
	// The failed pass keeps the staged set for a retry.
	if !session.IsModified() {
		t.Error("session cleared after failed commit")
	}
}

func TestSession_Forget(t *testing.T) {
	session := usecase.NewSession()
	session.Stage(&usecase.StagedChange{
		Security:   &domain.Security{ID: 7, Ticker: "PFORX"},
		NewPrice:   decimal.RequireFromString("14.00"),
		NewDateInt: 20250827,
	})

	session.Forget()
	if session.IsModified() {
		t.Error("session still modified after Forget")
	}
	if session.Staged(7) {
		t.Error("change still staged after Forget")
	}
}
