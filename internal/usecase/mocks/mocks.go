package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/leastlogic/fwlookup/internal/domain"
	"github.com/leastlogic/fwlookup/internal/usecase"
)

// MockBrowserSession is a function-field test double for usecase.BrowserSession.
// Unset fields succeed with zero values.
type MockBrowserSession struct {
	NavigateFunc      func(ctx context.Context, url string) error
	WaitClickableFunc func(ctx context.Context, loc usecase.Locator, timeout time.Duration) (usecase.ElementRef, error)
	ClickFunc         func(ctx context.Context, el usecase.ElementRef) error
	ElementTextFunc   func(ctx context.Context, loc usecase.Locator) (string, error)
	TableDataFunc     func(ctx context.Context, loc usecase.Locator) (*domain.ScrapedTable, error)
	TitleFunc         func(ctx context.Context) (string, error)
	CloseFunc         func(ctx context.Context) error

	mu     sync.Mutex
	closed bool
}

func (m *MockBrowserSession) Navigate(ctx context.Context, url string) error {
	if m.NavigateFunc != nil {
		return m.NavigateFunc(ctx, url)
	}
	return nil
}

func (m *MockBrowserSession) WaitClickable(ctx context.Context, loc usecase.Locator, timeout time.Duration) (usecase.ElementRef, error) {
	if m.WaitClickableFunc != nil {
		return m.WaitClickableFunc(ctx, loc, timeout)
	}
	return usecase.ElementRef("el-" + loc.Value), nil
}

func (m *MockBrowserSession) Click(ctx context.Context, el usecase.ElementRef) error {
	if m.ClickFunc != nil {
		return m.ClickFunc(ctx, el)
	}
	return nil
}

func (m *MockBrowserSession) ElementText(ctx context.Context, loc usecase.Locator) (string, error) {
	if m.ElementTextFunc != nil {
		return m.ElementTextFunc(ctx, loc)
	}
	return "", nil
}

func (m *MockBrowserSession) TableData(ctx context.Context, loc usecase.Locator) (*domain.ScrapedTable, error) {
	if m.TableDataFunc != nil {
		return m.TableDataFunc(ctx, loc)
	}
	return &domain.ScrapedTable{}, nil
}

func (m *MockBrowserSession) Title(ctx context.Context) (string, error) {
	if m.TitleFunc != nil {
		return m.TitleFunc(ctx)
	}
	return "", nil
}

func (m *MockBrowserSession) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx)
	}
	return nil
}

// Closed reports whether Close was called.
func (m *MockBrowserSession) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockSessionProvider is a test double for usecase.SessionProvider. By
// default Open hands out the Session field.
type MockSessionProvider struct {
	Session  *MockBrowserSession
	OpenFunc func(ctx context.Context) (usecase.BrowserSession, error)
}

func (m *MockSessionProvider) Open(ctx context.Context) (usecase.BrowserSession, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx)
	}
	return m.Session, nil
}

// MockPresenter records everything shown to the operator.
type MockPresenter struct {
	mu            sync.Mutex
	messages      []string
	commitEnabled bool
	frontCalls    int
}

func (m *MockPresenter) Display(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *MockPresenter) ShowInFront() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frontCalls++
}

func (m *MockPresenter) EnableCommit(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitEnabled = enabled
}

// Messages returns a copy of all displayed messages in order.
func (m *MockPresenter) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages))
	copy(out, m.messages)
	return out
}

// CommitEnabled reports the last EnableCommit value.
func (m *MockPresenter) CommitEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitEnabled
}

// FrontCalls reports how often ShowInFront was called.
func (m *MockPresenter) FrontCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frontCalls
}
