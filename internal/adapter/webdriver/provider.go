package webdriver

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os/exec"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/leastlogic/fwlookup/internal/usecase"
)

const (
	// probeTimeout bounds the TCP probe for an operator-owned browser.
	probeTimeout = 500 * time.Millisecond
	// startupTimeout bounds how long a freshly launched driver may take to
	// report ready.
	startupTimeout = 10 * time.Second
)

// ProviderConfig tells the provider where the driver lives and how to reach
// or start the browser.
type ProviderConfig struct {
	// WebDriverURL is the driver's remote end, e.g. http://localhost:9515.
	WebDriverURL string
	// ChromeDriverPath is the driver binary to start when nothing answers at
	// WebDriverURL. Empty disables launching.
	ChromeDriverPath string
	// DebuggerAddress is the DevTools address of a browser the operator may
	// already have open. When it answers, the session attaches to that
	// browser instead of starting a new one.
	DebuggerAddress string
	// ChromeUserDataDir is the profile directory for a freshly launched
	// browser, so saved log-in state carries across runs.
	ChromeUserDataDir string
}

// Provider opens browser sessions against a chromedriver, starting the
// driver itself when none is running. It implements usecase.SessionProvider.
type Provider struct {
	cfg    ProviderConfig
	client *Client
	log    zerolog.Logger

	cmd *exec.Cmd
}

// NewProvider creates a Provider. The driver process, if one gets launched,
// lives until Shutdown.
func NewProvider(cfg ProviderConfig, log zerolog.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		client: NewClient(cfg.WebDriverURL, log),
		log:    log,
	}
}

// Open acquires a browser session. An already-open browser with a reachable
// debugger port is attached to rather than replaced, preserving whatever
// log-in state the operator has built up in it.
func (p *Provider) Open(ctx context.Context) (usecase.BrowserSession, error) {
	if err := p.ensureDriver(ctx); err != nil {
		return nil, err
	}

	session, err := p.client.NewSession(ctx, p.capabilities())
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("session_id", session.ID()).Msg("browser session opened")

	return session, nil
}

// ensureDriver verifies the remote end answers, launching the driver binary
// when it does not.
func (p *Provider) ensureDriver(ctx context.Context) error {
	if ready, err := p.client.Status(ctx); err == nil && ready {
		return nil
	}

	if p.cfg.ChromeDriverPath == "" {
		return fmt.Errorf("no webdriver answering at %s and no driver binary configured", p.cfg.WebDriverURL)
	}

	port, err := driverPort(p.cfg.WebDriverURL)
	if err != nil {
		return err
	}

	p.log.Info().Str("path", p.cfg.ChromeDriverPath).Str("port", port).Msg("starting chromedriver")
	cmd := exec.Command(p.cfg.ChromeDriverPath, "--port="+port)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.cfg.ChromeDriverPath, err)
	}
	p.cmd = cmd

	wait := backoff.NewExponentialBackOff()
	wait.MaxElapsedTime = startupTimeout

	return backoff.Retry(func() error {
		ready, err := p.client.Status(ctx)
		if err != nil {
			return err
		}
		if !ready {
			return fmt.Errorf("driver at %s not ready", p.cfg.WebDriverURL)
		}
		return nil
	}, backoff.WithContext(wait, ctx))
}

// capabilities builds the session request: attach to the operator's browser
// when its debugger port answers, otherwise launch a fresh browser on the
// configured profile directory.
func (p *Provider) capabilities() map[string]any {
	options := map[string]any{}

	if p.debuggerReachable() {
		p.log.Info().Str("debugger", p.cfg.DebuggerAddress).Msg("attaching to running browser")
		options["debuggerAddress"] = p.cfg.DebuggerAddress
	} else {
		args := []string{"--remote-debugging-port=" + portOf(p.cfg.DebuggerAddress)}
		if p.cfg.ChromeUserDataDir != "" {
			args = append(args, "--user-data-dir="+p.cfg.ChromeUserDataDir)
		}
		options["args"] = args
	}

	return map[string]any{
		"browserName":        "chrome",
		"goog:chromeOptions": options,
	}
}

func (p *Provider) debuggerReachable() bool {
	if p.cfg.DebuggerAddress == "" {
		return false
	}

	conn, err := net.DialTimeout("tcp", p.cfg.DebuggerAddress, probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()

	return true
}

// Shutdown stops a driver process this provider launched. Attached browsers
// and externally started drivers are left alone.
func (p *Provider) Shutdown() {
	if p.cmd == nil || p.cmd.Process == nil {
		return
	}
	if err := p.cmd.Process.Kill(); err != nil {
		p.log.Warn().Err(err).Msg("stopping chromedriver")
	}
	_ = p.cmd.Wait()
	p.cmd = nil
}

func driverPort(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing webdriver url %q: %w", rawURL, err)
	}
	if u.Port() == "" {
		return "", fmt.Errorf("webdriver url %q carries no port", rawURL)
	}

	return u.Port(), nil
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}

	return "14001"
}
