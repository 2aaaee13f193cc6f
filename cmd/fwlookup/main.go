package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/leastlogic/fwlookup/internal/adapter/console"
	pgrepo "github.com/leastlogic/fwlookup/internal/adapter/repository/postgres"
	"github.com/leastlogic/fwlookup/internal/adapter/webdriver"
	"github.com/leastlogic/fwlookup/internal/currency"
	"github.com/leastlogic/fwlookup/internal/domain"
	"github.com/leastlogic/fwlookup/internal/infrastructure/config"
	"github.com/leastlogic/fwlookup/internal/infrastructure/logger"
	"github.com/leastlogic/fwlookup/internal/infrastructure/metrics"
	"github.com/leastlogic/fwlookup/internal/infrastructure/postgres"
	"github.com/leastlogic/fwlookup/internal/usecase"
)

var migrationsPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "fwlookup",
		Short: "Brokerage price lookup for the ledger",
		Long: `fwlookup scrapes current fund prices from the brokerage's holdings
page and stages them against the ledger. Staged changes are reviewed and
committed through a local web console.`,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one price lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				return postgres.RunMigrations(cfg.DatabaseURL, migrationsPath)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				return postgres.RunMigrationsDown(cfg.DatabaseURL, migrationsPath)
			},
		},
	)

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the known funds and account tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd.Context())
		},
	}

	rootCmd.AddCommand(runCmd, migrateCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	retrier := pgrepo.NewRetrier(log)
	securityRepo := pgrepo.NewSecurityRepository(pool, retrier)
	accountRepo := pgrepo.NewAccountRepository(pool)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	operator := console.New(log)
	cur := currency.DefaultConfig()

	provider := webdriver.NewProvider(webdriver.ProviderConfig{
		WebDriverURL:      cfg.WebDriverURL,
		ChromeDriverPath:  cfg.ChromeDriverPath,
		DebuggerAddress:   cfg.DebuggerAddress,
		ChromeUserDataDir: cfg.ChromeUserDataDir,
	}, log)
	defer provider.Shutdown()

	scraper := usecase.NewScraper(provider, operator, usecase.ScraperConfig{
		LoginURL:      cfg.LoginURL,
		PlanLinkText:  cfg.PlanLinkText,
		LoginTimeout:  cfg.LoginTimeout,
		RenderTimeout: cfg.RenderTimeout,
		Currency:      cur,
	}, log)
	importer := usecase.NewImporter(securityRepo, accountRepo, operator, cur, cfg.AccountName, log)
	worker := usecase.NewWorker(scraper, importer, operator, m, log)

	server := console.NewServer(console.ServerConfig{
		Addr:     cfg.ConsoleAddr,
		Console:  operator,
		Commit:   commitFunc(worker, securityRepo, m),
		Cancel:   func() { go worker.Stop() },
		Gatherer: registry,
		Log:      log,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("console server failed")
		}
	}()
	log.Info().Str("addr", cfg.ConsoleAddr).Msgf("console at http://%s/", cfg.ConsoleAddr)

	worker.Start(ctx)

	// The process stays up after the run so the operator can review and
	// commit; it ends on interrupt.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ConsoleShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("console shutdown: %w", err)
	}

	return nil
}

// commitFunc applies the worker's staged changes. It refuses while the run is
// still in flight.
func commitFunc(worker *usecase.Worker, securities usecase.SecurityRepository, m *metrics.Metrics) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		select {
		case <-worker.Done():
		default:
			return "", errors.New("lookup still running")
		}

		session := worker.Session()
		if session == nil {
			return "", errors.New("no staged changes")
		}

		staged := session.Count()
		summary, err := session.Commit(ctx, securities)
		if err != nil {
			return "", err
		}
		m.PricesCommitted.Add(float64(staged))

		return summary, nil
	}
}

func seed(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(seedCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer pool.Close()

	var accountID int64
	err = pool.QueryRow(seedCtx, `
		INSERT INTO accounts (name, type, decimal_places)
		VALUES ($1, 'asset', 2)
		ON CONFLICT (name) WHERE parent_id IS NULL DO UPDATE SET type = EXCLUDED.type
		RETURNING id`, cfg.AccountName).Scan(&accountID)
	if err != nil {
		return fmt.Errorf("seeding account %s: %w", cfg.AccountName, err)
	}

	for _, fund := range domain.KnownFunds() {
		if _, err := pool.Exec(seedCtx, `
			INSERT INTO securities (ticker, name)
			VALUES ($1, $2)
			ON CONFLICT (ticker) DO NOTHING`, fund.Ticker, fund.Name); err != nil {
			return fmt.Errorf("seeding security %s: %w", fund.Ticker, err)
		}

		if _, err := pool.Exec(seedCtx, `
			INSERT INTO accounts (parent_id, name, type, decimal_places)
			VALUES ($1, $2, 'security', $3)
			ON CONFLICT (parent_id, name) WHERE parent_id IS NOT NULL DO NOTHING`,
			accountID, fund.Name, fund.DecimalPlaces); err != nil {
			return fmt.Errorf("seeding sub-account %s: %w", fund.Name, err)
		}

		log.Info().Str("ticker", fund.Ticker).Str("fund", fund.Name).Msg("seeded")
	}

	return nil
}
