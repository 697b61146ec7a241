package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"prforge/internal/adapter/cli"
	"prforge/internal/adapter/git"
	githubadapter "prforge/internal/adapter/github"
	"prforge/internal/adapter/httpx"
	"prforge/internal/adapter/journal"
	"prforge/internal/adapter/observability"
	"prforge/internal/config"
	"prforge/internal/usecase/fixture"
	"prforge/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "prforge",
		EnvPrefix:   "PRFORGE",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	auth, err := buildAuth(cfg.GitHub)
	if err != nil {
		return err
	}

	client := githubadapter.NewClient(auth)
	if cfg.GitHub.BaseURL != "" {
		client.SetBaseURL(cfg.GitHub.BaseURL)
	}
	applyHTTPConfig(client, cfg.HTTP)

	obs := buildObservability(cfg.Observability)
	if obs.logger != nil {
		client.SetLogger(obs.logger)
	}
	if obs.metrics != nil {
		client.SetMetrics(obs.metrics)
	}

	// Journal seeding progress if enabled
	var recorder fixture.Recorder
	if cfg.Journal.Enabled {
		journalDir := filepath.Dir(cfg.Journal.Path)
		if err := os.MkdirAll(journalDir, 0755); err != nil {
			log.Printf("warning: failed to create journal directory: %v", err)
		} else {
			j, err := journal.New(cfg.Journal.Path)
			if err != nil {
				log.Printf("warning: failed to open journal: %v", err)
			} else {
				recorder = j
				defer j.Close()
			}
		}
	}

	var seedLogger fixture.Logger
	if obs.defaultLogger != nil {
		seedLogger = observability.NewSeedLogger(obs.defaultLogger)
	}

	seeder := fixture.NewOrchestrator(fixture.Dependencies{
		Objects:  client,
		Pulls:    client,
		Comments: client,
		Repos:    client,
		Hasher:   git.NewHasher(),
		Recorder: recorder,
		Logger:   seedLogger,
	})

	root := cli.NewRootCommand(cli.Dependencies{
		Objects:      client,
		Pulls:        client,
		Comments:     client,
		Seeder:       seeder,
		DefaultOwner: cfg.Fixture.Owner,
		DefaultRepo:  cfg.Fixture.Repo,
		FixtureDefaults: cli.FixtureDefaults{
			Owner:         cfg.Fixture.Owner,
			Repo:          cfg.Fixture.Repo,
			BaseBranch:    cfg.Fixture.BaseBranch,
			FeatureBranch: cfg.Fixture.FeatureBranch,
			CreateRepo:    cfg.Fixture.CreateRepo,
			PrivateRepo:   cfg.Fixture.PrivateRepo,
		},
		Version: version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return err
	}

	return nil
}

// buildAuth selects app auth when configured, token auth otherwise.
func buildAuth(cfg config.GitHubConfig) (githubadapter.Auth, error) {
	if cfg.App.ID != 0 {
		appAuth := githubadapter.NewAppAuth(
			strconv.FormatInt(cfg.App.ID, 10),
			strconv.FormatInt(cfg.App.InstallationID, 10),
			cfg.App.PrivateKeyPath,
		)
		if cfg.BaseURL != "" {
			appAuth.SetBaseURL(cfg.BaseURL)
		}
		return appAuth, nil
	}
	return githubadapter.NewTokenAuth(cfg.Token), nil
}

func applyHTTPConfig(client *githubadapter.Client, cfg config.HTTPConfig) {
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		client.SetTimeout(d)
	}
	if cfg.MaxRetries > 0 {
		client.SetMaxRetries(cfg.MaxRetries)
	}
	if d, err := time.ParseDuration(cfg.InitialBackoff); err == nil && d > 0 {
		client.SetInitialBackoff(d)
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		client.SetRateLimit(cfg.RateLimit, burst)
	}
	if cfg.BreakerEnabled {
		client.EnableBreaker()
	}
}

type observabilityComponents struct {
	logger        httpx.Logger
	metrics       httpx.Metrics
	defaultLogger *httpx.DefaultLogger
}

// buildObservability creates observability components based on configuration.
func buildObservability(cfg config.ObservabilityConfig) observabilityComponents {
	var out observabilityComponents

	if cfg.Logging.Enabled {
		logLevel := httpx.LogLevelInfo
		switch cfg.Logging.Level {
		case "debug":
			logLevel = httpx.LogLevelDebug
		case "error":
			logLevel = httpx.LogLevelError
		}

		logFormat := httpx.LogFormatHuman
		if cfg.Logging.Format == "json" {
			logFormat = httpx.LogFormatJSON
		}

		logger := httpx.NewDefaultLogger(logLevel, logFormat, cfg.Logging.RedactTokens)
		out.logger = logger
		out.defaultLogger = logger
	}

	if cfg.Metrics.Enabled {
		out.metrics = httpx.NewDefaultMetrics()
	}

	return out
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".prforge"))
	}
	return paths
}
