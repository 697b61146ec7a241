package config

// Config represents the full application configuration.
type Config struct {
	GitHub        GitHubConfig        `yaml:"github"`
	HTTP          HTTPConfig          `yaml:"http"`
	Fixture       FixtureConfig       `yaml:"fixture"`
	Journal       JournalConfig       `yaml:"journal"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// GitHubConfig selects the backend and one of the two auth modes. When
// App.ID is set, installation token auth is used; otherwise Token must be
// set.
type GitHubConfig struct {
	BaseURL string    `yaml:"baseURL"`
	Token   string    `yaml:"token"`
	App     AppConfig `yaml:"app"`
}

// AppConfig configures GitHub App installation authentication.
type AppConfig struct {
	ID             int64  `yaml:"id"`
	InstallationID int64  `yaml:"installationID"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
}

// HTTPConfig holds global HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`

	// RateLimit caps outgoing requests per second. Zero disables the limiter.
	RateLimit      float64 `yaml:"rateLimit"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`

	// Breaker trips the client open after repeated transport failures.
	BreakerEnabled bool `yaml:"breakerEnabled"`
}

// FixtureConfig sets the defaults used when seeding scenarios.
type FixtureConfig struct {
	Owner         string `yaml:"owner"`
	Repo          string `yaml:"repo"`
	BaseBranch    string `yaml:"baseBranch"`
	FeatureBranch string `yaml:"featureBranch"`
	CreateRepo    bool   `yaml:"createRepo"`
	PrivateRepo   bool   `yaml:"privateRepo"`
}

// JournalConfig configures the local seeding journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured request logging.
type LoggingConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	RedactTokens bool   `yaml:"redactTokens"`
}

// MetricsConfig configures in-process request metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}
