package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/reviewloop/reviewloop/internal/logger"
)

// DBConfig holds the database connection settings.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Config holds the application's configuration values. It is loaded once at
// process start and treated as immutable for the process lifetime; components
// receive it through their constructors rather than reading ambient state.
type Config struct {
	ServerPort string

	// BaseURL is the public URL of this deployment, used to build the
	// conversation links appended to posted reviews.
	BaseURL string

	// ConversationAPIURL is the base URL of the conversation engine.
	ConversationAPIURL string

	// GitHubToken is the deployment-wide default bearer credential.
	GitHubToken string

	// GitHubAppID and GitHubPrivateKeyPath enable GitHub App installation
	// authentication. When unset, GitHubToken is used for all calls.
	GitHubAppID          int64
	GitHubPrivateKeyPath string

	// WebhookSecret validates inbound webhook signatures. An empty secret
	// disables verification entirely.
	WebhookSecret string

	// AllowedRepos restricts which repositories may trigger reviews, in
	// "owner/repo" form. An empty list allows all repositories.
	AllowedRepos []string

	// AutoFix requests a follow-up fix pull request after each review.
	AutoFix bool

	MaxWorkers     int
	GatewayTimeout time.Duration
	DedupTTL       time.Duration

	Database     *DBConfig
	LoggerConfig logger.Config
}

// IsRepoAllowed reports whether the repository may trigger automated reviews.
// An empty allow-list means unrestricted.
func (c *Config) IsRepoAllowed(fullName string) bool {
	if len(c.AllowedRepos) == 0 {
		return true
	}
	for _, repo := range c.AllowedRepos {
		if repo == fullName {
			return true
		}
	}
	return false
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("BASE_URL", "http://localhost:3000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("MAX_WORKERS", 5)
	viper.SetDefault("GATEWAY_TIMEOUT", "30s")
	viper.SetDefault("DEDUP_TTL", "5m")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "reviewloop")
	viper.SetDefault("DB_NAME", "reviewloop")
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", "error", err)
		}
	}

	if viper.GetString("CONVERSATION_API_URL") == "" {
		return nil, fmt.Errorf("CONVERSATION_API_URL must be set")
	}

	hasToken := viper.GetString("GITHUB_TOKEN") != ""
	hasApp := viper.GetInt64("GITHUB_APP_ID") != 0 && viper.GetString("GITHUB_PRIVATE_KEY_PATH") != ""
	if !hasToken && !hasApp {
		return nil, fmt.Errorf("either GITHUB_TOKEN or GITHUB_APP_ID with GITHUB_PRIVATE_KEY_PATH must be set")
	}

	// Skipping verification is a deployment policy choice, but it must be
	// visible in the logs.
	if viper.GetString("WEBHOOK_SECRET") == "" {
		slog.Warn("WEBHOOK_SECRET is not set, webhook signature verification is disabled")
	}

	var allowedRepos []string
	for _, repo := range strings.Split(viper.GetString("WEBHOOK_ALLOWED_REPOS"), ",") {
		if repo = strings.TrimSpace(repo); repo != "" {
			allowedRepos = append(allowedRepos, repo)
		}
	}

	return &Config{
		ServerPort:           viper.GetString("SERVER_PORT"),
		BaseURL:              strings.TrimRight(viper.GetString("BASE_URL"), "/"),
		ConversationAPIURL:   strings.TrimRight(viper.GetString("CONVERSATION_API_URL"), "/"),
		GitHubToken:          viper.GetString("GITHUB_TOKEN"),
		GitHubAppID:          viper.GetInt64("GITHUB_APP_ID"),
		GitHubPrivateKeyPath: viper.GetString("GITHUB_PRIVATE_KEY_PATH"),
		WebhookSecret:        viper.GetString("WEBHOOK_SECRET"),
		AllowedRepos:         allowedRepos,
		AutoFix:              viper.GetBool("WEBHOOK_AUTO_FIX"),
		MaxWorkers:           viper.GetInt("MAX_WORKERS"),
		GatewayTimeout:       viper.GetDuration("GATEWAY_TIMEOUT"),
		DedupTTL:             viper.GetDuration("DEDUP_TTL"),
		Database: &DBConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			Username:        viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Database:        viper.GetString("DB_NAME"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		LoggerConfig: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
	}, nil
}
