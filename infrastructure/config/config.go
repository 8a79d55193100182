package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"course_e2e/domain/entities"
)

const (
	EnvPrefix      = "E2E"
	DefaultBaseURL = "http://127.0.0.1:8000/"

	DriverPlaywright = "playwright"
	DriverWebDriver  = "webdriver"
	DriverRod        = "rod"
)

// Config is the single configuration surface of the suite
type Config struct {
	Driver       string        `mapstructure:"driver"`
	Browser      string        `mapstructure:"browser"`
	BaseURL      string        `mapstructure:"base_url"`
	Headless     bool          `mapstructure:"headless"`
	SlowMo       time.Duration `mapstructure:"slow_mo"`
	WindowWidth  int           `mapstructure:"window_width"`
	WindowHeight int           `mapstructure:"window_height"`

	Wait        WaitConfig      `mapstructure:"wait"`
	Retry       RetryConfig     `mapstructure:"retry"`
	Artifacts   ArtifactsConfig `mapstructure:"artifacts"`
	WebDriver   WebDriverConfig `mapstructure:"webdriver"`
	Log         LogConfig       `mapstructure:"log"`
	Credentials Credentials     `mapstructure:"credentials"`

	// StorageStatePath lets the playwright driver reuse cookies between runs
	StorageStatePath string `mapstructure:"storage_state_path"`
}

type WaitConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Backoff     time.Duration `mapstructure:"backoff"`
}

type ArtifactsConfig struct {
	Dir     string `mapstructure:"dir"`
	DOMDump bool   `mapstructure:"dom_dump"`
}

// WebDriverConfig configures the W3C WebDriver backend. When URL is set a
// remote hub is used and no local driver service is started.
type WebDriverConfig struct {
	URL         string `mapstructure:"url"`
	DriverPath  string `mapstructure:"driver_path"`
	Port        int    `mapstructure:"port"`
	BrowserPath string `mapstructure:"browser_path"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Credentials of the accounts the browser suite signs in with. Tests
// needing an account that is not configured are skipped.
type Credentials struct {
	AdminUsername   string `mapstructure:"admin_username"`
	AdminPassword   string `mapstructure:"admin_password"`
	TeacherUsername string `mapstructure:"teacher_username"`
	TeacherPassword string `mapstructure:"teacher_password"`
	StudentUsername string `mapstructure:"student_username"`
	StudentPassword string `mapstructure:"student_password"`

	// PendingUserEmail is an account awaiting activation in the back office
	PendingUserEmail string `mapstructure:"pending_user_email"`
}

// SetDefaults registers every recognized option with its default value.
// Registering all keys also makes AutomaticEnv see them on Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("driver", DriverPlaywright)
	v.SetDefault("browser", "chrome")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("headless", true)
	v.SetDefault("slow_mo", time.Duration(0))
	v.SetDefault("window_width", 1920)
	v.SetDefault("window_height", 1080)

	v.SetDefault("wait.timeout", entities.DefaultWaitTimeout)
	v.SetDefault("wait.poll_interval", entities.DefaultPollInterval)
	v.SetDefault("wait.page_load_timeout", 30*time.Second)

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff", 500*time.Millisecond)

	v.SetDefault("artifacts.dir", "screenshots")
	v.SetDefault("artifacts.dom_dump", true)

	v.SetDefault("webdriver.url", "")
	v.SetDefault("webdriver.driver_path", "")
	v.SetDefault("webdriver.port", 9515)
	v.SetDefault("webdriver.browser_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("credentials.admin_username", "admin")
	v.SetDefault("credentials.admin_password", "")
	v.SetDefault("credentials.teacher_username", "")
	v.SetDefault("credentials.teacher_password", "")
	v.SetDefault("credentials.student_username", "")
	v.SetDefault("credentials.student_password", "")
	v.SetDefault("credentials.pending_user_email", "")

	v.SetDefault("storage_state_path", "")
}

// NewViper returns a viper instance with defaults and E2E_* environment
// lookup configured. A .env file in the working directory is loaded first
// when present; variables already set in the environment win.
func NewViper() *viper.Viper {
	// .env file is optional
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a config file into v. An empty path searches for
// e2e.yaml in the working directory and tolerates its absence.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("e2e")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// FromViper decodes and validates the configuration
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	cfg.Browser = strings.ToLower(strings.TrimSpace(cfg.Browser))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is NewViper + ReadFile + FromViper
func Load(path string) (*Config, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return FromViper(v)
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPlaywright, DriverWebDriver, DriverRod:
	default:
		return fmt.Errorf("driver %q not supported (playwright, webdriver, rod)", c.Driver)
	}
	if c.BaseURL == "" {
		return errors.New("base_url must be set")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL)
	}
	if c.Wait.Timeout < 0 {
		return fmt.Errorf("wait.timeout must not be negative, got %s", c.Wait.Timeout)
	}
	if c.Wait.PollInterval <= 0 {
		return fmt.Errorf("wait.poll_interval must be positive, got %s", c.Wait.PollInterval)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.Backoff < 0 {
		return fmt.Errorf("retry.backoff must not be negative, got %s", c.Retry.Backoff)
	}
	if c.Artifacts.Dir == "" {
		return errors.New("artifacts.dir must be set")
	}
	return nil
}
