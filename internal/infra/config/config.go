package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config - all settings of one analysis run
type Config struct {
	WorldBank WorldBankConfig `mapstructure:"worldbank"`
	Sample    SampleConfig    `mapstructure:"sample"`
	Charts    ChartsConfig    `mapstructure:"charts"`
	App       AppConfig       `mapstructure:"app"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
}

// WorldBankConfig - indicator API
type WorldBankConfig struct {
	Enabled         bool   `mapstructure:"enabled"` // false = go straight to synthetic data
	BaseURL         string `mapstructure:"base_url"`
	Country         string `mapstructure:"country"`
	Indicator       string `mapstructure:"indicator"`
	StartYear       int    `mapstructure:"start_year"`
	EndYear         int    `mapstructure:"end_year"`
	PerPage         int    `mapstructure:"per_page"`
	MaxPages        int    `mapstructure:"max_pages"`       // 1 = first page only
	RequestTimeout  int    `mapstructure:"request_timeout"` // seconds
	MaxRetries      int    `mapstructure:"max_retries"`
	RequestsPerSec  int    `mapstructure:"requests_per_sec"`
	MaxResponseSize int64  `mapstructure:"max_response_size"`
}

// SampleConfig - synthetic fallback dataset
type SampleConfig struct {
	Seed      int64    `mapstructure:"seed"`
	Countries []string `mapstructure:"countries"`
}

// ChartsConfig - output location, canvas sizes and top-N selections
type ChartsConfig struct {
	OutputDir     string   `mapstructure:"output_dir"`
	Width         int      `mapstructure:"width"`
	Height        int      `mapstructure:"height"`
	HeatmapWidth  int      `mapstructure:"heatmap_width"`
	HeatmapHeight int      `mapstructure:"heatmap_height"`
	TopTrend      int      `mapstructure:"top_trend"`
	TopBar        int      `mapstructure:"top_bar"`
	TopHeatmap    int      `mapstructure:"top_heatmap"`
	TopBox        int      `mapstructure:"top_box"`
	FontPaths     []string `mapstructure:"font_paths"`
}

// AppConfig - process level settings
type AppConfig struct {
	DataDir      string `mapstructure:"data_dir"`
	SaveSnapshot bool   `mapstructure:"save_snapshot"`
	LogsDir      string `mapstructure:"logs_dir"`
	Verbose      bool   `mapstructure:"verbose"`
}

// TelegramConfig - optional publishing of the report and charts
type TelegramConfig struct {
	BotToken    string `mapstructure:"bot_token"`
	ChatID      string `mapstructure:"chat_id"`
	APIEndpoint string `mapstructure:"api_endpoint"`
}

const (
	DefaultBaseURL   = "http://api.worldbank.org/v2"
	DefaultIndicator = "EN.ATM.CO2E.PC"
	DefaultSeed      = 42
)

// DefaultCountries are the synthetic dataset countries, in draw order.
var DefaultCountries = []string{
	"United States", "China", "Germany", "Japan", "India",
	"Canada", "United Kingdom", "France", "Brazil", "Australia",
}

var ErrInvalidConfig = errors.New("invalid config")

// Timeout returns the HTTP timeout; 30s when unset.
func (c WorldBankConfig) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// DateRange is the API "date" parameter, e.g. "2010:2020".
func (c WorldBankConfig) DateRange() string {
	return fmt.Sprintf("%d:%d", c.StartYear, c.EndYear)
}

// Enabled reports whether both token and chat are set.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

func (c TelegramConfig) ChatIDInt() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.ChatID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram.chat_id %q is not a number: %w", c.ChatID, err)
	}
	return id, nil
}

// Default returns the built-in defaults without touching files, env or flags.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults are static and always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// AddFlags registers the command line overrides on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to config file (default ./config.yaml)")
	fs.String("output-dir", "charts", "Directory for chart images (env: CO2_CHARTS_OUTPUT_DIR)")
	fs.Int64("seed", DefaultSeed, "Seed of the synthetic fallback dataset (env: CO2_SAMPLE_SEED)")
	fs.Bool("offline", false, "Skip the World Bank API and use the synthetic dataset")
	fs.Int("max-pages", 1, "Maximum API pages to fetch (env: CO2_WORLDBANK_MAX_PAGES)")
	fs.Int("timeout", 30, "HTTP timeout in seconds (env: CO2_WORLDBANK_REQUEST_TIMEOUT)")
	fs.Bool("snapshot", false, "Save the dataset as JSON under app.data_dir")
	fs.BoolP("verbose", "v", false, "Print debug logs to the console")
}

// Load builds the config. Precedence: defaults < config.yaml < .env / environment < flags.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// .env only fills variables that are not already set
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if flags != nil {
		if path, _ := flags.GetString("config"); path != "" {
			v.SetConfigFile(path)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix("CO2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if flags != nil {
		if offline, _ := flags.GetBool("offline"); offline {
			cfg.WorldBank.Enabled = false
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("telegram.bot_token", "CO2_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "CO2_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"charts.output_dir":         "output-dir",
		"sample.seed":               "seed",
		"worldbank.max_pages":       "max-pages",
		"worldbank.request_timeout": "timeout",
		"app.save_snapshot":         "snapshot",
		"app.verbose":               "verbose",
	}
	for key, name := range bindings {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// World Bank
	v.SetDefault("worldbank.enabled", true)
	v.SetDefault("worldbank.base_url", DefaultBaseURL)
	v.SetDefault("worldbank.country", "all")
	v.SetDefault("worldbank.indicator", DefaultIndicator)
	v.SetDefault("worldbank.start_year", 2010)
	v.SetDefault("worldbank.end_year", 2020)
	v.SetDefault("worldbank.per_page", 1000)
	v.SetDefault("worldbank.max_pages", 1)
	v.SetDefault("worldbank.request_timeout", 30)
	v.SetDefault("worldbank.max_retries", 0) // the fetch is attempted once
	v.SetDefault("worldbank.requests_per_sec", 5)
	v.SetDefault("worldbank.max_response_size", 10*1024*1024) // 10MB

	// Sample
	v.SetDefault("sample.seed", DefaultSeed)
	v.SetDefault("sample.countries", DefaultCountries)

	// Charts (12x8 in at 300 dpi)
	v.SetDefault("charts.output_dir", "charts")
	v.SetDefault("charts.width", 3600)
	v.SetDefault("charts.height", 2400)
	v.SetDefault("charts.heatmap_width", 4200)
	v.SetDefault("charts.heatmap_height", 3000)
	v.SetDefault("charts.top_trend", 8)
	v.SetDefault("charts.top_bar", 10)
	v.SetDefault("charts.top_heatmap", 15)
	v.SetDefault("charts.top_box", 8)
	v.SetDefault("charts.font_paths", []string{})

	// App
	v.SetDefault("app.data_dir", "data_out")
	v.SetDefault("app.save_snapshot", false)
	v.SetDefault("app.logs_dir", "logs")
	v.SetDefault("app.verbose", false)

	// Telegram
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.api_endpoint", "")
}

// Validate rejects settings the pipeline cannot run with.
func Validate(cfg *Config) error {
	wb := cfg.WorldBank
	if wb.StartYear > wb.EndYear {
		return fmt.Errorf("%w: worldbank.start_year %d is after end_year %d", ErrInvalidConfig, wb.StartYear, wb.EndYear)
	}
	if wb.Enabled {
		if wb.BaseURL == "" {
			return fmt.Errorf("%w: worldbank.base_url is empty", ErrInvalidConfig)
		}
		if wb.PerPage <= 0 {
			return fmt.Errorf("%w: worldbank.per_page must be positive", ErrInvalidConfig)
		}
	}
	if len(cfg.Sample.Countries) == 0 {
		return fmt.Errorf("%w: sample.countries is empty", ErrInvalidConfig)
	}

	ch := cfg.Charts
	if ch.OutputDir == "" {
		return fmt.Errorf("%w: charts.output_dir is empty", ErrInvalidConfig)
	}
	if ch.Width <= 0 || ch.Height <= 0 || ch.HeatmapWidth <= 0 || ch.HeatmapHeight <= 0 {
		return fmt.Errorf("%w: chart sizes must be positive", ErrInvalidConfig)
	}
	if ch.TopTrend <= 0 || ch.TopBar <= 0 || ch.TopHeatmap <= 0 || ch.TopBox <= 0 {
		return fmt.Errorf("%w: chart top-N values must be positive", ErrInvalidConfig)
	}

	if cfg.Telegram.Enabled() {
		if _, err := cfg.Telegram.ChatIDInt(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
