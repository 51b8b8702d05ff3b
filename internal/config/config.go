package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	QuoteSource struct {
		Endpoint        string  `yaml:"endpoint"`
		QuoterAddress   string  `yaml:"quoter_address"`
		TokenIn         string  `yaml:"token_in"`
		TokenOut        string  `yaml:"token_out"`
		FeeTier         uint32  `yaml:"fee_tier"`
		AmountIn        float64 `yaml:"amount_in"`
		TokenInDecimals int     `yaml:"token_in_decimals"`
		PriceDecimals   int     `yaml:"price_decimals"`
		TimeoutSeconds  int     `yaml:"timeout_seconds"`
	} `yaml:"quote_source"`
	Trading struct {
		PollIntervalSeconds   int     `yaml:"poll_interval_seconds"`
		TradeThresholdPercent float64 `yaml:"trade_threshold_percent"`
		TradeCooldownSeconds  *int    `yaml:"trade_cooldown_seconds"` // nil means default; 0 is valid
		InitialStableBalance  float64 `yaml:"initial_stable_balance"`
		StableSymbol          string  `yaml:"stable_symbol"`
		VolatileSymbol        string  `yaml:"volatile_symbol"`
		HistoryRetention      int     `yaml:"history_retention"`
	} `yaml:"trading"`
	Output struct {
		PriceLog    string `yaml:"price_log"`
		FinalReport string `yaml:"final_report"`
		ChartsDir   string `yaml:"charts_dir"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Redis struct {
		Addr      string `yaml:"addr"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		KeyPrefix string `yaml:"key_prefix"`
	} `yaml:"redis"`
	Dashboard struct {
		ListenAddr     string `yaml:"listen_addr"`
		RefreshSeconds int    `yaml:"refresh_seconds"`
	} `yaml:"dashboard"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log   LogConfig `yaml:"log"`
	Proxy string    `yaml:"proxy"`
}

// LogConfig defines the logger options.
type LogConfig struct {
	Level       string `yaml:"level"`       // "debug", "info", "warn", "error"
	Format      string `yaml:"format"`      // "json" or "console"
	OutputFile  string `yaml:"output_file"` // optional rotating file
	Environment string `yaml:"environment"` // "dev" or "prod"
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults fill every unset field.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("RPC_URL"); v != "" {
		cfg.QuoteSource.Endpoint = v
	}
	if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Trading.PollIntervalSeconds = n
		}
	}
	if v := os.Getenv("TRADE_THRESHOLD_PERCENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trading.TradeThresholdPercent = f
		}
	}
	if v := os.Getenv("TRADE_COOLDOWN_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Trading.TradeCooldownSeconds = &n
		}
	}
	if v := os.Getenv("INITIAL_STABLE_BALANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trading.InitialStableBalance = f
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		cfg.Dashboard.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	qs := &cfg.QuoteSource
	if qs.Endpoint == "" {
		qs.Endpoint = "https://arb1.arbitrum.io/rpc"
	}
	if qs.QuoterAddress == "" {
		qs.QuoterAddress = "0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6"
	}
	if qs.TokenIn == "" {
		qs.TokenIn = "0xFF970A61A04b1cA14834A43f5dE4533eBDDB5CC8"
	}
	if qs.TokenOut == "" {
		qs.TokenOut = "0x82af49447d8a07e3bd95bd0d56f35241523fbab1"
	}
	if qs.FeeTier == 0 {
		qs.FeeTier = 500
	}
	if qs.AmountIn == 0 {
		qs.AmountIn = 1
	}
	if qs.TokenInDecimals == 0 {
		qs.TokenInDecimals = 6
	}
	if qs.PriceDecimals == 0 {
		qs.PriceDecimals = 18
	}
	if qs.TimeoutSeconds == 0 {
		qs.TimeoutSeconds = 5
	}

	tr := &cfg.Trading
	if tr.PollIntervalSeconds == 0 {
		tr.PollIntervalSeconds = 10
	}
	if tr.TradeThresholdPercent == 0 {
		tr.TradeThresholdPercent = 0.01
	}
	if tr.TradeCooldownSeconds == nil {
		cooldown := 30
		tr.TradeCooldownSeconds = &cooldown
	}
	if tr.InitialStableBalance == 0 {
		tr.InitialStableBalance = 1000
	}
	if tr.StableSymbol == "" {
		tr.StableSymbol = "USDC"
	}
	if tr.VolatileSymbol == "" {
		tr.VolatileSymbol = "WETH"
	}
	if tr.HistoryRetention == 0 {
		tr.HistoryRetention = 1000
	}

	if cfg.Output.PriceLog == "" {
		cfg.Output.PriceLog = "price_log.csv"
	}
	if cfg.Output.FinalReport == "" {
		cfg.Output.FinalReport = "final_report.txt"
	}
	if cfg.Output.ChartsDir == "" {
		cfg.Output.ChartsDir = "charts"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "quotesentinel"
	}
	if cfg.Dashboard.RefreshSeconds == 0 {
		cfg.Dashboard.RefreshSeconds = 1
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate checks that all required fields are set and in range.
func (c *Config) Validate() error {
	qs := c.QuoteSource
	if qs.Endpoint == "" {
		return fmt.Errorf("quote_source.endpoint is required")
	}
	for name, addr := range map[string]string{
		"quote_source.quoter_address": qs.QuoterAddress,
		"quote_source.token_in":       qs.TokenIn,
		"quote_source.token_out":      qs.TokenOut,
	} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%s is not a valid address: %q", name, addr)
		}
	}
	if qs.FeeTier == 0 || qs.FeeTier >= 1<<24 {
		return fmt.Errorf("quote_source.fee_tier must be in (0, 2^24)")
	}
	if qs.AmountIn <= 0 {
		return fmt.Errorf("quote_source.amount_in must be positive")
	}
	if qs.TokenInDecimals < 0 || qs.PriceDecimals < 0 {
		return fmt.Errorf("quote_source decimals must not be negative")
	}
	tr := c.Trading
	if tr.PollIntervalSeconds <= 0 {
		return fmt.Errorf("trading.poll_interval_seconds must be positive")
	}
	if tr.TradeThresholdPercent <= 0 {
		return fmt.Errorf("trading.trade_threshold_percent must be positive")
	}
	if tr.TradeCooldownSeconds == nil || *tr.TradeCooldownSeconds < 0 {
		return fmt.Errorf("trading.trade_cooldown_seconds must not be negative")
	}
	if tr.InitialStableBalance < 0 {
		return fmt.Errorf("trading.initial_stable_balance must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

// PollInterval returns the tick cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Trading.PollIntervalSeconds) * time.Second
}

// Cooldown returns the minimum gap between trades.
func (c *Config) Cooldown() time.Duration {
	if c.Trading.TradeCooldownSeconds == nil {
		return 0
	}
	return time.Duration(*c.Trading.TradeCooldownSeconds) * time.Second
}

// QuoteTimeout returns the per-call quote deadline.
func (c *Config) QuoteTimeout() time.Duration {
	return time.Duration(c.QuoteSource.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the dashboard refresh cadence.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Dashboard.RefreshSeconds) * time.Second
}
