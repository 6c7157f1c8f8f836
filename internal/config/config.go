// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// TradeEndpoint is the PumpPortal local-transaction endpoint. It is not configurable.
const TradeEndpoint = "https://pumpportal.fun/api/trade-local"

// Duplicate-mint policies.
const (
	PolicyAllow    = "allow"
	PolicySkipHeld = "skip-held"
	PolicyRedis    = "redis"
)

type Config struct {
	RPCEndpoint          string  `mapstructure:"rpc_endpoint"`
	WSEndpoint           string  `mapstructure:"ws_endpoint"`
	LogFile              string  `mapstructure:"log_file"`
	BuyingEnabled        bool    `mapstructure:"buying_enabled"`
	InvestmentAmount     float64 `mapstructure:"investment_amount"`
	SlippageTolerance    float64 `mapstructure:"slippage_tolerance"`
	WalletPublicKey      string  `mapstructure:"wallet_public_key"`
	WalletPrivateKey     string  `mapstructure:"wallet_private_key"`
	RetryAttempts        int     `mapstructure:"retry_attempts"`
	RetryDelayMs         int     `mapstructure:"retry_delay"`
	AutoSellDelayMs      int     `mapstructure:"auto_sell_delay_ms"`
	BuyPriorityFee       float64 `mapstructure:"buy_priority_fee"`
	SellPriorityFee      float64 `mapstructure:"sell_priority_fee"`
	Pool                 string  `mapstructure:"pool"`
	LowBalanceThreshold  float64 `mapstructure:"low_balance_threshold"`
	MaxReconnectAttempts int     `mapstructure:"max_reconnect_attempts"`
	DuplicatePolicy      string  `mapstructure:"duplicate_policy"`
	RedisAddr            string  `mapstructure:"redis_addr"`
	RedisPassword        string  `mapstructure:"redis_password"`
	HoldingsExportDir    string  `mapstructure:"holdings_export_dir"`
	HoldingsExportFormat string  `mapstructure:"holdings_export_format"`
	DebugLogging         bool    `mapstructure:"debug_logging"`
}

const (
	DefaultLogFile              = "sniper.log"
	DefaultAutoSellDelayMs      = 30000
	DefaultBuyPriorityFee       = 0.001
	DefaultSellPriorityFee      = 0.005
	DefaultPool                 = "pump"
	DefaultLowBalanceThreshold  = 0.02
	DefaultMaxReconnectAttempts = 5
	DefaultRetryAttempts        = 3
	DefaultRetryDelayMs         = 500
	DefaultExportFormat         = "csv"
)

// Keys lists every configuration key in the order the editor shows them.
var Keys = []string{
	"RPC_ENDPOINT",
	"WS_ENDPOINT",
	"LOG_FILE",
	"BUYING_ENABLED",
	"INVESTMENT_AMOUNT",
	"SLIPPAGE_TOLERANCE",
	"WALLET_PUBLIC_KEY",
	"WALLET_PRIVATE_KEY",
	"RETRY_ATTEMPTS",
	"RETRY_DELAY",
	"AUTO_SELL_DELAY_MS",
	"BUY_PRIORITY_FEE",
	"SELL_PRIORITY_FEE",
	"POOL",
	"LOW_BALANCE_THRESHOLD",
	"MAX_RECONNECT_ATTEMPTS",
	"DUPLICATE_POLICY",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"HOLDINGS_EXPORT_DIR",
	"HOLDINGS_EXPORT_FORMAT",
	"DEBUG_LOGGING",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"rpc_endpoint":           "",
		"ws_endpoint":            "",
		"log_file":               DefaultLogFile,
		"buying_enabled":         false,
		"investment_amount":      0.0,
		"slippage_tolerance":     0.0,
		"wallet_public_key":      "",
		"wallet_private_key":     "",
		"retry_attempts":         DefaultRetryAttempts,
		"retry_delay":            DefaultRetryDelayMs,
		"auto_sell_delay_ms":     DefaultAutoSellDelayMs,
		"buy_priority_fee":       DefaultBuyPriorityFee,
		"sell_priority_fee":      DefaultSellPriorityFee,
		"pool":                   DefaultPool,
		"low_balance_threshold":  DefaultLowBalanceThreshold,
		"max_reconnect_attempts": DefaultMaxReconnectAttempts,
		"duplicate_policy":       PolicyAllow,
		"redis_addr":             "",
		"redis_password":         "",
		"holdings_export_dir":    "",
		"holdings_export_format": DefaultExportFormat,
		"debug_logging":          false,
	}
}

// LoadConfig reads the dotenv file at path (if it exists) into the process
// environment and resolves the configuration from it.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.AutoSellDelayMs <= 0 {
		cfg.AutoSellDelayMs = DefaultAutoSellDelayMs
	}

	return &cfg, validateConfig(&cfg)
}

// AutoSellDelay returns the auto-sell delay as a duration.
func (c *Config) AutoSellDelay() time.Duration {
	return time.Duration(c.AutoSellDelayMs) * time.Millisecond
}

// RetryDelay returns the RPC retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// LowBalanceLamports converts the SOL threshold to lamports.
func (c *Config) LowBalanceLamports() uint64 {
	return uint64(math.Round(c.LowBalanceThreshold * 1e9))
}

func validateConfig(cfg *Config) error {
	if cfg.WSEndpoint == "" {
		return errors.New("missing WS_ENDPOINT")
	}
	if err := validateURL(cfg.WSEndpoint, "ws"); err != nil {
		return errors.New("invalid WebSocket URL protocol")
	}
	if cfg.RPCEndpoint == "" {
		return errors.New("missing RPC_ENDPOINT")
	}
	if err := validateURL(cfg.RPCEndpoint, "http"); err != nil {
		return errors.New("invalid RPC URL protocol")
	}
	if cfg.WalletPrivateKey == "" {
		return errors.New("missing WALLET_PRIVATE_KEY")
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	switch cfg.DuplicatePolicy {
	case PolicyAllow, PolicySkipHeld:
	case PolicyRedis:
		if cfg.RedisAddr == "" {
			return errors.New("duplicate_policy redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown duplicate_policy %q", cfg.DuplicatePolicy)
	}
	switch cfg.HoldingsExportFormat {
	case "csv", "json":
	default:
		return fmt.Errorf("unknown holdings_export_format %q", cfg.HoldingsExportFormat)
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.InvestmentAmount <= 0 {
		return errors.New("invalid investment_amount")
	}
	if cfg.SlippageTolerance < 0 {
		return errors.New("invalid slippage_tolerance")
	}
	if cfg.BuyPriorityFee < 0 || cfg.SellPriorityFee < 0 {
		return errors.New("invalid priority fee")
	}
	if cfg.LowBalanceThreshold < 0 {
		return errors.New("invalid low_balance_threshold")
	}
	if cfg.MaxReconnectAttempts < 0 {
		return errors.New("invalid max_reconnect_attempts")
	}
	if cfg.RetryAttempts < 0 || cfg.RetryDelayMs < 0 {
		return errors.New("invalid retry settings")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}
