package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// FaucetKeyEnv names the environment variable holding the hex-encoded
// dispensing key. The secret is deliberately kept out of the config file.
const FaucetKeyEnv = "NHB_FAUCET_PK"

// nhbDecimals is the wei exponent of one NHB.
const nhbDecimals = 18

type Config struct {
	ListenAddress         string  `toml:"ListenAddress"`
	NodeRPCURL            string  `toml:"NodeRPCURL"`
	NodeRPCTokenEnv       string  `toml:"NodeRPCTokenEnv"`
	ClaimAmount           string  `toml:"ClaimAmount"`
	FeeReserve            string  `toml:"FeeReserve"`
	CooldownHours         int     `toml:"CooldownHours"`
	ConfirmTimeoutSeconds int     `toml:"ConfirmTimeoutSeconds"`
	ClaimRatePerSecond    float64 `toml:"ClaimRatePerSecond"`
	ClaimBurst            int     `toml:"ClaimBurst"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = ":3004"
	}
	if strings.TrimSpace(cfg.NodeRPCURL) == "" {
		cfg.NodeRPCURL = "http://127.0.0.1:8080"
	}
	if strings.TrimSpace(cfg.NodeRPCTokenEnv) == "" {
		cfg.NodeRPCTokenEnv = "NHB_RPC_TOKEN"
	}
	if strings.TrimSpace(cfg.ClaimAmount) == "" {
		cfg.ClaimAmount = "0.01"
	}
	if strings.TrimSpace(cfg.FeeReserve) == "" {
		cfg.FeeReserve = "0.001"
	}
	if cfg.CooldownHours <= 0 {
		cfg.CooldownHours = 24
	}
	if cfg.ConfirmTimeoutSeconds <= 0 {
		cfg.ConfirmTimeoutSeconds = 15
	}
	if cfg.ClaimRatePerSecond <= 0 {
		cfg.ClaimRatePerSecond = 0.1
	}
	if cfg.ClaimBurst <= 0 {
		cfg.ClaimBurst = 3
	}
}

func validate(cfg *Config) error {
	if _, err := cfg.ClaimAmountWei(); err != nil {
		return err
	}
	if _, err := cfg.FeeReserveWei(); err != nil {
		return err
	}
	return nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ClaimAmountWei converts the decimal NHB claim amount into wei.
func (c *Config) ClaimAmountWei() (*big.Int, error) {
	return toWei("ClaimAmount", c.ClaimAmount)
}

// FeeReserveWei converts the decimal NHB fee reserve into wei.
func (c *Config) FeeReserveWei() (*big.Int, error) {
	return toWei("FeeReserve", c.FeeReserve)
}

func (c *Config) CooldownWindow() time.Duration {
	return time.Duration(c.CooldownHours) * time.Hour
}

func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutSeconds) * time.Second
}

// NodeRPCToken reads the node auth token from the configured environment
// variable, empty when unset.
func (c *Config) NodeRPCToken() string {
	return strings.TrimSpace(os.Getenv(c.NodeRPCTokenEnv))
}

func toWei(field, value string) (*big.Int, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Sign() <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", field, value)
	}
	scaled := parsed.Shift(nhbDecimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%s has more than %d decimal places", field, nhbDecimals)
	}
	return scaled.BigInt(), nil
}
