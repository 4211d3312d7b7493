package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	ApprovalAuto   = "auto"
	ApprovalPrompt = "prompt"
)

// Config contains all configuration parameters for the application.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// RPCURL is the JSON-RPC endpoint of the chain the wallet starts on.
	RPCURL       string   `envconfig:"RPC_URL" default:"https://ethereum-sepolia-rpc.publicnode.com"`
	ExtraRPCURLs []string `envconfig:"EXTRA_RPC_URLS"`

	// Accounts are exposed by the local provider once a connection is approved.
	Accounts []string `envconfig:"ACCOUNTS" required:"true"`
	Approval string   `envconfig:"APPROVAL" default:"prompt"`

	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`

	ChainSwitchEnabled  bool   `envconfig:"CHAIN_SWITCH_ENABLED" default:"true"`
	SwitchTargetChainID uint64 `envconfig:"SWITCH_TARGET_CHAIN_ID" default:"1301"`
	DarkMode            bool   `envconfig:"DARK_MODE" default:"false"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads and validates a fresh configuration without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if c.Approval != ApprovalAuto && c.Approval != ApprovalPrompt {
		return fmt.Errorf("APPROVAL must be %q or %q, got %q", ApprovalAuto, ApprovalPrompt, c.Approval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("ACCOUNTS must list at least one address")
	}
	for i, a := range c.Accounts {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("ACCOUNTS entry %d is empty", i)
		}
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetLogLevel returns log level from configuration
func GetLogLevel() string {
	return Get().LogLevel
}

// GetRPCURLs returns the initial RPC URL followed by any extra chains to register
func GetRPCURLs() []string {
	c := Get()
	urls := make([]string, 0, 1+len(c.ExtraRPCURLs))
	urls = append(urls, c.RPCURL)
	return append(urls, c.ExtraRPCURLs...)
}

// GetAccounts returns the configured wallet accounts
func GetAccounts() []string {
	return Get().Accounts
}

// GetApproval returns the connection approval mode
func GetApproval() string {
	return Get().Approval
}

// GetRequestTimeout returns the timeout applied to provider calls
func GetRequestTimeout() time.Duration {
	return Get().RequestTimeout
}

// GetChainSwitchEnabled reports whether the chain-switch helper is on
func GetChainSwitchEnabled() bool {
	return Get().ChainSwitchEnabled
}

// GetSwitchTargetChainID returns the chain offered by the switch helper
func GetSwitchTargetChainID() uint64 {
	return Get().SwitchTargetChainID
}

// GetDarkMode reports whether the dark theme flag is on
func GetDarkMode() bool {
	return Get().DarkMode
}
