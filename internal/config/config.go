package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mohsinsiddi/tokendeploy/internal/chain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultNetwork   = "localhost"
	defaultContract  = "Token"
	defaultArtifacts = "artifacts"

	// EnvPrefix prefixes every environment override, e.g. TOKENDEPLOY_RPC_URL.
	EnvPrefix = "TOKENDEPLOY"
	// EnvConfigDir overrides the directory searched for the config file.
	EnvConfigDir = EnvPrefix + "_CONFIG_DIR"

	configName = "tokendeploy" // tokendeploy.json
	configType = "json"
	dotEnvFile = ".env"
)

// ErrNoKey is returned when neither a private key nor a keychain reference is configured.
var ErrNoKey = errors.New("no deployer key configured")

// Load reads config from dir (or uses defaults). dir defaults to the working directory.
// Values from the environment (TOKENDEPLOY_*) override the config file; a .env file in
// dir is loaded into the environment first without replacing variables already set.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}

	if err := godotenv.Load(filepath.Join(dir, dotEnvFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", dotEnvFile, err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can see it during Unmarshal.
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.configDir = dir
	return cfg, nil
}

// Validate checks that the config is complete enough to deploy.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ContractName) == "" {
		return errors.New("contract name is empty")
	}
	if c.PrivateKey == "" && c.KeyRef == "" {
		return fmt.Errorf("%w: set %s_PRIVATE_KEY or key_ref", ErrNoKey, EnvPrefix)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.ConfirmTimeout < 0 {
		return fmt.Errorf("confirm_timeout must not be negative, got %s", c.ConfirmTimeout)
	}
	switch c.RPCSelect {
	case "", "fastest", "failover":
	default:
		return fmt.Errorf("rpc_select must be fastest or failover, got %q", c.RPCSelect)
	}
	if c.EnvFile == "" || c.EnvKey == "" {
		return errors.New("env_file and env_key must be set")
	}
	if _, err := c.Endpoint(); err != nil {
		return err
	}
	return nil
}

// Endpoint returns the RPC URL to deploy through. An explicit rpc_url wins over the
// network registry.
func (c *Config) Endpoint() (string, error) {
	if c.RPCURL != "" {
		return c.RPCURL, nil
	}
	n, err := chain.NewRegistry().GetByName(c.Network)
	if err != nil {
		return "", fmt.Errorf("unknown network %q: %w", c.Network, err)
	}
	return n.RPC, nil
}

// Endpoints returns every candidate RPC URL, primary first. An explicit rpc_url is
// the only candidate.
func (c *Config) Endpoints() ([]string, error) {
	if c.RPCURL != "" {
		return []string{c.RPCURL}, nil
	}
	n, err := chain.NewRegistry().GetByName(c.Network)
	if err != nil {
		return nil, fmt.Errorf("unknown network %q: %w", c.Network, err)
	}
	return n.RPCs(), nil
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// --- helpers ---

func defaults() map[string]any {
	return map[string]any{
		"network":         defaultNetwork,
		"rpc_url":         "",
		"rpc_select":      "fastest",
		"chain_id":        0,
		"private_key":     "",
		"key_ref":         "",
		"contract":        defaultContract,
		"artifacts_dir":   defaultArtifacts,
		"env_file":        DefaultEnvFile,
		"env_key":         DefaultEnvKey,
		"confirm_timeout": TxDeployTimeout,
		"poll_interval":   ReceiptPoll,
		"max_retries":     ReceiptRetries,
		"gas_limit":       GasLimitTokenDeploy,
		"verbose":         false,
	}
}
