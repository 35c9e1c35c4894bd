package config

import "time"

// Config holds all tokendeploy configuration.
type Config struct {
	Network      string `json:"network"       mapstructure:"network"`
	RPCURL       string `json:"rpc_url"       mapstructure:"rpc_url"`    // overrides the network registry
	RPCSelect    string `json:"rpc_select"    mapstructure:"rpc_select"` // fastest | failover
	ChainID      int64  `json:"chain_id"      mapstructure:"chain_id"`   // 0 = ask the node
	PrivateKey   string `json:"-"             mapstructure:"private_key"`
	KeyRef       string `json:"key_ref"       mapstructure:"key_ref"` // keychain reference for the deployer key
	ContractName string `json:"contract"      mapstructure:"contract"`
	ArtifactsDir string `json:"artifacts_dir" mapstructure:"artifacts_dir"`
	EnvFile      string `json:"env_file"      mapstructure:"env_file"`
	EnvKey       string `json:"env_key"       mapstructure:"env_key"`

	ConfirmTimeout time.Duration `json:"confirm_timeout" mapstructure:"confirm_timeout"` // 0 = wait indefinitely
	PollInterval   time.Duration `json:"poll_interval"   mapstructure:"poll_interval"`
	MaxRetries     int           `json:"max_retries"     mapstructure:"max_retries"`
	GasLimit       uint64        `json:"gas_limit"       mapstructure:"gas_limit"` // used when estimation fails

	Verbose bool `json:"verbose" mapstructure:"verbose"`

	// internal: directory the config was loaded from
	configDir string
}
