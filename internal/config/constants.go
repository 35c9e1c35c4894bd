package config

import "time"

// GasLimitTokenDeploy is the EstimateGas fallback for a full token deployment.
// It is a conservative upper bound; actual gas used will be lower.
const GasLimitTokenDeploy = uint64(1_500_000)

// Confirmation defaults.
const (
	TxDeployTimeout  = 5 * time.Minute // contract deployment confirmation wait
	ReceiptPoll      = 2 * time.Second // receipt polling period
	ReceiptRetries   = 3               // consecutive receipt lookup failures tolerated
	RPCSelectTimeout = 10 * time.Second
)

// Environment record defaults.
const (
	DefaultEnvFile = "./.env.local"
	DefaultEnvKey  = "TOKEN_ADDRESS"
)
