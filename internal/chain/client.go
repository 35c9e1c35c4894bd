package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is the slice of an Ethereum node the deployer talks to. It is satisfied by
// *ethclient.Client and by the simulated backend's client.
type Backend interface {
	ethereum.ChainIDReader
	ethereum.BlockNumberReader
	ethereum.ChainStateReader
	ethereum.ContractCaller
	ethereum.GasEstimator
	ethereum.GasPricer
	ethereum.GasPricer1559
	ethereum.PendingStateReader
	ethereum.TransactionReader
	ethereum.TransactionSender
}

var _ Backend = (*ethclient.Client)(nil)

// Dial connects to an EVM JSON-RPC endpoint.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return c, nil
}

// Ping tests the endpoint and returns latency + block number.
func Ping(ctx context.Context, b ethereum.BlockNumberReader) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = b.BlockNumber(ctx)
	latency = time.Since(start)
	if err != nil {
		return latency, 0, fmt.Errorf("RPC unreachable: %w", err)
	}
	return latency, blockNum, nil
}
