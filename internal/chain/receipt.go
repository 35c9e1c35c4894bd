package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Confirmation errors.
var (
	ErrReverted       = errors.New("transaction reverted")
	ErrConfirmTimeout = errors.New("transaction not mined in time")
	ErrNoCode         = errors.New("no contract code after deployment")
)

const defaultPoll = 2 * time.Second

// WaitOptions bounds a confirmation wait.
type WaitOptions struct {
	Timeout      time.Duration // 0 = no local bound
	PollInterval time.Duration
	MaxRetries   int // consecutive receipt lookup failures tolerated
}

// WaitMined polls every PollInterval until the transaction is mined, the timeout
// expires or ctx is done. A pending or not yet indexed transaction is not a failure; any other lookup
// error is retried up to MaxRetries consecutive times. Returns ErrReverted (with the
// receipt) when the transaction failed on-chain.
func WaitMined(ctx context.Context, b ethereum.TransactionReader, hash common.Hash, opts WaitOptions) (*types.Receipt, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = defaultPoll
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	failures := 0
	for {
		receipt, err := b.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, fmt.Errorf("%w (hash: %s)", ErrReverted, hash.Hex())
			}
			return receipt, nil
		case err == nil, isPending(err):
			failures = 0
		case ctx.Err() != nil:
			// reported below
		default:
			failures++
			if failures > opts.MaxRetries {
				return nil, fmt.Errorf("fetching receipt for %s: %w", hash.Hex(), err)
			}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && opts.Timeout > 0 {
				return nil, fmt.Errorf("%w: %s after %s", ErrConfirmTimeout, hash.Hex(), opts.Timeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// txIndexingMsg is how go-ethereum nodes answer a receipt query for a transaction
// they have not indexed yet, including ones still in the pool.
const txIndexingMsg = "transaction indexing is in progress"

func isPending(err error) bool {
	return errors.Is(err, ethereum.NotFound) || strings.Contains(err.Error(), txIndexingMsg)
}

// DeployBackend is what WaitDeployed needs from a node.
type DeployBackend interface {
	ethereum.TransactionReader
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// WaitDeployed waits for a contract creation transaction and checks that code was
// left at the created address.
func WaitDeployed(ctx context.Context, b DeployBackend, tx *types.Transaction, opts WaitOptions) (*types.Receipt, error) {
	if tx.To() != nil {
		return nil, errors.New("transaction is not a contract creation")
	}
	receipt, err := WaitMined(ctx, b, tx.Hash(), opts)
	if err != nil {
		return receipt, err
	}
	if receipt.ContractAddress == (common.Address{}) {
		return receipt, fmt.Errorf("%w: receipt has no contract address", ErrNoCode)
	}
	code, err := b.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return receipt, fmt.Errorf("reading code at %s: %w", receipt.ContractAddress.Hex(), err)
	}
	if len(code) == 0 {
		return receipt, fmt.Errorf("%w: %s", ErrNoCode, receipt.ContractAddress.Hex())
	}
	return receipt, nil
}
