package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxRequest describes an unsigned transaction. A nil To creates a contract.
type TxRequest struct {
	From  common.Address
	To    *common.Address
	Data  []byte
	Value *big.Int

	// GasFallback is used when the node cannot estimate gas. Zero makes an
	// estimation failure fatal.
	GasFallback uint64
}

// NewTx fills nonce, gas and fees for req from the node and returns the unsigned
// transaction. EIP-1559 fees are used when the node reports a priority fee; otherwise
// a legacy gas-price transaction is built.
func NewTx(ctx context.Context, b Backend, chainID *big.Int, req TxRequest) (*types.Transaction, error) {
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	nonce, err := b.PendingNonceAt(ctx, req.From)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	gas, err := b.EstimateGas(ctx, ethereum.CallMsg{
		From:  req.From,
		To:    req.To,
		Data:  req.Data,
		Value: value,
	})
	if err != nil {
		if req.GasFallback == 0 {
			return nil, fmt.Errorf("estimating gas: %w", err)
		}
		gas = req.GasFallback
	}

	gasPrice, err := b.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	tip, err := b.SuggestGasTipCap(ctx)
	if err != nil {
		// Pre-London node.
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       req.To,
			Value:    value,
			Data:     req.Data,
		}), nil
	}

	feeCap := new(big.Int).Mul(gasPrice, big.NewInt(2))
	if feeCap.Cmp(tip) < 0 {
		feeCap = new(big.Int).Set(tip)
	}

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        req.To,
		Value:     value,
		Data:      req.Data,
	}), nil
}
