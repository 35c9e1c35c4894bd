package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/tokendeploy/internal/chain"
	"github.com/Mohsinsiddi/tokendeploy/internal/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrAddressMismatch is returned when the mined receipt reports a different contract
// address than the one derived from the deployer's nonce.
var ErrAddressMismatch = errors.New("deployed address mismatch")

// Factory deploys new instances of one compiled contract.
type Factory struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// Deployment is a contract creation that has been broadcast. It is pending until
// Confirm succeeds.
type Deployment struct {
	Tx      *types.Transaction
	Owner   common.Address
	Address common.Address // derived from owner and nonce

	receipt *types.Receipt
}

// Deploy packs the constructor arguments, then builds, signs and broadcasts the
// creation transaction from signer. gasFallback is used when estimation fails.
func (f *Factory) Deploy(ctx context.Context, b chain.Backend, signer *wallet.Signer, chainID *big.Int, gasFallback uint64, args ...any) (*Deployment, error) {
	if len(f.Bytecode) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoBytecode, f.Name)
	}
	input, err := f.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("encoding constructor arguments: %w", err)
	}
	data := make([]byte, 0, len(f.Bytecode)+len(input))
	data = append(data, f.Bytecode...)
	data = append(data, input...)

	owner := signer.Address()
	tx, err := chain.NewTx(ctx, b, chainID, chain.TxRequest{
		From:        owner,
		Data:        data,
		GasFallback: gasFallback,
	})
	if err != nil {
		return nil, err
	}

	signed, err := signer.SignTx(tx, chainID)
	if err != nil {
		return nil, err
	}
	if err := b.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("broadcasting deployment: %w", err)
	}

	return &Deployment{
		Tx:      signed,
		Owner:   owner,
		Address: crypto.CreateAddress(owner, signed.Nonce()),
	}, nil
}

// Confirm blocks until the creation transaction is mined with code at the new
// address, bounded by opts.
func (d *Deployment) Confirm(ctx context.Context, b chain.DeployBackend, opts chain.WaitOptions) (*types.Receipt, error) {
	receipt, err := chain.WaitDeployed(ctx, b, d.Tx, opts)
	if err != nil {
		return nil, err
	}
	if receipt.ContractAddress != d.Address {
		return nil, fmt.Errorf("%w: receipt reports %s, expected %s",
			ErrAddressMismatch, receipt.ContractAddress.Hex(), d.Address.Hex())
	}
	d.receipt = receipt
	return receipt, nil
}

// Confirmed reports whether Confirm has succeeded.
func (d *Deployment) Confirmed() bool {
	return d.receipt != nil
}

// Receipt returns the confirmation receipt, or nil while pending.
func (d *Deployment) Receipt() *types.Receipt {
	return d.receipt
}
