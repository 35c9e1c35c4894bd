package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Token is a read-only binding for a deployed fungible token.
type Token struct {
	address common.Address
	abi     abi.ABI
	caller  ethereum.ContractCaller
}

// NewToken binds the token at address using its ABI.
func NewToken(address common.Address, parsed abi.ABI, caller ethereum.ContractCaller) *Token {
	return &Token{address: address, abi: parsed, caller: caller}
}

// Address returns the bound contract address.
func (t *Token) Address() common.Address {
	return t.address
}

// TotalSupply calls totalSupply().
func (t *Token) TotalSupply(ctx context.Context) (*big.Int, error) {
	return t.callUint(ctx, "totalSupply")
}

// BalanceOf calls balanceOf(account).
func (t *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return t.callUint(ctx, "balanceOf", account)
}

func (t *Token) callUint(ctx context.Context, method string, args ...any) (*big.Int, error) {
	input, err := t.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	out, err := t.caller.CallContract(ctx, ethereum.CallMsg{To: &t.address, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("calling %s: empty result from %s", method, t.address.Hex())
	}
	values, err := t.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("decoding %s: expected 1 output, got %d", method, len(values))
	}
	n, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decoding %s: unexpected output type %T", method, values[0])
	}
	return n, nil
}
