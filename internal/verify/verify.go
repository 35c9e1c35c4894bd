// Package verify checks the mint-to-deployer invariant of a freshly deployed token:
// right after deployment the deployer holds the whole supply.
package verify

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/tokendeploy/internal/chain"
	"github.com/Mohsinsiddi/tokendeploy/internal/contract"
	"github.com/Mohsinsiddi/tokendeploy/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
)

// AssertionError reports a token whose owner balance differs from its total supply.
type AssertionError struct {
	TotalSupply  *big.Int
	OwnerBalance *big.Int
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("owner balance %s does not equal total supply %s", e.OwnerBalance, e.TotalSupply)
}

// Report holds what Check observed.
type Report struct {
	Contract     common.Address
	Owner        common.Address
	TotalSupply  *big.Int
	OwnerBalance *big.Int

	// Token is bound to the fresh deployment for further reads.
	Token *contract.Token
}

// Check deploys a new instance from factory as signer, waits for it and compares
// balanceOf(owner) with totalSupply(). It never reuses a previously persisted address.
// A nil chainID is read from the node. On mismatch the report is returned together
// with an *AssertionError.
func Check(ctx context.Context, b chain.Backend, factory *contract.Factory, signer *wallet.Signer, chainID *big.Int, opts chain.WaitOptions) (*Report, error) {
	if chainID == nil {
		id, err := b.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting chain id: %w", err)
		}
		chainID = id
	}

	d, err := factory.Deploy(ctx, b, signer, chainID, 0)
	if err != nil {
		return nil, fmt.Errorf("deploying %s: %w", factory.Name, err)
	}
	if _, err := d.Confirm(ctx, b, opts); err != nil {
		return nil, fmt.Errorf("confirming %s: %w", factory.Name, err)
	}

	token := contract.NewToken(d.Address, factory.ABI, b)
	balance, err := token.BalanceOf(ctx, d.Owner)
	if err != nil {
		return nil, err
	}
	supply, err := token.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Contract:     d.Address,
		Owner:        d.Owner,
		TotalSupply:  supply,
		OwnerBalance: balance,
		Token:        token,
	}
	if supply.Cmp(balance) != 0 {
		return report, &AssertionError{TotalSupply: supply, OwnerBalance: balance}
	}
	return report, nil
}
