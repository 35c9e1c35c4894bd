package fixtures

import (
	"context"
	"math/big"

	"github.com/Mohsinsiddi/tokendeploy/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
)

// Hardhat/Anvil test accounts. Never fund these on a public network.
const (
	OwnerKeyHex    = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	UnfundedKeyHex = "5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a"
)

// Stranger holds no tokens and no ether.
var Stranger = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

// SimChainID is the chain id of the simulated backend.
var SimChainID = big.NewInt(1337)

// Chain is an in-process chain with a funded owner account.
type Chain struct {
	Sim     *simulated.Backend
	Client  *AutoCommit
	Owner   *wallet.Signer
	ChainID *big.Int
}

// NewChain starts a simulated backend whose owner account holds 1000 ether.
// Every accepted transaction is mined immediately. The backend is closed at cleanup.
func NewChain(t TB) *Chain {
	t.Helper()
	owner, err := wallet.NewSignerFromHex(OwnerKeyHex)
	require.NoError(t, err)

	funds := new(big.Int).Mul(big.NewInt(1000), big.NewInt(params.Ether))
	sim := simulated.NewBackend(types.GenesisAlloc{
		owner.Address(): {Balance: funds},
	})
	t.Cleanup(func() { _ = sim.Close() })

	return &Chain{
		Sim:     sim,
		Client:  &AutoCommit{Client: sim.Client(), sim: sim},
		Owner:   owner,
		ChainID: SimChainID,
	}
}

// Signer returns a signer for hexKey.
func (c *Chain) Signer(t TB, hexKey string) *wallet.Signer {
	t.Helper()
	s, err := wallet.NewSignerFromHex(hexKey)
	require.NoError(t, err)
	return s
}

// AutoCommit seals a block after every transaction it accepts, so confirmation
// waits return on the first receipt poll.
type AutoCommit struct {
	simulated.Client
	sim *simulated.Backend
}

// SendTransaction broadcasts tx and mines it.
func (a *AutoCommit) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := a.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	a.sim.Commit()
	return nil
}
