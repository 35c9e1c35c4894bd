package contract_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/tokendeploy/internal/contract"
	"github.com/Mohsinsiddi/tokendeploy/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deployToken(t *testing.T, c *fixtures.Chain, supply *big.Int) (*contract.Token, *contract.Factory) {
	t.Helper()
	ctx := context.Background()
	f := tokenFactory(t, supply)
	d, err := f.Deploy(ctx, c.Client, c.Owner, c.ChainID, 0)
	require.NoError(t, err)
	_, err = d.Confirm(ctx, c.Client, fastWait)
	require.NoError(t, err)
	return contract.NewToken(d.Address, f.ABI, c.Client), f
}

func TestTokenReads(t *testing.T) {
	c := fixtures.NewChain(t)
	ctx := context.Background()
	tok, _ := deployToken(t, c, big.NewInt(fixtures.TokenSupply))

	supply, err := tok.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(fixtures.TokenSupply), supply.Int64())

	owner, err := tok.BalanceOf(ctx, c.Owner.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(fixtures.TokenSupply), owner.Int64())

	stranger, err := tok.BalanceOf(ctx, fixtures.Stranger)
	require.NoError(t, err)
	assert.Equal(t, 0, stranger.Sign())
}

func TestTokenLargeSupply(t *testing.T) {
	c := fixtures.NewChain(t)
	supply := new(big.Int).Lsh(big.NewInt(1), 200)
	tok, _ := deployToken(t, c, supply)

	got, err := tok.TotalSupply(context.Background())
	require.NoError(t, err)
	assert.Zero(t, supply.Cmp(got))
}

func TestTokenCallOnEmptyAccount(t *testing.T) {
	c := fixtures.NewChain(t)
	_, f := deployToken(t, c, big.NewInt(1))

	tok := contract.NewToken(fixtures.Stranger, f.ABI, c.Client)
	assert.Equal(t, fixtures.Stranger, tok.Address())
	_, err := tok.TotalSupply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty result")
}
