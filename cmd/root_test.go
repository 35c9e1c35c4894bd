package cmd

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/Mohsinsiddi/tokendeploy/internal/chain"
	"github.com/Mohsinsiddi/tokendeploy/internal/config"
	"github.com/Mohsinsiddi/tokendeploy/internal/rpc"
	"github.com/Mohsinsiddi/tokendeploy/internal/wallet"
	"github.com/Mohsinsiddi/tokendeploy/test/fixtures"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cliEnv struct {
	envFile string
	chain   *fixtures.Chain
	stdout  bytes.Buffer
	stderr  bytes.Buffer
}

// setupCLI points config at a temp project with a compiled Token and routes dialing
// to a simulated chain.
func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	artifacts := filepath.Join(dir, "artifacts")
	fixtures.WriteTokenArtifact(t, artifacts, big.NewInt(fixtures.TokenSupply))

	e := &cliEnv{envFile: filepath.Join(dir, ".env.local"), chain: fixtures.NewChain(t)}

	t.Setenv(config.EnvConfigDir, dir)
	t.Setenv(config.EnvPrefix+"_PRIVATE_KEY", fixtures.OwnerKeyHex)
	t.Setenv(config.EnvPrefix+"_KEY_REF", "")
	t.Setenv(config.EnvPrefix+"_ARTIFACTS_DIR", artifacts)
	t.Setenv(config.EnvPrefix+"_ENV_FILE", e.envFile)
	t.Setenv(config.EnvPrefix+"_POLL_INTERVAL", "10ms")
	t.Setenv(config.EnvPrefix+"_CONFIRM_TIMEOUT", "10s")

	origDial := dial
	dial = func(context.Context, string) (chain.Backend, func(), error) {
		return e.chain.Client, func() {}, nil
	}
	t.Cleanup(func() { dial = origDial })
	return e
}

func (e *cliEnv) run(args ...string) int {
	return run(args, &e.stdout, &e.stderr)
}

func TestRunSuccess(t *testing.T) {
	e := setupCLI(t)

	code := e.run()
	require.Equal(t, 0, code, e.stderr.String())

	addr := crypto.CreateAddress(e.chain.Owner.Address(), 0).Hex()
	assert.Equal(t, "Token deployed to: "+addr+"\nDone!\n", e.stdout.String())

	data, err := os.ReadFile(e.envFile)
	require.NoError(t, err)
	assert.Equal(t, "TOKEN_ADDRESS="+addr, string(data))
}

func TestRunTwiceKeepsLatestAddress(t *testing.T) {
	e := setupCLI(t)
	require.Equal(t, 0, e.run())
	require.Equal(t, 0, e.run())

	data, err := os.ReadFile(e.envFile)
	require.NoError(t, err)
	assert.Equal(t, "TOKEN_ADDRESS="+crypto.CreateAddress(e.chain.Owner.Address(), 1).Hex(), string(data))
}

func TestRunRejectsArguments(t *testing.T) {
	e := setupCLI(t)

	assert.Equal(t, 1, e.run("extra"))
	assert.NotEmpty(t, e.stderr.String())
	assert.NoFileExists(t, e.envFile)
}

func TestRunMissingKey(t *testing.T) {
	e := setupCLI(t)
	t.Setenv(config.EnvPrefix+"_PRIVATE_KEY", "")

	assert.Equal(t, 1, e.run())
	assert.Contains(t, e.stderr.String(), "no deployer key configured")
	assert.NoFileExists(t, e.envFile)
}

func TestRunInvalidKey(t *testing.T) {
	e := setupCLI(t)
	t.Setenv(config.EnvPrefix+"_PRIVATE_KEY", "0x1234")

	assert.Equal(t, 1, e.run())
	assert.Contains(t, e.stderr.String(), "invalid private key")
}

func TestRunMissingArtifact(t *testing.T) {
	e := setupCLI(t)
	t.Setenv(config.EnvPrefix+"_CONTRACT", "Missing")

	assert.Equal(t, 1, e.run())
	assert.Contains(t, e.stderr.String(), "factory resolution failed")
	assert.Empty(t, e.stdout.String())
	assert.NoFileExists(t, e.envFile)
}

func TestRunUnknownNetwork(t *testing.T) {
	e := setupCLI(t)
	t.Setenv(config.EnvPrefix+"_NETWORK", "atlantis")

	assert.Equal(t, 1, e.run())
	assert.Contains(t, e.stderr.String(), "unknown network")
}

func TestRunDialFailure(t *testing.T) {
	e := setupCLI(t)
	dial = func(context.Context, string) (chain.Backend, func(), error) {
		return nil, nil, errors.New("connecting to http://127.0.0.1:8545: refused")
	}

	assert.Equal(t, 1, e.run())
	assert.Equal(t, "connecting to http://127.0.0.1:8545: refused\n", e.stderr.String())
	assert.NoFileExists(t, e.envFile)
}

func TestRunVerboseLogsConfigDir(t *testing.T) {
	e := setupCLI(t)
	t.Setenv(config.EnvPrefix+"_VERBOSE", "true")

	require.Equal(t, 0, e.run(), e.stderr.String())
	assert.Contains(t, e.stderr.String(), "config loaded")
	assert.Contains(t, e.stderr.String(), os.Getenv(config.EnvConfigDir))
}

func TestRunKeychainSigner(t *testing.T) {
	e := setupCLI(t)
	ks := wallet.NewKeystore(keyring.NewArrayKeyring(nil))
	ref, err := ks.Store("deployer", fixtures.OwnerKeyHex)
	require.NoError(t, err)

	origOpen := openKeystore
	openKeystore = func() *wallet.Keystore { return ks }
	t.Cleanup(func() { openKeystore = origOpen })

	t.Setenv(config.EnvPrefix+"_PRIVATE_KEY", "")
	t.Setenv(config.EnvPrefix+"_KEY_REF", ref)

	require.Equal(t, 0, e.run(), e.stderr.String())
	assert.Contains(t, e.stdout.String(), "Done!")
}

func TestRunKeychainMissingRef(t *testing.T) {
	e := setupCLI(t)
	origOpen := openKeystore
	openKeystore = func() *wallet.Keystore { return wallet.NewKeystore(keyring.NewArrayKeyring(nil)) }
	t.Cleanup(func() { openKeystore = origOpen })

	t.Setenv(config.EnvPrefix+"_PRIVATE_KEY", "")
	t.Setenv(config.EnvPrefix+"_KEY_REF", wallet.Ref("ghost"))

	assert.Equal(t, 1, e.run())
	assert.Contains(t, e.stderr.String(), "key not found")
}

func TestIsTerminalBuffer(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}

func stubProbe(t *testing.T, p rpc.Probe) {
	t.Helper()
	orig := probe
	probe = p
	t.Cleanup(func() { probe = orig })
}

func TestSelectEndpointSingleURLSkipsProbe(t *testing.T) {
	stubProbe(t, func(context.Context, string) (time.Duration, uint64, error) {
		t.Fatal("probe called for a single endpoint")
		return 0, 0, nil
	})
	cfg := &config.Config{Network: "localhost"}

	url, err := selectEndpoint(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8545", url)
}

func TestSelectEndpointPicksHealthyFallback(t *testing.T) {
	net, err := chain.NewRegistry().GetByName("sepolia")
	require.NoError(t, err)
	fallback := net.Fallback[0]

	stubProbe(t, func(_ context.Context, url string) (time.Duration, uint64, error) {
		if url == fallback {
			return 20 * time.Millisecond, 100, nil
		}
		return 0, 0, errors.New("connection refused")
	})
	cfg := &config.Config{Network: "sepolia", RPCSelect: string(rpc.AlgorithmFailover)}

	url, err := selectEndpoint(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, fallback, url)
}

func TestSelectEndpointNoneHealthy(t *testing.T) {
	stubProbe(t, func(context.Context, string) (time.Duration, uint64, error) {
		return 0, 0, errors.New("connection refused")
	})
	cfg := &config.Config{Network: "sepolia"}

	_, err := selectEndpoint(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}
