// Package deploy runs the token deployment: resolve the factory, deploy, wait for
// confirmation, report the address and persist it to the env file.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/Mohsinsiddi/tokendeploy/internal/chain"
	"github.com/Mohsinsiddi/tokendeploy/internal/config"
	"github.com/Mohsinsiddi/tokendeploy/internal/contract"
	"github.com/Mohsinsiddi/tokendeploy/internal/envfile"
	"github.com/Mohsinsiddi/tokendeploy/internal/ui"
	"github.com/Mohsinsiddi/tokendeploy/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Failure kinds. Run wraps the underlying cause so both match with errors.Is.
var (
	ErrFactoryResolution = errors.New("factory resolution failed")
	ErrDeployment        = errors.New("deployment failed")
	ErrPersistence       = errors.New("persisting deployment failed")
)

// Progress is shown while the deployment waits for confirmation.
type Progress interface {
	Start(msg string)
	Stop(final string)
}

type noProgress struct{}

func (noProgress) Start(string) {}
func (noProgress) Stop(string)  {}

// Runner deploys one contract per Run.
type Runner struct {
	cfg      config.Config
	backend  chain.Backend
	signer   *wallet.Signer
	resolver *contract.Resolver
	out      io.Writer
	log      *zap.Logger
	progress Progress
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where the deployed address is reported. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithProgress sets the indicator shown during the confirmation wait.
func WithProgress(p Progress) Option {
	return func(r *Runner) { r.progress = p }
}

// WithResolver overrides the artifact resolver built from cfg.ArtifactsDir.
func WithResolver(res *contract.Resolver) Option {
	return func(r *Runner) { r.resolver = res }
}

// NewRunner creates a Runner deploying cfg.ContractName through b, signed by signer.
func NewRunner(cfg config.Config, b chain.Backend, signer *wallet.Signer, opts ...Option) *Runner {
	if cfg.EnvFile == "" {
		cfg.EnvFile = config.DefaultEnvFile
	}
	if cfg.EnvKey == "" {
		cfg.EnvKey = config.DefaultEnvKey
	}
	r := &Runner{
		cfg:      cfg,
		backend:  b,
		signer:   signer,
		resolver: contract.NewResolver(cfg.ArtifactsDir),
		out:      os.Stdout,
		log:      zap.NewNop(),
		progress: noProgress{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one deployment and returns the confirmed contract address. The env
// file is written only after confirmation; on any error it is left untouched.
func (r *Runner) Run(ctx context.Context) (common.Address, error) {
	factory, err := r.resolver.Factory(r.cfg.ContractName)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrFactoryResolution, err)
	}
	r.log.Debug("resolved contract factory",
		zap.String("contract", factory.Name),
		zap.String("artifacts", r.resolver.Root()),
		zap.Int("bytecode_bytes", len(factory.Bytecode)))

	latency, block, err := chain.Ping(ctx, r.backend)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrDeployment, err)
	}
	r.log.Debug("node reachable", zap.Uint64("block", block), zap.Duration("latency", latency))

	chainID, err := r.chainID(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrDeployment, err)
	}

	d, err := factory.Deploy(ctx, r.backend, r.signer, chainID, r.cfg.GasLimit)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrDeployment, err)
	}
	r.log.Debug("deployment sent",
		zap.String("tx", d.Tx.Hash().Hex()),
		zap.Uint64("nonce", d.Tx.Nonce()),
		zap.Uint64("gas", d.Tx.Gas()),
		zap.String("from", d.Owner.Hex()),
		zap.Stringer("chain_id", chainID))

	r.progress.Start(fmt.Sprintf("Waiting for %s deployment %s", factory.Name, ui.TruncateAddr(d.Tx.Hash().Hex())))
	receipt, err := d.Confirm(ctx, r.backend, r.waitOptions())
	r.progress.Stop("")
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrDeployment, err)
	}
	r.log.Debug("deployment confirmed",
		zap.Stringer("block", receipt.BlockNumber),
		zap.Uint64("gas_used", receipt.GasUsed))

	fmt.Fprintf(r.out, "%s deployed to: %s\n", factory.Name, d.Address.Hex())

	if err := envfile.Write(r.cfg.EnvFile, r.cfg.EnvKey, d.Address.Hex()); err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	r.log.Debug("address persisted", zap.String("file", r.cfg.EnvFile), zap.String("key", r.cfg.EnvKey))

	return d.Address, nil
}

// chainID asks the node for its chain id and checks it against the configured one.
func (r *Runner) chainID(ctx context.Context) (*big.Int, error) {
	id, err := r.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting chain id: %w", err)
	}
	if r.cfg.ChainID != 0 && id.Cmp(big.NewInt(r.cfg.ChainID)) != 0 {
		return nil, fmt.Errorf("chain id mismatch: configured %d, node reports %s", r.cfg.ChainID, id)
	}
	return id, nil
}

func (r *Runner) waitOptions() chain.WaitOptions {
	return chain.WaitOptions{
		Timeout:      r.cfg.ConfirmTimeout,
		PollInterval: r.cfg.PollInterval,
		MaxRetries:   r.cfg.MaxRetries,
	}
}
