package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/tokendeploy/internal/chain"
	"github.com/Mohsinsiddi/tokendeploy/internal/config"
	"github.com/Mohsinsiddi/tokendeploy/internal/deploy"
	"github.com/Mohsinsiddi/tokendeploy/internal/logging"
	"github.com/Mohsinsiddi/tokendeploy/internal/rpc"
	"github.com/Mohsinsiddi/tokendeploy/internal/ui"
	"github.com/Mohsinsiddi/tokendeploy/internal/wallet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// dial connects to the configured node. Replaced in tests.
var dial = func(ctx context.Context, url string) (chain.Backend, func(), error) {
	c, err := chain.Dial(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// probe measures candidate endpoints. Replaced in tests.
var probe rpc.Probe = rpc.DialProbe

// openKeystore opens the keychain holding key_ref keys. Replaced in tests.
var openKeystore = wallet.DefaultKeystore

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "tokendeploy",
		Short: "Deploy the Token contract and record its address",
		Long: `tokendeploy deploys the compiled Token contract, waits for the deployment to be
confirmed and writes TOKEN_ADDRESS=<address> to ./.env.local.

Configuration comes from tokendeploy.json in $TOKENDEPLOY_CONFIG_DIR (default: the
working directory), a .env file next to it and TOKENDEPLOY_* environment variables,
e.g. TOKENDEPLOY_NETWORK=sepolia TOKENDEPLOY_PRIVATE_KEY=0x...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deployToken(cmd.Context(), stdout, stderr)
		},
	}
}

func deployToken(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, err := config.Load(os.Getenv(config.EnvConfigDir))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logging.New(stderr, cfg.Verbose)
	defer func() { _ = log.Sync() }()
	log.Debug("config loaded", zap.String("dir", cfg.Dir()), zap.String("network", cfg.Network))

	signer, err := loadSigner(cfg)
	if err != nil {
		return err
	}

	endpoint, err := selectEndpoint(ctx, cfg, log)
	if err != nil {
		return err
	}
	b, closeFn, err := dial(ctx, endpoint)
	if err != nil {
		return err
	}
	defer closeFn()

	opts := []deploy.Option{
		deploy.WithOutput(stdout),
		deploy.WithLogger(log.Named("deploy")),
	}
	if isTerminal(stderr) {
		opts = append(opts, deploy.WithProgress(ui.NewSpinner(stderr)))
	}

	if _, err := deploy.NewRunner(*cfg, b, signer, opts...).Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Done!")
	return nil
}

// selectEndpoint benchmarks the network's public RPCs when there is more than one.
func selectEndpoint(ctx context.Context, cfg *config.Config, log *zap.Logger) (string, error) {
	urls, err := cfg.Endpoints()
	if err != nil {
		return "", err
	}
	url, err := rpc.Select(ctx, urls, rpc.Algorithm(cfg.RPCSelect), probe, config.RPCSelectTimeout)
	if err != nil {
		return "", err
	}
	log.Debug("using rpc endpoint", zap.String("url", url), zap.Int("candidates", len(urls)))
	return url, nil
}

// loadSigner prefers an explicit private key over a keychain reference.
func loadSigner(cfg *config.Config) (*wallet.Signer, error) {
	if cfg.PrivateKey != "" {
		return wallet.NewSignerFromHex(cfg.PrivateKey)
	}
	return wallet.NewSignerFromKeystore(openKeystore(), cfg.KeyRef)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		msg := err.Error()
		if isTerminal(stderr) {
			msg = ui.Err(msg)
		}
		fmt.Fprintln(stderr, msg)
		return 1
	}
	return 0
}

// Execute runs the root command and exits with its status.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
