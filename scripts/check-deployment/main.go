// check-deployment: reads the address recorded by tokendeploy, then prints the
// contract's code size, totalSupply() and, when a deployer key is configured, the
// deployer's balance.
//
// Run from the project root (same config as tokendeploy):
//
//	go run ./scripts/check-deployment
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Mohsinsiddi/tokendeploy/internal/chain"
	"github.com/Mohsinsiddi/tokendeploy/internal/config"
	"github.com/Mohsinsiddi/tokendeploy/internal/contract"
	"github.com/Mohsinsiddi/tokendeploy/internal/envfile"
	"github.com/Mohsinsiddi/tokendeploy/internal/ui"
	"github.com/Mohsinsiddi/tokendeploy/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
)

const rpcTimeout = 12 * time.Second

// ── main ──────────────────────────────────────────────────────────────────────

func main() {
	if err := check(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

func check() error {
	cfg, err := config.Load(os.Getenv(config.EnvConfigDir))
	if err != nil {
		return err
	}

	raw, err := envfile.Lookup(cfg.EnvFile, cfg.EnvKey)
	if err != nil {
		return err
	}
	if !common.IsHexAddress(raw) {
		return fmt.Errorf("%s=%q is not an address", cfg.EnvKey, raw)
	}
	addr := common.HexToAddress(raw)

	factory, err := contract.NewResolver(cfg.ArtifactsDir).Factory(cfg.ContractName)
	if err != nil {
		return err
	}

	endpoint, err := cfg.Endpoint()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	client, err := chain.Dial(ctx, endpoint)
	if err != nil {
		return err
	}
	defer client.Close()

	_, block, err := chain.Ping(ctx, client)
	if err != nil {
		return err
	}

	code, err := client.CodeAt(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("reading code: %w", err)
	}
	if len(code) == 0 {
		return fmt.Errorf("%w: %s", chain.ErrNoCode, addr.Hex())
	}

	token := contract.NewToken(addr, factory.ABI, client)
	supply, err := token.TotalSupply(ctx)
	if err != nil {
		return err
	}

	fields := []ui.Field{
		{Label: "Config", Value: ui.Meta(cfg.Dir())},
		{Label: "Network", Value: ui.ChainName(networkLabel(cfg, endpoint))},
		{Label: "Block", Value: fmt.Sprintf("%d", block)},
		{Label: "Contract", Value: ui.Addr(addr.Hex())},
		{Label: "Code", Value: fmt.Sprintf("%d bytes", len(code))},
		{Label: "Total supply", Value: ui.Val(supply.String())},
	}

	var partial bool
	if cfg.PrivateKey != "" {
		signer, err := wallet.NewSignerFromHex(cfg.PrivateKey)
		if err != nil {
			return err
		}
		bal, err := token.BalanceOf(ctx, signer.Address())
		if err != nil {
			return err
		}
		fields = append(fields,
			ui.Field{Label: "Deployer", Value: ui.Addr(signer.Address().Hex())},
			ui.Field{Label: "Deployer balance", Value: ui.Val(bal.String())},
		)
		partial = bal.Cmp(supply) != 0
	}

	fmt.Println(ui.Summary(cfg.ContractName, fields))
	if partial {
		fmt.Println(ui.Warn("deployer does not hold the whole supply"))
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func networkLabel(cfg *config.Config, endpoint string) string {
	if cfg.RPCURL != "" {
		return endpoint
	}
	return cfg.Network
}
