package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/urfave/cli/v2"

	"github.com/synthforge/deploytool/cmd/flags"
	"github.com/synthforge/deploytool/interfaces"
	"github.com/synthforge/deploytool/manifest"
	"github.com/synthforge/deploytool/registry"
	"github.com/synthforge/deploytool/removal"
	"github.com/synthforge/deploytool/signer"
)

func main() {
	app := &cli.App{
		Name:  "deploytool",
		Usage: "reconcile local deployment manifests with on-chain registry state",
		Flags: flags.CommonFlags,
		Commands: []*cli.Command{
			{
				Name:        "remove-synths",
				Usage:       "remove synths from the registry and the local manifests",
				Description: "Validates each synth against on-chain state, then removes it on-chain (as owner) or queues the removal for the owner, and drops it from the local manifests.",
				Flags: []cli.Flag{
					flags.SynthFlag,
					flags.GasPriceGweiFlag,
					flags.GasLimitFlag,
					flags.YesFlag,
					flags.DryRunFlag,
					flags.PrivkeyFlag,
					flags.PrivkeyVaultAddrFlag,
					flags.PrivkeyVaultMountFlag,
					flags.PrivkeyVaultPathFlag,
					flags.PrivkeyVaultFieldFlag,
					flags.MirrorFlag,
				},
				Action: removeSynthsAction,
			},
			{
				Name:   "list-synths",
				Usage:  "list local synths and check them against on-chain state",
				Action: listSynthsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "deploytool: %v\n", err)
		os.Exit(interfaces.ExitCode(err))
	}
}

func removeSynthsAction(cCtx *cli.Context) error {
	ctx := cCtx.Context
	log := flags.SetupLogger(cCtx)

	symbols, err := parseSymbols(cCtx.StringSlice(flags.SynthFlag.Name))
	if err != nil {
		return err
	}

	store, err := loadStore(cCtx, log)
	if err != nil {
		return err
	}

	registryAddr, err := store.RegistryAddress()
	if err != nil {
		return err
	}

	client, err := ethclient.DialContext(ctx, cCtx.String(flags.RpcAddrFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to query chain ID: %w", err)
	}

	regClient, err := registry.NewOnchainRegistryClient(client, client, common.BytesToAddress(registryAddr.Bytes()))
	if err != nil {
		return err
	}

	sgn, err := loadSigner(cCtx)
	if err != nil {
		return err
	}

	gasPrice := new(big.Int).Mul(big.NewInt(cCtx.Int64(flags.GasPriceGweiFlag.Name)), big.NewInt(1e9))
	auth, err := sgn.TransactOpts(chainID, gasPrice, cCtx.Uint64(flags.GasLimitFlag.Name))
	if err != nil {
		return err
	}
	regClient.SetTransactOpts(auth)

	var confirm interfaces.Confirmer = &stdinConfirmer{}
	if cCtx.Bool(flags.YesFlag.Name) {
		confirm = autoConfirmer{}
	}

	coordinator := removal.New(removal.Config{
		Registry:        regClient,
		Store:           store,
		Pending:         manifest.OpenPendingActions(pendingPath(cCtx), log),
		Confirm:         confirm,
		Signer:          sgn.Address(),
		RegistryAddress: registryAddr,
		DryRun:          cCtx.Bool(flags.DryRunFlag.Name),
		Log:             log,
	})

	return coordinator.RemoveSynths(ctx, symbols)
}

func listSynthsAction(cCtx *cli.Context) error {
	ctx := cCtx.Context
	log := flags.SetupLogger(cCtx)

	store, err := loadStore(cCtx, log)
	if err != nil {
		return err
	}

	registryAddr, err := store.RegistryAddress()
	if err != nil {
		return err
	}

	client, err := ethclient.DialContext(ctx, cCtx.String(flags.RpcAddrFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	regClient, err := registry.NewOnchainRegistryClient(client, client, common.BytesToAddress(registryAddr.Bytes()))
	if err != nil {
		return err
	}

	for _, entry := range store.Synths() {
		chainAddr, err := regClient.SynthAddress(ctx, entry.Symbol)
		if err != nil {
			return err
		}

		status := "ok"
		switch {
		case chainAddr.IsZero():
			status = "NOT REGISTERED"
		case !chainAddr.Equal(entry.Address):
			status = fmt.Sprintf("DIVERGED (chain %s)", chainAddr.Hex())
		}
		if removal.Protected(entry.Symbol) {
			status += " [protected]"
		}

		fmt.Printf("%-8s %s %s\n", entry.Symbol, entry.Address.Hex(), status)
	}

	return nil
}

func parseSymbols(raw []string) ([]interfaces.Symbol, error) {
	symbols := make([]interfaces.Symbol, 0, len(raw))
	for _, s := range raw {
		symbol, err := interfaces.NewSymbol(s)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}

func loadStore(cCtx *cli.Context, log *slog.Logger) (*manifest.Store, error) {
	var mirrors []manifest.Mirror
	for _, uri := range cCtx.StringSlice(flags.MirrorFlag.Name) {
		mirror, err := manifest.NewMirror(uri, log)
		if err != nil {
			return nil, err
		}
		mirrors = append(mirrors, mirror)
	}

	return manifest.Load(cCtx.String(flags.DeploymentDirFlag.Name), log, mirrors...)
}

func pendingPath(cCtx *cli.Context) string {
	return filepath.Join(cCtx.String(flags.DeploymentDirFlag.Name), manifest.PendingFileName)
}

func loadSigner(cCtx *cli.Context) (*signer.Signer, error) {
	if vaultAddr := cCtx.String(flags.PrivkeyVaultAddrFlag.Name); vaultAddr != "" {
		return signer.FromVault(cCtx.Context, signer.VaultConfig{
			Address: vaultAddr,
			Mount:   cCtx.String(flags.PrivkeyVaultMountFlag.Name),
			Path:    cCtx.String(flags.PrivkeyVaultPathFlag.Name),
			Field:   cCtx.String(flags.PrivkeyVaultFieldFlag.Name),
		})
	}

	hexkey := cCtx.String(flags.PrivkeyFlag.Name)
	if hexkey == "" {
		return nil, fmt.Errorf("no signing key: provide --privkey or --privkey-vault-addr")
	}
	return signer.FromHex(hexkey)
}

// stdinConfirmer prompts on stdout and reads a y/N answer from stdin.
type stdinConfirmer struct{}

func (stdinConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N] ", prompt)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// autoConfirmer answers yes without prompting, for --yes runs.
type autoConfirmer struct{}

func (autoConfirmer) Confirm(string) (bool, error) {
	return true, nil
}
