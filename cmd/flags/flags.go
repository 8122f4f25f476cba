package flags

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/synthforge/deploytool/common"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: "deploytool",
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

var RpcAddrFlag = &cli.StringFlag{
	Name:  "rpc-addr",
	Value: "http://127.0.0.1:8545",
	Usage: "address to connect to RPC",
}

var DeploymentDirFlag = &cli.StringFlag{
	Name:     "deployment",
	Required: true,
	Usage:    "path to the deployment directory holding the manifest files",
}

var GasPriceGweiFlag = &cli.Int64Flag{
	Name:  "gas-price",
	Value: 1,
	Usage: "gas price in gwei for removal transactions",
}

var GasLimitFlag = &cli.Uint64Flag{
	Name:  "gas-limit",
	Value: 300000,
	Usage: "gas limit for removal transactions",
}

var SynthFlag = &cli.StringSliceFlag{
	Name:  "synth",
	Usage: "synth symbol to remove, repeatable",
}

var YesFlag = &cli.BoolFlag{
	Name:  "yes",
	Value: false,
	Usage: "skip the confirmation prompt",
}

var DryRunFlag = &cli.BoolFlag{
	Name:  "dry-run",
	Value: false,
	Usage: "validate and report without mutating chain or local state",
}

var PrivkeyFlag = &cli.StringFlag{
	Name:    "privkey",
	EnvVars: []string{"DEPLOY_PRIVKEY"},
	Usage:   "hex-encoded private key to sign removal transactions with",
}

var PrivkeyVaultAddrFlag = &cli.StringFlag{
	Name:  "privkey-vault-addr",
	Usage: "Vault server address to load the signing key from instead of --privkey",
}

var PrivkeyVaultMountFlag = &cli.StringFlag{
	Name:  "privkey-vault-mount",
	Value: "secret",
	Usage: "Vault KV v2 mount holding the signing key",
}

var PrivkeyVaultPathFlag = &cli.StringFlag{
	Name:  "privkey-vault-path",
	Usage: "path within the Vault mount holding the signing key",
}

var PrivkeyVaultFieldFlag = &cli.StringFlag{
	Name:  "privkey-vault-field",
	Value: "privkey",
	Usage: "secret field holding the hex-encoded signing key",
}

var MirrorFlag = &cli.StringSliceFlag{
	Name:  "mirror",
	Usage: "manifest mirror URI (s3:// or ipfs://), repeatable",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var CommonFlags = []cli.Flag{
	RpcAddrFlag,
	DeploymentDirFlag,
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
}
