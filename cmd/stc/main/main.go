package main

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/cmd/flags"
	cmdstc "github.com/nativerollup/bridge/cmd/stc"
	"github.com/nativerollup/bridge/cmd/utils"
	"github.com/nativerollup/bridge/internal/config"
)

func main() {
	if err := config.LoadDotEnv(""); err != nil {
		log.Warn("failed to load .env", "error", err)
	}

	app := &cli.App{
		Name:   "stc",
		Usage:  "Runs the State-Transition Commitment Core's RPC and admin surfaces",
		Flags:  flags.StcFlags,
		Action: utils.SubcommandAction(&cmdstc.App{}),
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("stc exited with error", "error", err)
		os.Exit(1)
	}
}
