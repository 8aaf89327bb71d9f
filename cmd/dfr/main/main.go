package main

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/nativerollup/bridge/cmd/flags"
	cmddfr "github.com/nativerollup/bridge/cmd/dfr"
	"github.com/nativerollup/bridge/cmd/utils"
	"github.com/nativerollup/bridge/internal/config"
)

func main() {
	if err := config.LoadDotEnv(""); err != nil {
		log.Warn("failed to load .env", "error", err)
	}

	app := &cli.App{
		Name:   "dfr",
		Usage:  "Runs the Deterministic Fullnode/Replayer",
		Flags:  flags.DfrFlags,
		Action: utils.SubcommandAction(&cmddfr.App{}),
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("dfr exited with error", "error", err)
		os.Exit(1)
	}
}
