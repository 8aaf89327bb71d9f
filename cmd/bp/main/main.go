package main

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	cmdbp "github.com/nativerollup/bridge/cmd/bp"
	"github.com/nativerollup/bridge/cmd/flags"
	"github.com/nativerollup/bridge/cmd/utils"
	"github.com/nativerollup/bridge/internal/config"
)

func main() {
	if err := config.LoadDotEnv(""); err != nil {
		log.Warn("failed to load .env", "error", err)
	}

	app := &cli.App{
		Name:   "bp",
		Usage:  "Runs the Builder/Planner",
		Flags:  flags.BpFlags,
		Action: utils.SubcommandAction(&cmdbp.App{}),
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("bp exited with error", "error", err)
		os.Exit(1)
	}
}
