package main

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	cmdcommitreveal "github.com/nativerollup/bridge/cmd/commitreveal"
	"github.com/nativerollup/bridge/cmd/flags"
	"github.com/nativerollup/bridge/cmd/utils"
	"github.com/nativerollup/bridge/internal/config"
)

func main() {
	if err := config.LoadDotEnv(""); err != nil {
		log.Warn("failed to load .env", "error", err)
	}

	app := &cli.App{
		Name:   "commitreveal",
		Usage:  "Runs the optional Commit-Reveal Wrapper in front of STC",
		Flags:  flags.CommitRevealFlags,
		Action: utils.SubcommandAction(&cmdcommitreveal.App{}),
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("commitreveal exited with error", "error", err)
		os.Exit(1)
	}
}
