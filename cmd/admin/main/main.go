package main

import (
	"os"

	"github.com/nativerollup/bridge/cmd/admin/cmd"
	"github.com/nativerollup/bridge/internal/opslog"
)

func main() {
	log := opslog.NewJSONLogger()
	if err := cmd.Execute(); err != nil {
		log.Error("execution failed", "error", err)
		os.Exit(1)
	}
}
