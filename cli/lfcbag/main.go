// Package main is the lfcbag command itself.
package main

import (
	"os"

	lfccli "go.viam.com/lfcmsgs/cli"
	"go.viam.com/lfcmsgs/logging"
)

func main() {
	app := lfccli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Error(err)
		//nolint:errcheck
		logging.Global().Sync()
		os.Exit(1)
	}
}
