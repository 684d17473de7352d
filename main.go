// main is the entry point for the stockcast CLI.
package main

import (
	"github.com/planhorizon/stockcast/cmd"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/internal/planstore"
)

func main() {
	err := cmd.Execute()

	// Stores and profiles are flushed before exiting, even on command
	// failure. LogFatal calls os.Exit, so defer would skip them.
	planstore.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Cannot stop profiling cleanly", perr)
	}

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
