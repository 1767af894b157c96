// Command lifeatlas extracts structured life-data entities from
// natural-language utterances and routes them to their domains.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/lifeatlas/lifeatlas/cmd/lifeatlas/commands"
)

func main() {
	// Provider API keys are commonly kept in a local .env during
	// development; absence is not an error.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
