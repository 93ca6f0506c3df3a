// Command ragkit loads GitHub documents, embeds them with a local MiniLM
// model and searches them.
package main

import (
	"os"

	"github.com/custodia-labs/ragkit/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragkit/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		logger.Fail("%v", err)
		os.Exit(1)
	}
}
