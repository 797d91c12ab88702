// Concierge serves and inspects the agent hierarchy, its versioned training
// content and profile redaction policies.
package main

import (
	"os"

	"github.com/agentoven/concierge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
