// Command accordsim evaluates and stress-tests maritime agreements: score
// a proposal against the modeled parties, then simulate how it holds up
// under stochastic field behavior.
package main

import (
	"os"

	"github.com/talgya/accord/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
