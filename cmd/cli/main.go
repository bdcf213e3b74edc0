// Package main is the entry point for the feactl CLI.
// The CLI is the developer terminal tool for interacting with the FEA
// orchestration API.
package main

import (
	"os"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
