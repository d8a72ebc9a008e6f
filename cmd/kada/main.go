// Command kada is the console front-end for the Kada Commute attendance
// service.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/kada-dev/kada-commute/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
