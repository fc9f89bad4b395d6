package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/clipforge/clipforge/cmd/cli/commands"
)

func main() {
	// Load .env file if present, the CLI works fine without one
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
