// chezman is a tui for managing chezmoi-tracked dotfiles
package main

import (
	"fmt"
	"os"

	"github.com/davrij/chezman/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
