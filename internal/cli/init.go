// package cli is the cobra front door for the tui
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davrij/chezman/internal/chezmoi"
	"github.com/davrij/chezman/internal/config"
)

// initCmd sets up chezmoi before the first interactive session
// a plain subcommand rather than a screen - there's nothing to browse yet
var initCmd = &cobra.Command{
	Use:   "init [repo]",
	Short: "Initialize chezmoi, optionally from an existing dotfiles repo.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("couldn't load config: %w", err)
		}

		if binFlag != "" {
			cfg.Bin = binFlag
		}

		client := chezmoi.NewClient(chezmoi.Options{
			Bin:          cfg.Bin,
			Timeout:      cfg.CommandTimeout,
			ProbeTimeout: cfg.ProbeTimeout,
		})

		repo := ""
		if len(args) > 0 {
			repo = args[0]
		}

		out, err := client.Init(context.Background(), repo)
		if err != nil {
			if hint := chezmoi.Suggest(err); hint != "" {
				return fmt.Errorf("%w\nhint: %s", err, hint)
			}
			return err
		}

		if out != "" {
			fmt.Print(out)
		}
		fmt.Println("chezmoi initialized - run chezman to start managing files")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&binFlag, "bin", "", "Path to the chezmoi executable")
}
