// package cli is the cobra front door for the tui
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davrij/chezman/internal/config"
	"github.com/davrij/chezman/internal/tui"
)

const version = "0.1.0"

var (
	binFlag     string
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "chezman",
	Short: "A terminal UI for managing chezmoi dotfiles.",
	Long: `chezman wraps the chezmoi command line tool in an interactive
terminal interface: add and remove files, inspect diffs, apply changes,
browse template data and run diagnostics without memorizing flags.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("chezman %s\n", version)
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("couldn't load config: %w", err)
		}

		if binFlag != "" {
			cfg.Bin = binFlag
		}

		if err := cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("couldn't create config directories: %w", err)
		}

		return tui.Run(cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&binFlag, "bin", "", "Path to the chezmoi executable")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Print version and exit")

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
