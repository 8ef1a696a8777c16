package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samhoang/lockshard/internal/config"
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default lockshard.toml configuration",
	Long: `Generate a default lockshard.toml configuration file.

The config file controls:
  - The ordered repository list (first repository wins ties)
  - The per-repository lock file name
  - Where the host plugin manager's lockfile and state export live

Example lockshard.toml:

  repos = ["~/.config/nvim", "~/work/nvim-config"]
  lock_name = "plugin-lock.json"
  host_lock = "~/.config/nvim/lazy-lock.json"
  host_state = "~/.local/state/nvim/lockshard-state.yaml"
  bootstrap = "lazy.nvim"`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}

	// Check if already exists
	if _, err := os.Stat(paths.ConfigPath); err == nil {
		fmt.Printf("Config already exists: %s\n", paths.ConfigPath)
		fmt.Println("Edit it directly or delete to regenerate.")
		return nil
	}

	cfg := config.Default()
	if err := cfg.Save(paths.ConfigPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Created: %s\n", paths.ConfigPath)
	fmt.Println("Add your repositories under 'repos' before running refresh.")
	return nil
}
