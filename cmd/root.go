package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samhoang/lockshard/internal/config"
	"github.com/samhoang/lockshard/internal/logging"
)

var Version = "dev"

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "lockshard",
	Short: "Per-repository lock files for your plugin manager",
	Long: `lockshard splits a plugin manager's single lockfile into one lock
file per configuration repository. Plugins declared across several
independent repositories each get their own persisted lock record,
while the manager keeps believing it owns one unified lockfile.`,
	Version: Version,
	Run:     runRoot,
}

func runRoot(cmd *cobra.Command, args []string) {
	paths, err := config.ResolvePaths()
	if err != nil {
		cmd.Help()
		return
	}

	if !paths.IsConfigured() {
		fmt.Println("lockshard - per-repository lock files")
		fmt.Println()
		fmt.Println("Not configured. Get started with:")
		fmt.Println()
		fmt.Println("  lockshard config init    Write a starter config")
		fmt.Println("  lockshard --help         Show all commands")
		return
	}

	cmd.Help()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	cobra.OnInitialize(func() {
		logging.Setup(logLevel)
	})
}
