package cmd

import (
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect or clear the source index",
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
