package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the source index and its persistent cache",
	RunE:  runIndexClear,
}

func init() {
	indexCmd.AddCommand(indexClearCmd)
}

func runIndexClear(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	app.ix.Clear()
	fmt.Println("Source index cleared")
	return nil
}
