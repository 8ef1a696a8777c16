package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var indexShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Build and print the source index",
	Long: `Derive the full source index and print every plugin with its owning
repository and, for recipe children, the parent plugin that declares
them.`,
	RunE: runIndexShow,
}

func init() {
	indexCmd.AddCommand(indexShowCmd)
}

func runIndexShow(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	app.ix.Build()

	entries := app.ix.Entries()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLUGIN\tREPOSITORY\tPARENT")
	for _, name := range names {
		e := entries[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, app.repoSpec(e.Repo), e.Parent)
	}
	return w.Flush()
}
