package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/samhoang/lockshard/internal/lockfile"
)

var repoHeaderStyle = lipgloss.NewStyle().Bold(true)

var statusVerbose bool

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show per-repository lock file status",
	Long: `Display the lock entries currently persisted for each configured
repository.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusVerbose, "verbose", "v", false, "List every lock entry")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	for _, r := range app.repos {
		f := lockfile.Read(r.LockPath(app.cfg.LockName))
		fmt.Printf("%s: %d entries\n", repoHeaderStyle.Render(r.Spec), len(f))

		if !statusVerbose || len(f) == 0 {
			continue
		}

		names := make([]string, 0, len(f))
		for name := range f {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, name := range names {
			e := f[name]
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", name, e.Branch, shortCommit(e.Commit), e.Source)
		}
		w.Flush()
	}

	return nil
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
