package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/samhoang/lockshard/internal/index"
	"github.com/samhoang/lockshard/internal/task"
	"github.com/samhoang/lockshard/internal/tui"
)

var refreshPlain bool

var refreshCmd = &cobra.Command{
	Use:   "refresh [plugin...]",
	Short: "Rebuild the source index",
	Long: `Rebuild the mapping of plugin names to their declaring repositories.

With no arguments the whole index is re-derived from every configured
repository. With plugin names, only those names are retargeted and the
rest of the index is left untouched; the result per name is reported as
detected, moved, unchanged or not found.

Examples:
  lockshard refresh
  lockshard refresh telescope.nvim cmp-path`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshPlain, "plain", false, "Disable the progress UI")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		plan := app.ix.BuildPlan()
		batch := app.runner.Start(plan.Tasks, task.Options{OnComplete: plan.Finish})
		if err := runBatch("Building source index", batch, refreshPlain); err != nil {
			return err
		}
		if batch.Cancelled() {
			fmt.Println("Cancelled")
			return nil
		}
		fmt.Printf("Indexed %d plugins across %d repositories\n", app.ix.Len(), len(app.repos))
		return nil
	}

	plan := app.ix.Retarget(args)
	batch := app.runner.Start(plan.Tasks, task.Options{})
	if err := runBatch("Retargeting plugins", batch, refreshPlain); err != nil {
		return err
	}
	if batch.Cancelled() {
		fmt.Println("Cancelled")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLUGIN\tRESULT\tREPOSITORY")
	for _, r := range plan.Results() {
		repo := ""
		switch r.Outcome {
		case index.OutcomeMoved:
			repo = fmt.Sprintf("%s -> %s", app.repoSpec(r.OldRepo), app.repoSpec(r.NewRepo))
		case index.OutcomeNotFound:
		default:
			repo = app.repoSpec(r.NewRepo)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Outcome, repo)
	}
	return w.Flush()
}

// runBatch drives a batch to completion, either through the progress
// UI or by draining it synchronously. Both paths produce identical
// results.
func runBatch(title string, batch *task.Batch, plain bool) error {
	if plain || !stdoutIsTerminal() {
		batch.Drain()
		return nil
	}
	return tui.Run(title, batch)
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
