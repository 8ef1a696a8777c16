package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samhoang/lockshard/internal/task"
)

var reconcilePlain bool

var reconcileCmd = &cobra.Command{
	Use:     "reconcile",
	Aliases: []string{"sync"},
	Short:   "Write per-repository lock files",
	Long: `Rebuild the source index, then reconcile live plugin state, the
host's lockfile and the historical lockfile snapshot into one lock
file per configured repository. Each repository's lock file is fully
replaced; a write failure for one repository does not block the others.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcilePlain, "plain", false, "Disable the progress UI")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	buildPlan := app.ix.BuildPlan()
	batch := app.runner.Start(buildPlan.Tasks, task.Options{OnComplete: buildPlan.Finish})
	if err := runBatch("Indexing plugins", batch, reconcilePlain); err != nil {
		return err
	}
	if batch.Cancelled() {
		fmt.Println("Cancelled")
		return nil
	}

	plan, err := app.eng.Plan()
	if err != nil {
		// Host integration failure: report and skip this pass.
		return err
	}

	batch = app.runner.Start(plan.Tasks, task.Options{})
	if err := runBatch("Reconciling lock files", batch, reconcilePlain); err != nil {
		return err
	}
	if batch.Cancelled() {
		fmt.Println("Cancelled")
		return nil
	}
	if err := plan.Err(); err != nil {
		return err
	}

	fmt.Printf("Wrote %d lock files\n", len(app.repos))
	return nil
}
