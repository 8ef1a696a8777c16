package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/samhoang/lockshard/internal/logging"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch repositories and reconcile on declaration changes",
	Long: `Watch every configured repository's declaration directory and run a
full refresh plus reconcile whenever declaration files change. Events
are debounced so a burst of edits triggers a single pass.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Settle time before reacting to changes")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	log := logging.Named("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, r := range app.repos {
		declDir := filepath.Join(r.Root, app.cfg.DeclarationDir)
		if err := watchTree(watcher, declDir); err != nil {
			log.Warn("watching repository", "repo", r.Spec, "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial pass so the lock files reflect current state
	reconcilePass(app, log)
	fmt.Println("Watching for declaration changes (ctrl-c to stop)")

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					watchTree(watcher, ev.Name)
				}
			}
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)

		case <-debounce.C:
			reconcilePass(app, log)
		}
	}
}

// watchTree adds dir and its subdirectories to the watcher. fsnotify
// watches are not recursive.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func reconcilePass(app *app, log hclog.Logger) {
	app.ix.Build()
	if err := app.eng.Reconcile(); err != nil {
		log.Error("reconcile failed", "error", err)
		return
	}
	log.Info("lock files reconciled", "repos", len(app.repos))
}
