package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridsight/gridsight/core"
	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/internal/snapshot"
	"github.com/gridsight/gridsight/schema"
)

// openSnapshotStore opens the configured snapshot database, defaulting to a
// file next to the data root when none is configured.
func openSnapshotStore() (*snapshot.Store, error) {
	path := cfg.SnapshotDB
	if path == "" {
		path = "gridsight_snapshots.db"
	}
	return snapshot.Open(path, logger)
}

// snapshotCmd manages the persisted series snapshots.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage persisted series snapshots",
	Long: `Manage the SQLite store of persisted plot series.

Snapshots let a dashboard restart serve the last known series while the
in-memory result cache warms back up.

Subcommands:
  save   - Assemble a series and persist it
  status - Show snapshot counts and timestamps
  clear  - Remove all persisted snapshots

Examples:
  # Persist a series for later
  gridsight snapshot save Desert_Sun_LLC generation-timeseries

  # Inspect the store
  gridsight snapshot status`,
}

// snapshotSaveCmd assembles and persists one series.
var snapshotSaveCmd = &cobra.Command{
	Use:     "save <site> <kind>",
	Short:   "Assemble a plot series and persist it to the snapshot store",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		req := core.SeriesRequest{Site: args[0], Kind: schema.PlotKind(args[1])}
		result, err := pipeline.AssembleSeries(rootCtx, req)
		if err != nil {
			contract.LogFatal("Cannot assemble series", err)
		}

		store, err := openSnapshotStore()
		if err != nil {
			contract.LogFatal("Cannot open snapshot store", err)
		}
		defer func() { _ = store.Close() }()

		key := fmt.Sprintf("%s|%s", req.Site, req.Kind)
		if err := store.Put(rootCtx, key, result); err != nil {
			contract.LogFatal("Cannot store snapshot", err)
		}
		fmt.Printf("Snapshot %q saved (%s)\n", key, result.Diagnostic.Reason)
	},
}

// snapshotStatusCmd shows snapshot store statistics.
var snapshotStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display snapshot store statistics",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openSnapshotStore()
		if err != nil {
			contract.LogFatal("Cannot open snapshot store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.Status(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot read snapshot status", err)
		}
		fmt.Printf("Entries: %d\n", status.Entries)
		if status.Entries > 0 {
			fmt.Printf("Oldest:  %s\n", status.Oldest.Format(contract.DateTimeFormat))
			fmt.Printf("Newest:  %s\n", status.Newest.Format(contract.DateTimeFormat))
		}
	},
}

// snapshotClearCmd removes every snapshot.
var snapshotClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all persisted snapshots",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openSnapshotStore()
		if err != nil {
			contract.LogFatal("Cannot open snapshot store", err)
		}
		defer func() { _ = store.Close() }()

		n, err := store.Clear(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot clear snapshots", err)
		}
		fmt.Printf("Removed %d snapshots.\n", n)
	},
}
