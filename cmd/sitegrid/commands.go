package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/sitegrid/internal/storage/sqlite"
)

const commandsHelp = `Usage:
  sitegrid [flags]                   run the simulation
  sitegrid snapshots [limit]         list snapshots of the latest effect of -variant
  sitegrid migrate status|down       show or roll back the snapshot schema
`

// runCommand dispatches a subcommand against the snapshot database.
func runCommand(w io.Writer, dbPath, kind string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\n%s", commandsHelp)
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	switch args[0] {
	case "snapshots":
		limit := 20
		if len(args) > 1 {
			if _, err := fmt.Sscan(args[1], &limit); err != nil {
				return fmt.Errorf("invalid limit %q: %w", args[1], err)
			}
		}
		return listSnapshots(w, store, kind, limit)
	case "migrate":
		if len(args) < 2 {
			return fmt.Errorf("usage: sitegrid migrate status|down")
		}
		return migrateCommand(w, store, args[1])
	case "help":
		_, err := io.WriteString(w, commandsHelp)
		return err
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], commandsHelp)
	}
}

// listSnapshots prints the newest snapshots of the most recent effect of kind.
// limit <= 0 lists all of them.
func listSnapshots(w io.Writer, store *sqlite.Store, kind string, limit int) error {
	latest, err := store.LatestSnapshotByKind(kind)
	if err != nil {
		return err
	}
	snaps, err := store.ListSnapshots(latest.EffectID, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "effect %s (%s)\n", latest.EffectID, kind)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTAKEN\tREASON\tSITES\tBLOB")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d/%d\t%d\n",
			s.SnapshotID, time.Unix(0, s.TakenUnixNanos).UTC().Format(time.RFC3339),
			s.Reason, s.ElementCount, s.Capacity, len(s.Blob))
	}
	return tw.Flush()
}

// migrateCommand reports or rolls back the schema version.
func migrateCommand(w io.Writer, store *sqlite.Store, action string) error {
	switch action {
	case "status":
	case "down":
		if err := store.MigrateDown(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}
	version, dirty, err := store.MigrateVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	fmt.Fprintf(w, "schema version %d (dirty=%v)\n", version, dirty)
	return nil
}
