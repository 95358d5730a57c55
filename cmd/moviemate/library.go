package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/amaumene/moviemate/internal/config"
	"github.com/amaumene/moviemate/internal/models"
	"github.com/amaumene/moviemate/internal/store"
	"github.com/amaumene/moviemate/internal/utils"
	"github.com/spf13/cobra"
)

func newLibraryCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "library [want|watched]",
		Short:     "Print a user list from the local database",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(models.MembershipWant), string(models.MembershipWatched)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
			logger.SetOutput(cmd.ErrOrStderr())

			db, err := models.NewDatabase(cfg.DatabaseFile)
			if err != nil {
				return fmt.Errorf("failed to open database (is the server running?): %w", err)
			}
			defer db.Close()

			st, err := store.New(db, logger)
			if err != nil {
				return fmt.Errorf("failed to load user state: %w", err)
			}

			entries := st.Entries(models.Membership(args[0]))
			if asJSON {
				return writeEntriesJSON(cmd.OutOrStdout(), entries)
			}
			return writeEntriesTable(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	return cmd
}

func writeEntriesJSON(w io.Writer, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeEntriesTable(w io.Writer, entries []models.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tID\tSINCE")
	for _, entry := range entries {
		since := entry.AddedAt
		if entry.Membership == models.MembershipWatched {
			since = entry.WatchedAt
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", entry.Ref.MediaType, entry.Ref.ID, since.Format(time.DateOnly))
	}
	return tw.Flush()
}
