package main

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"study-buddy/internal/database"
	"study-buddy/internal/repository"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show generation outcomes from the event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.DBEnabled() {
			return errors.New("database is not configured (set DB_HOST)")
		}
		window, _ := cmd.Flags().GetDuration("since")

		db, err := database.NewSQLXOracleDB(cfg.GetDSN())
		if err != nil {
			return err
		}
		defer db.Close()

		since := time.Now().Add(-window)
		counts, err := repository.NewSQLXGenerationEventRepository(db).CountByOutcomeSince(cmd.Context(), since)
		if err != nil {
			return err
		}

		outcomes := make([]string, 0, len(counts))
		total := 0
		for outcome, n := range counts {
			outcomes = append(outcomes, outcome)
			total += n
		}
		sort.Strings(outcomes)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Since %s\n\n", since.Format(time.RFC3339))
		fmt.Fprintln(w, "OUTCOME\tCOUNT")
		for _, outcome := range outcomes {
			fmt.Fprintf(w, "%s\t%d\n", outcome, counts[outcome])
		}
		fmt.Fprintf(w, "TOTAL\t%d\n", total)
		return w.Flush()
	},
}

func init() {
	statsCmd.Flags().Duration("since", 24*time.Hour, "How far back to count events")
}
