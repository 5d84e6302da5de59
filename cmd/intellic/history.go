package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"intellic/internal/compiler"
	"intellic/internal/reportstore"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously compiled reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := reportstore.Open(cmd.Context(), a.cfg.Store.Path, a.cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !strings.EqualFold(a.cfg.Output, compiler.FormatText) {
				return encodeValue(w, a.cfg.Output, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(w, "no reports yet")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(w, "%s  %s  %s %s  %s\n",
					r.CreatedAt.Local().Format(time.DateTime), r.ID, r.Report.Language, r.Report.Version, r.Report.Meaning)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of reports (0 for all)")
	return cmd
}
