package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Kilerd/todoki/internal/report"
)

func newReportCmd(configPath *string) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print activity counts for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, *configPath, period)
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", report.PeriodToday, "reporting period: today, week or month")
	return cmd
}

func runReport(cmd *cobra.Command, configPath, period string) error {
	if !report.KnownPeriod(period) {
		return fmt.Errorf("unknown period %q (want today, week or month)", period)
	}

	_, gormDB, loc, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	rep, err := report.Aggregate(gormDB, period, loc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Period\t%s\n", rep.Period)
	fmt.Fprintf(w, "Created\t%d\n", rep.Created)
	fmt.Fprintf(w, "Done\t%d\n", rep.Done)
	fmt.Fprintf(w, "Archived\t%d\n", rep.Archived)
	fmt.Fprintf(w, "State changes\t%d\n", rep.StateChanges)
	fmt.Fprintf(w, "Comments\t%d\n", rep.Comments)
	return w.Flush()
}
