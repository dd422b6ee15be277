package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/August26/nullvadcheck-go/internal/model"
)

// PrintResultsTable prints a human-readable table of per-account outcomes.
func PrintResultsTable(w io.Writer, outcomes []model.Outcome) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	// header
	fmt.Fprintln(tw, "ACCOUNT\tSTATUS\tMESSAGE")

	for _, o := range outcomes {
		msg := o.Message
		if msg == "" {
			msg = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Account, o.Category, msg)
	}

	tw.Flush()
}

// PrintSummary prints the aggregated batch stats.
func PrintSummary(w io.Writer, stats model.BatchStats, summary model.RunSummary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run %s (%s):\n", summary.RunID, summary.State)
	fmt.Fprintf(w, "  Total accounts:       %d\n", stats.TotalAccounts)
	fmt.Fprintf(w, "  Valid:                %d\n", stats.ValidAccounts)
	fmt.Fprintf(w, "  Invalid:              %d\n", stats.InvalidAccounts)
	fmt.Fprintf(w, "  Errors:               %d\n", stats.ErrorAccounts)
	fmt.Fprintf(w, "  Device limit reached: %d\n", stats.DeviceLimited)
	fmt.Fprintf(w, "  Valid rate:           %.1f%%\n", stats.ValidRatePct)
	fmt.Fprintf(w, "  Batch time:           %.2f s\n", float64(stats.TotalProcessingTimeMs)/1000.0)
}
