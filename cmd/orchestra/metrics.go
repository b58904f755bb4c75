package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/orchestra/models"
)

func newMetricsCmd(c *cli) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print live metrics until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.requireSession(cmd.Context()); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			snapshots := make(chan models.Metrics, 16)
			unsubscribe := c.services.MetricsService.Subscribe(func(m models.Metrics) {
				select {
				case snapshots <- m:
				default:
					// the terminal is slower than the stream
				}
			})
			defer unsubscribe()

			w := cmd.OutOrStdout()
			for printed := 0; count == 0 || printed < count; printed++ {
				select {
				case <-ctx.Done():
					return nil
				case m := <-snapshots:
					printMetrics(w, m)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "exit after this many snapshots (0 means never)")

	return cmd
}

func printMetrics(w io.Writer, m models.Metrics) {
	ts := "-"
	if !m.Timestamp.IsZero() {
		ts = m.Timestamp.Local().Format("15:04:05")
	}
	fmt.Fprintf(w, "%s  agents %d  queued %d  done %s  failed %s  tokens %s  cost $%s  saved $%s  latency %.0fms\n",
		ts,
		m.ActiveAgents,
		m.QueuedTasks,
		humanize.Comma(m.CompletedTasks),
		humanize.Comma(m.FailedTasks),
		humanize.Comma(m.TokensUsed),
		humanize.CommafWithDigits(m.CostUSD, 2),
		humanize.CommafWithDigits(m.SavingsUSD, 2),
		m.AvgLatencyMS,
	)
}
