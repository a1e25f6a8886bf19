package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rotator/internal/queue"
	"rotator/internal/report"
)

const enteredLayout = "2006-01-02 15:04:05"

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show items in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var statuses []queue.Status
			if strings.TrimSpace(statusFlag) != "" {
				status, ok := queue.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q (expected one of %s)", statusFlag, statusNames())
				}
				statuses = append(statuses, status)
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("count items: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No items found")
			} else {
				rows := buildListRows(entries, cfg.Dwell.Duration(), time.Now())
				fmt.Fprintln(out, renderItemTable(rows))
			}
			fmt.Fprintln(out, summarizeStats(stats))
			return nil
		},
	}

	cmd.Flags().StringVarP(&statusFlag, "status", "s", "", "Only show items with this status")
	return cmd
}

func buildListRows(entries []queue.Entry, dwell time.Duration, now time.Time) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		remaining := "-"
		if entry.Status == queue.StatusWaiting {
			left := dwell - entry.Elapsed(now)
			if left < 0 {
				left = 0
			}
			remaining = strconv.FormatInt(report.RoundedSeconds(left), 10) + "s"
		}
		rows = append(rows, []string{
			entry.ID,
			statusTitle(entry.Status),
			entry.EnteredAt.Local().Format(enteredLayout),
			remaining,
		})
	}
	return rows
}

func summarizeStats(stats map[queue.Status]int) string {
	parts := make([]string, 0, len(queue.AllStatuses()))
	for _, status := range queue.AllStatuses() {
		parts = append(parts, fmt.Sprintf("%s: %d", statusTitle(status), stats[status]))
	}
	return strings.Join(parts, "  ")
}

func statusTitle(status queue.Status) string {
	return cases.Title(language.Und).String(strings.ToLower(string(status)))
}

func statusNames() string {
	names := make([]string, 0, len(queue.AllStatuses()))
	for _, status := range queue.AllStatuses() {
		names = append(names, strings.ToLower(string(status)))
	}
	return strings.Join(names, ", ")
}
