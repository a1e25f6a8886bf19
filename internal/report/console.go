package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Divider separates the sections of console output.
const Divider = "\n--------------------------------------------------------------------------------\n"

// ConsoleOptions controls console rendering.
type ConsoleOptions struct {
	// Color highlights ready items; enable only for terminals.
	Color bool
}

// RenderEvaluation writes the waiting and ready lists, or a notice that the
// waiting queue is empty.
func RenderEvaluation(w io.Writer, rep Report, opts ConsoleOptions) error {
	var b strings.Builder
	if len(rep.Waiting) > 0 {
		b.WriteString("The following items still have time to wait before they can be removed from the waiting queue:\n\n")
		for i, pending := range rep.Waiting {
			fmt.Fprintf(&b, "%d: %s\n", i+1, waitingLine(pending))
		}
		b.WriteString(Divider)
	}
	if len(rep.Ready) > 0 {
		b.WriteString("Please remove the following items from the waiting queue for further use:\n\n")
		for i, id := range rep.Ready {
			if opts.Color {
				id = text.Colors{text.FgGreen, text.Bold}.Sprint(id)
			}
			fmt.Fprintf(&b, "%d: %s\n", i+1, id)
		}
		b.WriteString(Divider)
	}
	if rep.Empty() {
		b.WriteString("There are no items in the waiting queue\n")
		b.WriteString(Divider)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderAdded confirms the items that were placed in the waiting queue.
func RenderAdded(w io.Writer, ids []string) error {
	var b strings.Builder
	if len(ids) == 0 {
		b.WriteString("No items were added to the waiting queue.\n")
	} else {
		fmt.Fprintf(&b, "%s been added to the waiting queue.\n", countItems(len(ids)))
	}
	b.WriteString(Divider)
	_, err := io.WriteString(w, b.String())
	return err
}

func countItems(n int) string {
	if n == 1 {
		return "1 item has"
	}
	return fmt.Sprintf("%d items have", n)
}
