package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var itemColumns = table.Row{"ID", "Status", "Entered", "Remaining"}

// renderItemTable lays out list rows with the remaining-time column
// right-aligned.
func renderItemTable(rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(itemColumns)
	for _, row := range rows {
		r := make(table.Row, len(itemColumns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Remaining", Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
