package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/klapauciusisgreat/splitmp3/internal/split"
)

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderSegmentTable formats the run result as a summary table.
func renderSegmentTable(result *split.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Start", "End", "Length", "File", "Status"})

	for _, seg := range result.Segments {
		status := "ok"
		if seg.Err != nil {
			status = "failed"
		} else if seg.URL != "" {
			status = seg.URL
		}
		tw.AppendRow(table.Row{
			seg.Index,
			formatTimestamp(seg.Interval.Start),
			formatTimestamp(seg.Interval.End),
			fmt.Sprintf("%.1fs", seg.Interval.Duration()),
			seg.Name,
			status,
		})
	}
	tw.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%.1fs", result.Duration), result.Dir, string(result.Outcome)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	return tw.Render()
}

// formatTimestamp renders seconds as h:mm:ss.t for readability.
func formatTimestamp(sec float64) string {
	h := int(sec) / 3600
	m := (int(sec) % 3600) / 60
	s := sec - float64(h*3600+m*60)
	return fmt.Sprintf("%d:%02d:%04.1f", h, m, s)
}
