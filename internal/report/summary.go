// Package report renders human-readable run summaries for dbmover.
package report

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/dbmover/internal/migrator"
)

// statusText returns the plain status label for a result.
func statusText(res *migrator.Result) string {
	if res.Success {
		return "OK"
	}
	return "FAILED"
}

// Summary renders a fixed-width table of per-table results followed by a
// one-line run verdict. Column widths are computed with runewidth so table
// names with wide runes keep the grid aligned.
func Summary(results *migrator.Results) string {
	headers := []string{"TABLE", "STATUS", "ROWS", "ERRORS"}
	rows := make([][]string, 0, results.Len())

	for _, res := range results.All() {
		rows = append(rows, []string{
			res.Table,
			statusText(res),
			fmt.Sprintf("%d", res.RowsMigrated),
			strings.Join(res.Errors, "; "),
		})
	}

	widths := columnWidths(headers, rows)

	var b strings.Builder
	writeRow(&b, headers, widths, nil)
	writeSeparator(&b, widths)
	for i, res := range results.All() {
		var c *color.Color
		if res.Success {
			green := color.Green
			c = &green
		} else {
			red := color.Red
			c = &red
		}
		writeRow(&b, rows[i], widths, c)
	}

	b.WriteString("\n")
	if results.AllSucceeded() {
		b.WriteString(color.Green.Sprintf("Migration complete: %d tables, %d rows\n",
			results.Len(), results.TotalRows()))
	} else {
		failed := 0
		for _, res := range results.All() {
			if !res.Success {
				failed++
			}
		}
		b.WriteString(color.Red.Sprintf("Migration finished with failures: %d of %d tables failed\n",
			failed, results.Len()))
	}

	return b.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func writeRow(b *strings.Builder, cells []string, widths []int, c *color.Color) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := widths[i] - runewidth.StringWidth(cell)
		parts[i] = cell + strings.Repeat(" ", pad)
	}
	line := strings.Join(parts, "  ")
	line = strings.TrimRight(line, " ")
	if c != nil {
		line = c.Sprint(line)
	}
	b.WriteString(line)
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, widths []int) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(parts, "  "))
	b.WriteString("\n")
}
