package sgv

import (
	"fmt"
	"io"
	"strings"
)

// PrintTable renders rows as a column-aligned table: header centered, first
// column left-aligned, remaining columns centered. Column width is the widest
// cell plus padding.
func PrintTable(w io.Writer, header []string, rows [][]string) {
	maxlens := make([]int, len(header))
	for n, cell := range header {
		maxlens[n] = len(cell)
	}

	for _, row := range rows {
		for n, cell := range row {
			if n < len(maxlens) && len(cell) > maxlens[n] {
				maxlens[n] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for n, cell := range header {
		sb.WriteString(center(cell, maxlens[n]+3))
	}
	fmt.Fprintln(w, sb.String())

	sb.Reset()
	for n := range header {
		sb.WriteString(strings.Repeat("-", maxlens[n]+2) + " ")
	}
	fmt.Fprintln(w, sb.String())

	for _, row := range rows {
		sb.Reset()
		for n, cell := range row {
			if n == 0 {
				sb.WriteString(leftAlign(cell, maxlens[n]+3))
			} else {
				sb.WriteString(center(cell, maxlens[n]+3))
			}
		}
		fmt.Fprintln(w, sb.String())
	}
}

func center(str string, width int) string {
	if len(str) >= width {
		return str
	}

	pad := width - len(str)
	left := pad / 2

	return strings.Repeat(" ", left) + str + strings.Repeat(" ", pad-left)
}

func leftAlign(str string, width int) string {
	if len(str) >= width {
		return str
	}

	return str + strings.Repeat(" ", width-len(str))
}
