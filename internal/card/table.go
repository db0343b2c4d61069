package card

import "strings"

// MakeMarkdownTable renders rows as a centred markdown table. The column set
// and order come from the first row; every column is as wide as its header
// or its widest rounded cell, whichever is larger. Returns "" when there are
// no rows.
func MakeMarkdownTable(rows []*Fields) string {
	if len(rows) == 0 {
		return ""
	}
	columns := rows[0].Names()
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, row := range rows {
		for i, col := range columns {
			v, _ := row.Get(col)
			if w := len(maybeRound(v)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(tableLine(columns, widths))
	b.WriteString(separatorLine(widths))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			v, _ := row.Get(col)
			cells[i] = maybeRound(v)
		}
		b.WriteString(tableLine(cells, widths))
	}
	return b.String()
}

func tableLine(values []string, widths []int) string {
	var b strings.Builder
	for i, v := range values {
		b.WriteString("| ")
		b.WriteString(v)
		b.WriteString(strings.Repeat(" ", widths[i]-len(v)+1))
	}
	b.WriteString("|\n")
	return b.String()
}

func separatorLine(widths []int) string {
	var b strings.Builder
	for _, w := range widths {
		b.WriteString("|:")
		b.WriteString(strings.Repeat("-", w))
		b.WriteString(":")
	}
	b.WriteString("|\n")
	return b.String()
}
