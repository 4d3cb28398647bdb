package export

import "strings"

// Serialize renders the header plus all rows as CSV text, preserving row
// order exactly as given. A cell is quoted, with inner quotes doubled, only
// when it contains a comma, quote, or newline; everything else is written
// bare. Output length is always 1 + len(rows) lines.
func Serialize(rows []*Row) string {
	var sb strings.Builder

	writeLine(&sb, Columns)
	for _, r := range rows {
		writeLine(&sb, r.cells())
	}
	return sb.String()
}

func writeLine(sb *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(escapeCell(c))
	}
	sb.WriteByte('\n')
}

// escapeCell applies the quoting contract for one cell.
func escapeCell(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
