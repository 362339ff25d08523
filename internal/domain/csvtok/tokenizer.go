// Package csvtok splits spreadsheet CSV exports into rows of raw fields.
//
// The scanner is deliberately permissive: a double quote toggles quoted mode
// wherever it appears, a doubled quote inside a quoted field is a literal
// quote, and line breaks inside quotes are field data. An unmatched quote
// makes the rest of the input one quoted field; this is not reported.
package csvtok

import "strings"

// Tokenize returns the rows of text. Rows whose fields are all blank are
// dropped, so empty input and trailing line breaks yield no extra rows.
func Tokenize(text string) [][]string {
	var (
		rows  [][]string
		row   []string
		field strings.Builder
		inQ   bool
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '"' && inQ && i+1 < len(text) && text[i+1] == '"':
			field.WriteByte('"')
			i++
		case ch == '"':
			inQ = !inQ
		case inQ:
			field.WriteByte(ch)
		case ch == ',':
			endField()
		case ch == '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		case ch == '\n':
			endRow()
		default:
			field.WriteByte(ch)
		}
	}
	endRow()

	out := rows[:0]
	for _, r := range rows {
		if !blank(r) {
			out = append(out, r)
		}
	}
	return out
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
