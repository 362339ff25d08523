// Package normalize maps tokenized sheet rows onto Participant records.
package normalize

import (
	"strings"

	"github.com/okian/roster/internal/domain/csvtok"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/weightkey"
)

// Recognized column headers. Matching is exact and case-sensitive.
const (
	ColID            = "id"
	ColStatus        = "status"
	ColName          = "name"
	ColPhoto         = "photo"
	ColRecord        = "record"
	ColSport         = "sport"
	ColWeight        = "weight"
	ColCountry       = "country"
	ColAge           = "age"
	ColIGHandle      = "igHandle"
	ColIGFollowing   = "igFollowing"
	ColBoxRec        = "boxrec"
	ColTagline       = "tagline"
	ColBio           = "bio"
	ColReplays       = "replays"
	ColBouts         = "bouts"
	ColFeaturedEmbed = "featuredEmbed"
)

// DefaultSport applies when the sport column is absent or blank.
const DefaultSport = "boxing"

const notFound = -1

// columns resolves header names to indexes. The first matching header wins.
type columns map[string]int

func indexHeaders(headers []string) columns {
	c := make(columns, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, ok := c[h]; !ok {
			c[h] = i
		}
	}
	return c
}

func (c columns) index(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return notFound
}

// cell returns the trimmed value of column name, or "" when the column or
// the cell is missing.
func (c columns) cell(row []string, name string) string {
	i := c.index(name)
	if i == notFound || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Normalize converts data rows (header row excluded) into participants in row
// order. Rows with a blank name are skipped. A header list without "name"
// fails with a *SchemaError.
func Normalize(rows [][]string, headers []string, opts ...Option) ([]model.Participant, error) {
	o := buildOptions(opts)
	cols := indexHeaders(headers)
	if cols.index(ColName) == notFound {
		trimmed := make([]string, len(headers))
		for i, h := range headers {
			trimmed[i] = strings.TrimSpace(h)
		}
		return nil, &SchemaError{Missing: ColName, Headers: trimmed}
	}

	out := make([]model.Participant, 0, len(rows))
	for _, row := range rows {
		name := cols.cell(row, ColName)
		if name == "" {
			continue
		}
		weight := cols.cell(row, ColWeight)
		out = append(out, model.Participant{
			ID:                 resolveID(cols.cell(row, ColID), o.newID),
			Status:             resolveStatus(o.forcedStatus, cols.cell(row, ColStatus)),
			Name:               name,
			PhotoURL:           cols.cell(row, ColPhoto),
			RecordSummary:      cols.cell(row, ColRecord),
			Sport:              resolveSport(cols.cell(row, ColSport)),
			WeightLabel:        weight,
			WeightKey:          weightkey.ToKey(weight),
			Country:            cols.cell(row, ColCountry),
			Age:                cols.cell(row, ColAge),
			SocialHandle:       cols.cell(row, ColIGHandle),
			SocialFollowing:    cols.cell(row, ColIGFollowing),
			ExternalProfileURL: cols.cell(row, ColBoxRec),
			Tagline:            cols.cell(row, ColTagline),
			Bio:                cols.cell(row, ColBio),
			ReplayRefs:         SplitRefs(cols.cell(row, ColReplays)),
			BoutRefs:           SplitRefs(cols.cell(row, ColBouts)),
			FeaturedEmbedRaw:   cols.cell(row, ColFeaturedEmbed),
		})
	}
	return out, nil
}

// Parse tokenizes already-fetched text and normalizes it. Fewer than two rows
// (no data) yields an empty result without error, even without a name column.
func Parse(text string, opts ...Option) ([]model.Participant, error) {
	p, _, err := ParseCounted(text, opts...)
	return p, err
}

// ParseCounted is Parse that also returns the number of data rows read, so
// callers can report how many rows were skipped.
func ParseCounted(text string, opts ...Option) ([]model.Participant, int, error) {
	rows := csvtok.Tokenize(text)
	if len(rows) < 2 {
		return []model.Participant{}, 0, nil
	}
	p, err := Normalize(rows[1:], rows[0], opts...)
	return p, len(rows) - 1, err
}

// SplitRefs splits a cell on any mix of newlines and commas, trimming pieces
// and dropping empty ones. Order and duplicates are kept.
func SplitRefs(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool { return r == '\n' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func resolveID(cell string, gen IDGenerator) string {
	if cell != "" {
		return cell
	}
	return gen()
}

func resolveStatus(forced model.Status, cell string) model.Status {
	if forced != "" {
		return forced
	}
	if s, ok := model.ParseStatus(cell); ok {
		return s
	}
	return model.StatusCurrent
}

func resolveSport(cell string) string {
	if cell == "" {
		return DefaultSport
	}
	return strings.ToLower(cell)
}
