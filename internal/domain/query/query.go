// Package query filters and searches an immutable roster.
package query

import (
	"sort"
	"strings"

	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/weightkey"
)

// Normalize canonicalizes user-supplied criteria: the search is trimmed and
// lowercased, blank filters become model.All, the sport is lowercased and the
// weight filter is reduced to its key when it has one.
func Normalize(c model.Criteria) model.Criteria {
	out := model.Criteria{
		Search:    strings.ToLower(strings.TrimSpace(c.Search)),
		Sport:     strings.ToLower(strings.TrimSpace(c.Sport)),
		WeightKey: strings.TrimSpace(c.WeightKey),
	}
	if out.Sport == "" {
		out.Sport = model.All
	}
	switch {
	case out.WeightKey == "" || strings.EqualFold(out.WeightKey, model.All):
		out.WeightKey = model.All
	default:
		// A filter without letters keeps its authored text. Keys hold only
		// a-z, so it matches no participant, not the ones without a weight.
		if key := weightkey.ToKey(out.WeightKey); key != "" {
			out.WeightKey = key
		}
	}
	return out
}

// Matches reports whether p satisfies already-normalized criteria.
func Matches(p model.Participant, c model.Criteria) bool {
	if c.Sport != model.All && p.Sport != c.Sport {
		return false
	}
	if c.WeightKey != model.All && p.WeightKey != c.WeightKey {
		return false
	}
	if c.Search == "" {
		return true
	}
	hay := strings.ToLower(strings.Join([]string{p.Name, p.RecordSummary, p.Country, p.WeightLabel, p.Sport}, " "))
	return strings.Contains(hay, c.Search)
}

// Query returns the participants of view matching criteria, in roster order.
// The result is a new slice; the roster is never modified.
func Query(roster model.Roster, view model.View, criteria model.Criteria) []model.Participant {
	c := Normalize(criteria)
	out := make([]model.Participant, 0)
	for _, p := range roster {
		if view.Includes(p) && Matches(p, c) {
			out = append(out, p)
		}
	}
	return out
}

// WeightClass is one selectable weight filter.
type WeightClass struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facets lists the filter values present in a view.
type Facets struct {
	View          model.View    `json:"view"`
	Sports        []string      `json:"sports"`
	WeightClasses []WeightClass `json:"weight_classes"`
}

// BuildFacets collects the distinct sports and weight keys of view, sorted.
// A weight class is labeled with the first authored label seen for its key.
func BuildFacets(roster model.Roster, view model.View) Facets {
	sports := map[string]struct{}{}
	classes := map[string]*WeightClass{}
	for _, p := range roster {
		if !view.Includes(p) {
			continue
		}
		if p.Sport != "" {
			sports[p.Sport] = struct{}{}
		}
		if p.WeightKey == "" {
			continue
		}
		wc, ok := classes[p.WeightKey]
		if !ok {
			label := p.WeightLabel
			if label == "" {
				label = weightkey.Pretty(p.WeightKey)
			}
			wc = &WeightClass{Key: p.WeightKey, Label: label}
			classes[p.WeightKey] = wc
		}
		wc.Count++
	}

	f := Facets{
		View:          view,
		Sports:        make([]string, 0, len(sports)),
		WeightClasses: make([]WeightClass, 0, len(classes)),
	}
	for s := range sports {
		f.Sports = append(f.Sports, s)
	}
	sort.Strings(f.Sports)
	for _, wc := range classes {
		f.WeightClasses = append(f.WeightClasses, *wc)
	}
	sort.Slice(f.WeightClasses, func(i, j int) bool { return f.WeightClasses[i].Key < f.WeightClasses[j].Key })
	return f
}
