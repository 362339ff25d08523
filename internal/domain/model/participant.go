// Package model contains domain models passed between layers.
package model

import "strings"

// Status partitions the roster into active and former members.
type Status string

// Known statuses.
const (
	StatusCurrent Status = "current"
	StatusAlumni  Status = "alumni"
)

// ParseStatus maps free text from a sheet cell or config value to a Status.
// Any casing of "alumni" is alumni; any other non-empty value is current.
// The boolean is false when the input is blank.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if strings.EqualFold(s, string(StatusAlumni)) {
		return StatusAlumni, true
	}
	return StatusCurrent, true
}

// Participant is one normalized roster member.
// Values are never modified after ingestion.
type Participant struct {
	ID                 string   `json:"id"`
	Status             Status   `json:"status"`
	Name               string   `json:"name"`
	PhotoURL           string   `json:"photo_url,omitempty"`
	RecordSummary      string   `json:"record_summary,omitempty"`
	Sport              string   `json:"sport"`
	WeightLabel        string   `json:"weight_label,omitempty"`
	WeightKey          string   `json:"weight_key,omitempty"`
	Country            string   `json:"country,omitempty"`
	Age                string   `json:"age,omitempty"`
	SocialHandle       string   `json:"social_handle,omitempty"`
	SocialFollowing    string   `json:"social_following,omitempty"`
	ExternalProfileURL string   `json:"external_profile_url,omitempty"`
	Tagline            string   `json:"tagline,omitempty"`
	Bio                string   `json:"bio,omitempty"`
	ReplayRefs         []string `json:"replay_refs"`
	BoutRefs           []string `json:"bout_refs"`
	FeaturedEmbedRaw   string   `json:"featured_embed_raw,omitempty"`
}

// InstagramURL returns the profile link for SocialHandle, or "" when unset.
func (p Participant) InstagramURL() string {
	handle := strings.TrimPrefix(strings.TrimSpace(p.SocialHandle), "@")
	if handle == "" {
		return ""
	}
	return "https://instagram.com/" + handle
}

// Roster is the ordered participant list of one ingestion run.
type Roster []Participant

// Concat joins per-source lists in the given order. Duplicate ids coexist.
func Concat(parts ...[]Participant) Roster {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Roster, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// View selects a partition of the roster by status.
type View string

// Known views.
const (
	ViewCurrent View = "current"
	ViewAlumni  View = "alumni"
)

// ParseView accepts "current" or "alumni" (case-insensitive); blank means current.
func ParseView(s string) (View, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ViewCurrent):
		return ViewCurrent, true
	case string(ViewAlumni):
		return ViewAlumni, true
	default:
		return "", false
	}
}

// Includes reports whether p belongs to the view.
func (v View) Includes(p Participant) bool {
	if v == ViewAlumni {
		return p.Status == StatusAlumni
	}
	return p.Status != StatusAlumni
}

// All disables a sport or weight filter.
const All = "all"

// Criteria are the user-controlled filters of a query.
type Criteria struct {
	Search    string `json:"search"`
	Sport     string `json:"sport"`
	WeightKey string `json:"weight_key"`
}

// DefaultCriteria matches every participant of a view.
func DefaultCriteria() Criteria {
	return Criteria{Sport: All, WeightKey: All}
}

// Source is one configured feed contributing rows to the roster.
type Source struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	ForcedStatus Status `json:"forced_status,omitempty"`
}
