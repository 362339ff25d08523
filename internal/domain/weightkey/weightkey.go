// Package weightkey derives canonical weight-class keys from display labels.
package weightkey

import (
	"regexp"
	"strings"
)

// ToKey lowercases label and keeps only the ASCII letters a-z, so spacing,
// punctuation and casing differences collapse to one key. ToKey is idempotent.
func ToKey(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	var b strings.Builder
	b.Grow(len(label))
	for i := 0; i < len(label); i++ {
		if c := label[i]; isLower(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

var prefixes = regexp.MustCompile(`super|light|middle|heavy|cruiser`)

// Pretty turns a key back into readable words, e.g. "superfeatherweight"
// becomes "super featherweight". It is used when no authored label exists.
func Pretty(key string) string {
	if key == "" {
		return ""
	}
	var b strings.Builder
	last := 0
	for _, m := range prefixes.FindAllStringIndex(key, -1) {
		b.WriteString(key[last:m[1]])
		if m[1] < len(key) && isLower(key[m[1]]) {
			b.WriteByte(' ')
		}
		last = m[1]
	}
	b.WriteString(key[last:])
	return strings.Join(strings.Fields(b.String()), " ")
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
