package embed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Policy decides what happens to references that already contain markup.
type Policy string

// Policies.
const (
	// PolicyTrust passes authored iframe markup through verbatim.
	PolicyTrust Policy = "trust"
	// PolicyAllowlist keeps only iframes whose src is a recognized provider
	// URL and rebuilds their markup.
	PolicyAllowlist Policy = "allowlist"
)

// ParsePolicy accepts "trust" or "allowlist" (case-insensitive); blank means trust.
func ParsePolicy(s string) (Policy, bool) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyTrust:
		return PolicyTrust, true
	case PolicyAllowlist:
		return PolicyAllowlist, true
	default:
		return "", false
	}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPolicy sets the markup policy. Unknown values are ignored.
func WithPolicy(p Policy) Option {
	return func(r *Resolver) {
		if p == PolicyTrust || p == PolicyAllowlist {
			r.policy = p
		}
	}
}

// sanitizeIframe extracts the first iframe src from authored markup and
// re-resolves it. Unrecognized sources degrade to a link.
func sanitizeIframe(raw string) Descriptor {
	fallback := Descriptor{Kind: KindLink, URL: strings.TrimSpace(raw)}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return fallback
	}
	src := strings.TrimSpace(doc.Find("iframe").First().AttrOr("src", ""))
	if src == "" {
		return fallback
	}
	if d, ok := resolveURL(src); ok {
		return d
	}
	return Descriptor{Kind: KindLink, URL: src}
}
