// Package embed turns free-form video references from roster sheets into
// descriptors the presentation layer can render safely.
//
// Trust boundary: under PolicyTrust (the default) a reference that already
// contains <iframe> markup is returned verbatim. The sheet is treated as
// operator-authored content, so only trusted editors may write to it. Use
// PolicyAllowlist when that does not hold; it re-synthesizes iframes from
// recognized YouTube and Vimeo URLs and never emits authored markup.
package embed

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Kind tags a Descriptor.
type Kind string

// Descriptor kinds.
const (
	KindIframe Kind = "iframe"
	KindLink   Kind = "link"
	KindEmpty  Kind = "empty"
)

// Descriptor describes how to present one video reference.
// Markup is set for iframes and URL for links; Provider, VideoID and URL are
// filled in when the resolver recognized the reference.
type Descriptor struct {
	Kind     Kind   `json:"kind"`
	Markup   string `json:"markup,omitempty"`
	URL      string `json:"url,omitempty"`
	Provider string `json:"provider,omitempty"`
	VideoID  string `json:"video_id,omitempty"`
}

// Providers.
const (
	ProviderYouTube = "youtube"
	ProviderVimeo   = "vimeo"
)

var (
	youtubeWatch = regexp.MustCompile(`(?i)(?:youtube\.com/watch\?(?:[^#\s]*&)?v=|youtu\.be/)([A-Za-z0-9_-]{6,})`)
	vimeoVideo   = regexp.MustCompile(`(?i)(?:^|[/.])vimeo\.com/(\d+)`)
	embedURL     = regexp.MustCompile(`(?i)^(?:https?:)?//(?:www\.)?(youtube(?:-nocookie)?\.com/embed/|player\.vimeo\.com/video/)\S+$`)
)

const (
	youtubeEmbedBase = "https://www.youtube.com/embed/"
	vimeoEmbedBase   = "https://player.vimeo.com/video/"

	youtubeAllow = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"
	vimeoAllow   = "autoplay; fullscreen; picture-in-picture"
)

// rule is one step of the resolution order. The first rule that matches wins.
type rule struct {
	name  string
	match func(r *Resolver, raw string) (Descriptor, bool)
}

// urlRules recognize provider URLs; they also back the allowlist policy.
var urlRules = []rule{
	{name: "youtube_watch", match: matchYouTube},
	{name: "vimeo_video", match: matchVimeo},
	{name: "embed_url", match: matchEmbedURL},
}

// Resolver maps raw references to descriptors. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	policy Policy
	rules  []rule
}

// New creates a Resolver. The default policy is PolicyTrust.
func New(opts ...Option) *Resolver {
	r := &Resolver{policy: PolicyTrust}
	for _, opt := range opts {
		opt(r)
	}
	r.rules = append([]rule{
		{name: "empty", match: matchEmpty},
		{name: "iframe_markup", match: matchIframe},
	}, urlRules...)
	return r
}

// Policy returns the configured markup policy.
func (r *Resolver) Policy() Policy { return r.policy }

// Resolve never fails: unrecognized input becomes a link to the trimmed text.
func (r *Resolver) Resolve(raw string) Descriptor {
	for _, ru := range r.rules {
		if d, ok := ru.match(r, raw); ok {
			return d
		}
	}
	return Descriptor{Kind: KindLink, URL: strings.TrimSpace(raw)}
}

var defaultResolver = New()

// Resolve resolves raw with the default trusting resolver.
func Resolve(raw string) Descriptor {
	return defaultResolver.Resolve(raw)
}

func matchEmpty(_ *Resolver, raw string) (Descriptor, bool) {
	if strings.TrimSpace(raw) == "" {
		return Descriptor{Kind: KindEmpty}, true
	}
	return Descriptor{}, false
}

func matchIframe(r *Resolver, raw string) (Descriptor, bool) {
	if !strings.Contains(strings.ToLower(raw), "<iframe") {
		return Descriptor{}, false
	}
	if r.policy == PolicyAllowlist {
		return sanitizeIframe(raw), true
	}
	return Descriptor{Kind: KindIframe, Markup: raw}, true
}

func matchYouTube(_ *Resolver, raw string) (Descriptor, bool) {
	m := youtubeWatch.FindStringSubmatch(raw)
	if m == nil {
		return Descriptor{}, false
	}
	return providerIframe(ProviderYouTube, youtubeEmbedBase+m[1], m[1]), true
}

func matchVimeo(_ *Resolver, raw string) (Descriptor, bool) {
	m := vimeoVideo.FindStringSubmatch(raw)
	if m == nil {
		return Descriptor{}, false
	}
	return providerIframe(ProviderVimeo, vimeoEmbedBase+m[1], m[1]), true
}

func matchEmbedURL(_ *Resolver, raw string) (Descriptor, bool) {
	u := strings.TrimSpace(raw)
	m := embedURL.FindStringSubmatch(u)
	if m == nil {
		return Descriptor{}, false
	}
	provider := ProviderYouTube
	if strings.Contains(strings.ToLower(m[1]), "vimeo") {
		provider = ProviderVimeo
	}
	return providerIframe(provider, u, ""), true
}

// resolveURL applies only the provider URL rules.
func resolveURL(raw string) (Descriptor, bool) {
	for _, ru := range urlRules {
		if d, ok := ru.match(nil, raw); ok {
			return d, true
		}
	}
	return Descriptor{}, false
}

func providerIframe(provider, src, videoID string) Descriptor {
	title, allow := "YouTube video player", youtubeAllow
	if provider == ProviderVimeo {
		title, allow = "Vimeo video player", vimeoAllow
	}
	markup := fmt.Sprintf(
		`<iframe src="%s" title="%s" frameborder="0" allow="%s" referrerpolicy="strict-origin-when-cross-origin" allowfullscreen></iframe>`,
		html.EscapeString(src), title, allow,
	)
	return Descriptor{
		Kind:     KindIframe,
		Markup:   markup,
		URL:      src,
		Provider: provider,
		VideoID:  videoID,
	}
}
