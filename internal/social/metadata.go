// Package social builds the Open Graph and Twitter Card tags that link
// unfurlers read from match pages.
package social

import (
	"strings"

	"github.com/preston-bernstein/footy-guide-ssr/internal/domain/matches"
	"github.com/preston-bernstein/footy-guide-ssr/internal/markup"
)

const (
	// DefaultSiteName doubles as the placeholder competition name.
	DefaultSiteName = "Footy Guide"

	fallbackTitle        = "Match"
	descriptionSeparator = " • "

	cardLargeImage = "summary_large_image"
	cardSummary    = "summary"
)

// Site carries the site-wide values stamped on every fragment.
type Site struct {
	Name          string
	TwitterHandle string
	// NoLocalImages is set when the /og/ cards cannot be served, so only an
	// image supplied by the record is advertised.
	NoLocalImages bool
}

func (s Site) name() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return DefaultSiteName
}

// Fragment is an ordered list of meta tags, already escaped.
type Fragment []string

// String joins the non-empty tags with newlines.
func (f Fragment) String() string {
	tags := make([]string, 0, len(f))
	for _, tag := range f {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, "\n")
}

// BuildMetadata renders the social preview tags for a match page.
func BuildMetadata(m matches.Match, origin, id string, site Site) Fragment {
	title := Title(m)
	description := Description(m)
	image := ImageURL(m, origin, id, !site.NoLocalImages)

	card := cardSummary
	if image != "" {
		card = cardLargeImage
	}

	return Fragment{
		property("og:type", "website"),
		property("og:site_name", site.name()),
		property("og:title", title),
		property("og:description", description),
		property("og:url", PageURL(origin, id)),
		optional(image, property("og:image", image)),
		name("twitter:card", card),
		optional(site.TwitterHandle, name("twitter:site", site.TwitterHandle)),
		name("twitter:title", title),
		name("twitter:description", description),
		optional(image, name("twitter:image", image)),
	}
}

// Title is "home vs away", the home side alone, or "Match".
func Title(m matches.Match) string {
	home := m.HomeName()
	if home == "" {
		home = fallbackTitle
	}
	if away := m.AwayName(); away != "" {
		return home + " vs " + away
	}
	return home
}

// Description joins date, time and competition, skipping empty parts.
func Description(m matches.Match) string {
	competition := m.CompetitionName()
	if competition == "" {
		competition = DefaultSiteName
	}
	parts := make([]string, 0, 3)
	for _, part := range []string{m.Date, m.Time, competition} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, descriptionSeparator)
}

// ImageURL prefers an image supplied by the record and otherwise points at the
// locally generated SVG card when local is set. It is empty when neither is
// available.
func ImageURL(m matches.Match, origin, id string, local bool) string {
	if img := strings.TrimSpace(m.ImageURL); img != "" {
		return img
	}
	if !local || id == "" {
		return ""
	}
	return PreviewImageURL(origin, "match", id)
}

// PageURL is the canonical match page URL.
func PageURL(origin, id string) string {
	return origin + "/matches/" + id
}

// PreviewImageURL addresses the generated card for a resource.
func PreviewImageURL(origin, kind, id string) string {
	return origin + "/og/" + kind + "/" + id + ".svg"
}

func property(key, content string) string {
	return `<meta property="` + key + `" content="` + markup.EscapeHTML(content) + `">`
}

func name(key, content string) string {
	return `<meta name="` + key + `" content="` + markup.EscapeHTML(content) + `">`
}

func optional(value, tag string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return tag
}
