// Package preview draws the SVG summary card served at /og/<kind>/<id>.svg.
package preview

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/footy-guide-ssr/internal/domain/matches"
	"github.com/preston-bernstein/footy-guide-ssr/internal/markup"
)

const (
	Width  = 1200
	Height = 630

	// ContentType is the media type of Render's output.
	ContentType = "image/svg+xml"

	placeholderHome        = "Home"
	placeholderAway        = "Away"
	placeholderCompetition = "Footy Guide"
	placeholderChannels    = "TBC"
	channelSeparator       = " • "

	maxTitleRunes   = 40
	maxLineRunes    = 60
	maxChannelRunes = 70
)

var statusLabels = map[matches.Status]string{
	matches.StatusUpcoming: "UPCOMING",
	matches.StatusLive:     "LIVE",
	matches.StatusFinished: "FULL TIME",
}

// Render draws the card for a match. now decides the status badge.
func Render(m matches.Match, id, origin string, now time.Time) string {
	home := orDefault(m.HomeName(), placeholderHome)
	away := orDefault(m.AwayName(), placeholderAway)
	competition := orDefault(m.CompetitionName(), placeholderCompetition)

	channels := placeholderChannels
	if names := m.ChannelNames(); len(names) > 0 {
		channels = strings.Join(names, channelSeparator)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, Width, Height, Width, Height)
	b.WriteString(`<defs><linearGradient id="bg" x1="0" y1="0" x2="1" y2="1">`)
	b.WriteString(`<stop offset="0%" stop-color="#0f172a"/><stop offset="100%" stop-color="#1d4ed8"/>`)
	b.WriteString(`</linearGradient></defs>`)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="url(#bg)"/>`, Width, Height)
	b.WriteString(`<rect x="48" y="48" width="1104" height="534" rx="32" fill="#ffffff" fill-opacity="0.06"/>`)

	if label, ok := statusLabels[m.Status(now)]; ok {
		b.WriteString(`<rect x="96" y="96" width="220" height="48" rx="24" fill="#22c55e" fill-opacity="0.9"/>`)
		text(&b, 206, 128, 24, "#0f172a", "700", "middle", label)
	}

	text(&b, 96, 250, 64, "#ffffff", "800", "start", truncate(home+" vs "+away, maxTitleRunes))
	text(&b, 96, 320, 36, "#bfdbfe", "600", "start", truncate(competition, maxLineRunes))
	if when := dateLine(m); when != "" {
		text(&b, 96, 380, 32, "#e2e8f0", "500", "start", when)
	}
	text(&b, 96, 450, 30, "#e2e8f0", "500", "start", truncate("Watch on: "+channels, maxChannelRunes))
	text(&b, 96, 550, 24, "#93c5fd", "500", "start", footer(origin, id))

	b.WriteString(`</svg>`)
	return b.String()
}

func text(b *strings.Builder, x, y, size int, fill, weight, anchor, value string) {
	fmt.Fprintf(b,
		`<text x="%d" y="%d" font-family="Inter, Helvetica, Arial, sans-serif" font-size="%d" font-weight="%s" fill="%s" text-anchor="%s">%s</text>`,
		x, y, size, weight, fill, anchor, markup.EscapeXML(value))
}

func dateLine(m matches.Match) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{m.Date, m.Time} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

func footer(origin, id string) string {
	host := Hostname(origin)
	if host == "" {
		return "Match #" + id
	}
	return host + " · Match #" + id
}

// Hostname extracts the host (without port) from an origin, falling back to the raw value.
func Hostname(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return strings.TrimSpace(origin)
	}
	return u.Hostname()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
