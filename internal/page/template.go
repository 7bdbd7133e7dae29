package page

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Markers the page template carries for the server to fill.
const (
	HeadMarker  = "<!--head-tags-->"
	AppMarker   = "<!--app-html-->"
	StateMarker = "<!--ssr-state-->"

	headClose = "</head>"
)

// ErrMissingMarker reports a template without a required marker.
var ErrMissingMarker = errors.New("page: template marker missing")

// Template is the HTML shell the application is rendered into.
type Template struct {
	raw string
}

// Parse wraps raw HTML as a Template.
func Parse(raw string) Template {
	return Template{raw: raw}
}

// String returns the unmodified template text.
func (t Template) String() string {
	return t.raw
}

type slot struct {
	at     int
	length int
	value  string
}

// Assemble substitutes each marker once. Values are inserted literally and
// never rescanned for markers. When the head marker is absent, non-empty head
// tags go on their own line before </head>; a template with neither gets no
// head tags.
func (t Template) Assemble(head, body, stateScript string) (string, error) {
	appAt := strings.Index(t.raw, AppMarker)
	if appAt < 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingMarker, AppMarker)
	}
	stateAt := strings.Index(t.raw, StateMarker)
	if stateAt < 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingMarker, StateMarker)
	}

	slots := []slot{
		{at: appAt, length: len(AppMarker), value: body},
		{at: stateAt, length: len(StateMarker), value: stateScript},
	}
	if headAt := strings.Index(t.raw, HeadMarker); headAt >= 0 {
		slots = append(slots, slot{at: headAt, length: len(HeadMarker), value: head})
	} else if head != "" {
		if closeAt := strings.Index(t.raw, headClose); closeAt >= 0 {
			slots = append(slots, slot{at: closeAt, value: head + "\n"})
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].at < slots[j].at })

	var b strings.Builder
	b.Grow(len(t.raw) + len(head) + len(body) + len(stateScript) + 1)
	cursor := 0
	for _, s := range slots {
		if s.at < cursor {
			continue
		}
		b.WriteString(t.raw[cursor:s.at])
		b.WriteString(s.value)
		cursor = s.at + s.length
	}
	b.WriteString(t.raw[cursor:])
	return b.String(), nil
}
