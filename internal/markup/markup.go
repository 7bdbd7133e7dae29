// Package markup holds the escaping helpers shared by the page assembler,
// the social metadata builder and the SVG preview renderer.
package markup

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StateGlobal is the window property the client reads hydration state from.
const StateGlobal = "window.__REACT_QUERY_STATE__"

// escapedLT is the JSON unicode escape for "<".
var escapedLT = `\` + "u003c"

// Ampersand must be replaced first so entities are never double-escaped.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes text for use as HTML text content or a quoted attribute value.
func EscapeHTML(text string) string {
	return htmlReplacer.Replace(text)
}

// EscapeXML escapes text for SVG documents. SVG shares the HTML rules.
func EscapeXML(text string) string {
	return htmlReplacer.Replace(text)
}

// SerializeState JSON-encodes state so it can sit inside an inline script.
// Every "<" is written as its JSON unicode escape, which keeps "</script>"
// out of the output.
func SerializeState(state any) (string, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("serialize state: %w", err)
	}
	return strings.ReplaceAll(string(raw), "<", escapedLT), nil
}

// StateScript wraps the serialized state in a script assigning StateGlobal.
func StateScript(state any) (string, error) {
	serialized, err := SerializeState(state)
	if err != nil {
		return "", err
	}
	return "<script>" + StateGlobal + "=" + serialized + "</script>", nil
}
