package render

import (
	"bytes"
	"encoding/json"
	"strings"
)

// State is the part of the dehydrated query cache the server inspects.
type State struct {
	Queries []Query `json:"queries"`
}

// Query is one cached query: its key tuple and its last fetched data.
type Query struct {
	QueryKey []json.RawMessage `json:"queryKey"`
	State    QueryState        `json:"state"`
}

// QueryState holds the query payload. Data is empty or null while pending or failed.
type QueryState struct {
	Data json.RawMessage `json:"data"`
}

// ParseState decodes raw hydration state. Empty input yields an empty State.
func ParseState(raw json.RawMessage) (State, error) {
	var state State
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return state, nil
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// FindQuery returns the data of the first query keyed [tag, id, ...] that
// has data. The second key component matches id after stringification, so
// ["match", 42] and ["match", "42"] both match id "42".
func (s State) FindQuery(tag, id string) (json.RawMessage, bool) {
	for _, q := range s.Queries {
		if len(q.QueryKey) < 2 {
			continue
		}
		if keyString(q.QueryKey[0]) != tag || keyString(q.QueryKey[1]) != id {
			continue
		}
		data := bytes.TrimSpace(q.State.Data)
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			continue
		}
		return data, true
	}
	return nil, false
}

// keyString renders a key component the way the client stringifies it.
// Objects and arrays never match.
func keyString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[':
		return "\x00"
	default:
		return strings.TrimSpace(string(raw))
	}
}
