package matches

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ID accepts either a JSON number or string and keeps its textual form.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID(text(data))
	return nil
}

// Team is the slice of the upstream team shape used for previews.
type Team struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

// UnmarshalJSON decodes name and logo leniently; see Match.UnmarshalJSON.
func (t *Team) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*t = Team{Name: text(fields["name"]), LogoURL: text(fields["logo_url"])}
	return nil
}

// Competition is the slice of the upstream competition shape used for previews.
type Competition struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

// UnmarshalJSON decodes name and logo leniently; see Match.UnmarshalJSON.
func (c *Competition) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*c = Competition{Name: text(fields["name"]), LogoURL: text(fields["logo_url"])}
	return nil
}

// Channel is a broadcaster channel showing the match.
type Channel struct {
	Name string `json:"name"`
}

// Match is the read-only fixture record returned by the data API.
// Every field is optional; accessors return "" when a value is absent.
type Match struct {
	ID          ID           `json:"id"`
	Date        string       `json:"date"`
	Time        string       `json:"time,omitempty"`
	HomeTeam    *Team        `json:"home_team,omitempty"`
	AwayTeam    *Team        `json:"away_team,omitempty"`
	Competition *Competition `json:"competition,omitempty"`
	Channels    []Channel    `json:"channels,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
}

// UnmarshalJSON decodes each field on its own. Scalars that are numbers or
// booleans keep their text form; a field of the wrong shape is left empty
// instead of failing the whole record.
func (m *Match) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*m = Match{
		ID:       ID(text(fields["id"])),
		Date:     text(fields["date"]),
		Time:     text(fields["time"]),
		ImageURL: text(fields["image_url"]),
	}
	if raw, ok := fields["home_team"]; ok {
		var team Team
		if json.Unmarshal(raw, &team) == nil && !isNull(raw) {
			m.HomeTeam = &team
		}
	}
	if raw, ok := fields["away_team"]; ok {
		var team Team
		if json.Unmarshal(raw, &team) == nil && !isNull(raw) {
			m.AwayTeam = &team
		}
	}
	if raw, ok := fields["competition"]; ok {
		var comp Competition
		if json.Unmarshal(raw, &comp) == nil && !isNull(raw) {
			m.Competition = &comp
		}
	}
	var channels []json.RawMessage
	if json.Unmarshal(fields["channels"], &channels) == nil {
		for _, raw := range channels {
			if ch, err := objectFields(raw); err == nil {
				m.Channels = append(m.Channels, Channel{Name: text(ch["name"])})
			}
		}
	}
	return nil
}

// Decode parses a match payload. Non-object payloads (null, arrays, garbage) yield false.
func Decode(raw []byte) (Match, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Match{}, false
	}
	var m Match
	if err := json.Unmarshal(raw, &m); err != nil {
		return Match{}, false
	}
	return m, true
}

var errNotObject = errors.New("matches: not a json object")

// objectFields splits a JSON object into its raw members. null decodes to no
// fields; any other non-object is an error.
func objectFields(data []byte) (map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil, nil
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, errNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// text returns the textual form of a JSON scalar. Strings are unquoted,
// numbers and booleans keep their literal; null, objects and arrays are "".
func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return ""
		}
		return s
	case '{', '[':
		return ""
	}
	var v any
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return string(raw)
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// HomeName returns the home side's name.
func (m Match) HomeName() string {
	if m.HomeTeam == nil {
		return ""
	}
	return strings.TrimSpace(m.HomeTeam.Name)
}

// AwayName returns the away side's name.
func (m Match) AwayName() string {
	if m.AwayTeam == nil {
		return ""
	}
	return strings.TrimSpace(m.AwayTeam.Name)
}

// CompetitionName returns the competition's name.
func (m Match) CompetitionName() string {
	if m.Competition == nil {
		return ""
	}
	return strings.TrimSpace(m.Competition.Name)
}

// ChannelNames returns the non-empty channel names in listing order.
func (m Match) ChannelNames() []string {
	names := make([]string, 0, len(m.Channels))
	for _, ch := range m.Channels {
		if name := strings.TrimSpace(ch.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// IsNumericID reports whether id looks like an upstream match id.
// Anything else is treated as "no such resource" without calling upstream.
func IsNumericID(id string) bool {
	if strings.TrimSpace(id) != id || id == "" {
		return false
	}
	_, err := strconv.ParseUint(id, 10, 64)
	return err == nil
}
