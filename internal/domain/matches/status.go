package matches

import (
	"time"

	"github.com/preston-bernstein/footy-guide-ssr/internal/timeutil"
)

// Status is the coarse lifecycle of a fixture relative to a point in time.
type Status string

const (
	StatusUnknown  Status = ""
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusFinished Status = "finished"
)

// matchWindow is how long after kickoff a fixture counts as live.
const matchWindow = 2 * time.Hour

// Status derives the fixture status at now from the kickoff date and time (UTC).
func (m Match) Status(now time.Time) Status {
	if m.Date == "" {
		return StatusUnknown
	}
	kickoff, err := timeutil.ParseKickoff(m.Date, m.Time)
	if err != nil {
		return StatusUnknown
	}
	switch {
	case now.Before(kickoff):
		return StatusUpcoming
	case now.Before(kickoff.Add(matchWindow)):
		return StatusLive
	default:
		return StatusFinished
	}
}
