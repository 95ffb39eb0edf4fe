package pos

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
)

// ErrInvalidTransition is returned when an action is not legal from the
// current presence status
var ErrInvalidTransition = errors.New("pos: invalid presence transition")

// DateLayout is the format of presence date keys
const DateLayout = "2006-01-02"

// NextStatus is the presence state machine. Login is only legal when logged
// out, logout and break-start only when logged in, break-end only on a break.
func NextStatus(current enum.PresenceStatus, action enum.PresenceAction) (enum.PresenceStatus, error) {
	switch {
	case action == enum.PresenceLogin && current == enum.PresenceLoggedOut:
		return enum.PresenceLoggedIn, nil
	case action == enum.PresenceLogout && current == enum.PresenceLoggedIn:
		return enum.PresenceLoggedOut, nil
	case action == enum.PresenceBreakStart && current == enum.PresenceLoggedIn:
		return enum.PresenceOnBreak, nil
	case action == enum.PresenceBreakEnd && current == enum.PresenceOnBreak:
		return enum.PresenceLoggedIn, nil
	}
	return current, fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, current)
}

// DaySummary is the reduction of one staff member's entries for one day
type DaySummary struct {
	Status       enum.PresenceStatus `json:"status"`
	WorkMinutes  int                 `json:"work_minutes"`
	BreakMinutes int                 `json:"break_minutes"`
	Work         time.Duration       `json:"-"`
	Break        time.Duration       `json:"-"`
	FirstLogin   *time.Time          `json:"first_login,omitempty"`
	LastAction   *time.Time          `json:"last_action,omitempty"`
	Entries      int                 `json:"entries"`
}

// ReduceDay replays entries in timestamp order and accumulates work and
// break time. Work excludes breaks. A segment still open after the last
// entry is closed at asOf; asOf earlier than the segment start adds nothing.
// The input slice is not modified.
func ReduceDay(entries []entity.PresenceEntry, asOf time.Time) (DaySummary, error) {
	sorted := make([]entity.PresenceEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	sum := DaySummary{Status: enum.PresenceLoggedOut, Entries: len(sorted)}
	var workStart, breakStart time.Time

	for _, e := range sorted {
		next, err := NextStatus(sum.Status, e.Action)
		if err != nil {
			return sum, fmt.Errorf("entry at %s: %w", e.Timestamp.Format(time.RFC3339), err)
		}

		switch e.Action {
		case enum.PresenceLogin:
			workStart = e.Timestamp
			if sum.FirstLogin == nil {
				first := e.Timestamp
				sum.FirstLogin = &first
			}
		case enum.PresenceBreakStart:
			sum.Work += e.Timestamp.Sub(workStart)
			breakStart = e.Timestamp
		case enum.PresenceBreakEnd:
			sum.Break += e.Timestamp.Sub(breakStart)
			workStart = e.Timestamp
		case enum.PresenceLogout:
			sum.Work += e.Timestamp.Sub(workStart)
		}

		last := e.Timestamp
		sum.LastAction = &last
		sum.Status = next
	}

	switch sum.Status {
	case enum.PresenceLoggedIn:
		if asOf.After(workStart) {
			sum.Work += asOf.Sub(workStart)
		}
	case enum.PresenceOnBreak:
		if asOf.After(breakStart) {
			sum.Break += asOf.Sub(breakStart)
		}
	}

	sum.WorkMinutes = int(sum.Work / time.Minute)
	sum.BreakMinutes = int(sum.Break / time.Minute)
	return sum, nil
}

// DateKey returns the YYYY-MM-DD day of t in loc
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
