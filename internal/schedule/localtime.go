package schedule

import (
	"fmt"
	"time"

	"github.com/rickb777/date"
)

// stopClockLayout is the wall-clock format the routing API uses for stop
// times ("16:35", 24-hour).
const stopClockLayout = "15:04"

// LocalizeAssumeDST combines a civil day with a "HH:MM" wall-clock string in
// the given zone, resolving ambiguous and nonexistent local times with a
// fixed "daylight saving is in effect" rule:
//
//   - an unambiguous wall time maps to its single valid instant;
//   - a wall time that occurs twice (fall-back) maps to the DST reading;
//   - a wall time that never occurs (spring-forward) is read with the zone's
//     DST offset anyway, yielding the instant that wall clock would name if
//     DST applied.
//
// This is not a DST-correct algorithm. It reproduces the behavior the
// importer has always had around transition days, and downstream consumers
// depend on these exact timestamps; do not "fix" it here.
func LocalizeAssumeDST(loc *time.Location, day date.Date, clock string) (time.Time, error) {
	t, err := time.Parse(stopClockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad scheduledAt %q: %v", ErrMalformedSchedule, clock, err)
	}
	hour, minute := t.Hour(), t.Minute()

	stdOffset, dstOffset := zoneOffsets(loc, day.Year())

	// Prefer the DST reading when both are valid.
	for _, offset := range []int{dstOffset, stdOffset} {
		candidate := time.Date(day.Year(), day.Month(), day.Day(),
			hour, minute, 0, 0, time.FixedZone("", offset)).In(loc)
		_, actual := candidate.Zone()
		if actual == offset &&
			candidate.Day() == day.Day() &&
			candidate.Hour() == hour &&
			candidate.Minute() == minute {
			return candidate, nil
		}
	}

	// Nonexistent wall time: pretend the DST offset applied.
	return time.Date(day.Year(), day.Month(), day.Day(),
		hour, minute, 0, 0, time.FixedZone("", dstOffset)).In(loc), nil
}

// zoneOffsets returns the standard and daylight UTC offsets (seconds) the
// zone uses during the given year. For zones without DST both are equal.
func zoneOffsets(loc *time.Location, year int) (std, dst int) {
	_, jan := time.Date(year, time.January, 1, 12, 0, 0, 0, loc).Zone()
	_, jul := time.Date(year, time.July, 1, 12, 0, 0, 0, loc).Zone()
	if jan < jul {
		return jan, jul
	}
	return jul, jan
}
