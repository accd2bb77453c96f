package attendance

import (
	"time"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// DaySchedule is the effective attendance configuration for one date:
// either the day-of-week row or the global fallback.
type DaySchedule struct {
	IsWorkday     bool
	CheckInStart  store.TimeOfDay
	CheckInEnd    store.TimeOfDay
	CheckOutStart store.TimeOfDay
}

// ResolveDay computes the effective schedule for a date. A DailySchedule
// row for the date's day-of-week wins; with no row, the date is a workday
// iff it is a weekday and the fallback settings provide the windows.
// Pure: the result depends only on the arguments.
func ResolveDay(date time.Time, schedules []store.DailySchedule, fallback *store.WorkSettings) DaySchedule {
	dow := store.DayOfWeek(date)
	for _, s := range schedules {
		if s.DayOfWeek == dow {
			return DaySchedule{
				IsWorkday:     s.IsWorkday,
				CheckInStart:  s.CheckInStart,
				CheckInEnd:    s.CheckInEnd,
				CheckOutStart: s.CheckOutStart,
			}
		}
	}
	return DaySchedule{
		IsWorkday:     dow <= 4,
		CheckInStart:  fallback.CheckInStart,
		CheckInEnd:    fallback.CheckInEnd,
		CheckOutStart: fallback.CheckOutStart,
	}
}

// DetermineMode selects the action for a wall-clock time. An employee who
// has checked in but not out may check out at any time, including before
// CheckOutStart (early departures). Otherwise check-in runs from
// CheckInStart up to CheckOutStart (the stretch past CheckInEnd is the
// late window) and check-out from CheckOutStart to end of day.
func DetermineMode(t store.TimeOfDay, day DaySchedule, checkedIn bool) Mode {
	if checkedIn {
		return ModeCheckOut
	}
	switch {
	case day.CheckInStart <= t && t < day.CheckInEnd:
		return ModeCheckIn
	case day.CheckInEnd <= t && t < day.CheckOutStart:
		return ModeCheckIn // late window
	case day.CheckOutStart <= t:
		return ModeCheckOut
	default:
		return ModeNone
	}
}
