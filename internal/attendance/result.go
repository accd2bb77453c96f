package attendance

import "github.com/danprat/ABSEN-DESA/internal/store"

// Mode is the action the state machine selects for a recognition event.
type Mode int

const (
	ModeNone Mode = iota
	ModeCheckIn
	ModeCheckOut
)

func (m Mode) String() string {
	switch m {
	case ModeCheckIn:
		return "check_in"
	case ModeCheckOut:
		return "check_out"
	default:
		return "none"
	}
}

// Reason identifies why a request was rejected (or accepted idempotently).
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNotAWorkday       Reason = "not_a_workday"
	ReasonIsHoliday         Reason = "is_holiday"
	ReasonOutOfWindow       Reason = "out_of_attendance_window"
	ReasonAlreadyCheckedIn  Reason = "already_checked_in"
	ReasonAlreadyCheckedOut Reason = "already_checked_out"
	ReasonNoCheckInYet      Reason = "no_check_in_yet"
	ReasonTooSoon           Reason = "too_soon_to_checkout"
)

// Outcome tags the result of processing one recognition event. Idempotent
// repeats ("already checked in/out") are success-shaped: they carry the
// prior record so kiosk retries never surface as failures.
type Outcome int

const (
	// OutcomeCreated means a new attendance record was inserted.
	OutcomeCreated Outcome = iota
	// OutcomeUpdatedExisting means an existing record was mutated
	// (check-in onto a swept record, or a check-out).
	OutcomeUpdatedExisting
	// OutcomeRejectedIdempotent means the requested transition had already
	// happened; the existing record is returned with an informational message.
	OutcomeRejectedIdempotent
	// OutcomeRejectedError means the request was refused and no record is
	// returned (outside windows, holiday, no check-in yet, too soon).
	OutcomeRejectedError
)

// Result is the state machine's full decision for one recognition event.
type Result struct {
	Outcome Outcome
	Reason  Reason
	Mode    Mode
	Record  *store.AttendanceRecord
	Message string
	// MinutesRemaining is set for ReasonTooSoon: how long until a
	// check-out will be accepted.
	MinutesRemaining int
}

// Accepted reports whether the event produced or confirmed a record.
func (r Result) Accepted() bool {
	return r.Outcome != OutcomeRejectedError
}
