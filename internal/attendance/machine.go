// Package attendance implements the attendance state machine: per
// employee per date, NOT_MARKED transitions to CHECKED_IN and then to
// CHECKED_IN_AND_OUT, with time-of-day windows resolved per date and an
// end-of-day sweep that marks the untouched as absent.
package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// Service decides and persists attendance transitions. The decision logic
// itself (EvaluateCheckIn, EvaluateCheckOut, DetermineMode, ResolveDay) is
// pure; Service adds storage, the uniqueness-constraint race fallback, and
// audit entries.
type Service struct {
	store store.Store
	audit store.AuditSink
}

func NewService(st store.Store, audit store.AuditSink) *Service {
	return &Service{store: st, audit: audit}
}

// DayContext is everything date-dependent the state machine consults.
type DayContext struct {
	Date     time.Time
	Day      DaySchedule
	Holiday  *store.Holiday
	Settings *store.WorkSettings
}

// ResolveDate loads the schedule, holiday, and settings snapshot for a date.
func (s *Service) ResolveDate(ctx context.Context, date time.Time) (DayContext, error) {
	settings, err := s.store.GetWorkSettings(ctx)
	if err != nil {
		return DayContext{}, fmt.Errorf("load work settings: %w", err)
	}
	schedules, err := s.store.ListSchedules(ctx)
	if err != nil {
		return DayContext{}, fmt.Errorf("load schedules: %w", err)
	}
	holiday, err := s.store.GetHoliday(ctx, date)
	if err != nil {
		return DayContext{}, fmt.Errorf("load holiday: %w", err)
	}
	return DayContext{
		Date:     store.DateOf(date),
		Day:      ResolveDay(date, schedules, settings),
		Holiday:  holiday,
		Settings: settings,
	}, nil
}

// checkInStatus classifies a check-in time: PRESENT until the end of the
// check-in window plus the late grace, LATE afterwards.
func checkInStatus(now time.Time, day DaySchedule, lateThresholdMinutes int) store.AttendanceStatus {
	lateThreshold := day.CheckInEnd.AddMinutes(lateThresholdMinutes).On(now)
	if !now.After(lateThreshold) {
		return store.StatusPresent
	}
	return store.StatusLate
}

// EvaluateCheckIn decides a check-in without touching storage. existing
// may be nil (no record today) or a record without a check-in (created by
// the absence sweep).
func EvaluateCheckIn(existing *store.AttendanceRecord, now time.Time, day DaySchedule, lateThresholdMinutes int) Result {
	if existing.CheckedIn() {
		return Result{
			Outcome: OutcomeRejectedIdempotent,
			Reason:  ReasonAlreadyCheckedIn,
			Mode:    ModeCheckIn,
			Record:  existing,
			Message: fmt.Sprintf("Already checked in at %s", existing.CheckInAt.Format("15:04")),
		}
	}
	status := checkInStatus(now, day, lateThresholdMinutes)
	outcome := OutcomeCreated
	if existing != nil {
		outcome = OutcomeUpdatedExisting
	}
	return Result{Outcome: outcome, Mode: ModeCheckIn, Record: &store.AttendanceRecord{Status: status}}
}

// EvaluateCheckOut decides a check-out without touching storage.
func EvaluateCheckOut(existing *store.AttendanceRecord, now time.Time, minGapMinutes int) Result {
	if !existing.CheckedIn() {
		return Result{
			Outcome: OutcomeRejectedError,
			Reason:  ReasonNoCheckInYet,
			Mode:    ModeCheckOut,
			Message: "No check-in recorded today",
		}
	}
	if existing.CheckedOut() {
		return Result{
			Outcome: OutcomeRejectedIdempotent,
			Reason:  ReasonAlreadyCheckedOut,
			Mode:    ModeCheckOut,
			Record:  existing,
			Message: fmt.Sprintf("Already checked out at %s", existing.CheckOutAt.Format("15:04")),
		}
	}
	minGap := time.Duration(minGapMinutes) * time.Minute
	if elapsed := now.Sub(*existing.CheckInAt); elapsed < minGap {
		remaining := int(math.Ceil((minGap - elapsed).Minutes()))
		return Result{
			Outcome:          OutcomeRejectedError,
			Reason:           ReasonTooSoon,
			Mode:             ModeCheckOut,
			MinutesRemaining: remaining,
			Message:          fmt.Sprintf("Checked in moments ago, try again in %d minute(s)", remaining),
		}
	}
	return Result{Outcome: OutcomeUpdatedExisting, Mode: ModeCheckOut, Record: existing}
}

// ProcessAttendance runs the full decision for one recognition event and
// persists the transition it selects. The returned error covers storage
// failures only; business rejections come back inside the Result.
func (s *Service) ProcessAttendance(ctx context.Context, emp *store.Employee, confidence float64, now time.Time) (Result, error) {
	dc, err := s.ResolveDate(ctx, now)
	if err != nil {
		return Result{}, err
	}

	if !dc.Day.IsWorkday {
		return Result{Outcome: OutcomeRejectedError, Reason: ReasonNotAWorkday, Message: "Today is not a workday"}, nil
	}
	if dc.Holiday.Active() {
		return Result{
			Outcome: OutcomeRejectedError,
			Reason:  ReasonIsHoliday,
			Message: fmt.Sprintf("Today is a holiday (%s)", dc.Holiday.Name),
		}, nil
	}

	existing, err := s.store.GetRecord(ctx, emp.ID, dc.Date)
	if err != nil {
		return Result{}, fmt.Errorf("load attendance record: %w", err)
	}

	checkedIn := existing.CheckedIn() && !existing.CheckedOut()
	switch DetermineMode(store.TimeOfDayAt(now), dc.Day, checkedIn) {
	case ModeCheckIn:
		return s.checkIn(ctx, emp, existing, confidence, now, dc)
	case ModeCheckOut:
		return s.checkOut(ctx, emp, existing, now, dc)
	default:
		return Result{
			Outcome: OutcomeRejectedError,
			Reason:  ReasonOutOfWindow,
			Message: fmt.Sprintf("Outside attendance hours (%s-23:59)", dc.Day.CheckInStart),
		}, nil
	}
}

func (s *Service) checkIn(ctx context.Context, emp *store.Employee, existing *store.AttendanceRecord, confidence float64, now time.Time, dc DayContext) (Result, error) {
	res := EvaluateCheckIn(existing, now, dc.Day, dc.Settings.LateThresholdMinutes)
	if res.Outcome == OutcomeRejectedIdempotent {
		return res, nil
	}
	status := res.Record.Status

	var won bool
	var err error
	if existing == nil {
		rec := &store.AttendanceRecord{
			EmployeeID: emp.ID,
			Date:       dc.Date,
			CheckInAt:  &now,
			Status:     status,
			Confidence: &confidence,
		}
		won, err = s.store.InsertCheckIn(ctx, rec)
		existing = rec
	} else {
		won, err = s.store.FillCheckIn(ctx, existing.ID, now, status, confidence)
	}
	if err != nil {
		return Result{}, fmt.Errorf("persist check-in: %w", err)
	}
	if !won {
		// Lost the (employee, date) uniqueness race to a concurrent
		// check-in; re-read and answer as the idempotent repeat.
		current, err := s.store.GetRecord(ctx, emp.ID, dc.Date)
		if err != nil {
			return Result{}, fmt.Errorf("reload attendance record: %w", err)
		}
		return EvaluateCheckIn(current, now, dc.Day, dc.Settings.LateThresholdMinutes), nil
	}

	existing.CheckInAt = &now
	existing.Status = status
	existing.Confidence = &confidence

	s.audit.Record(ctx, store.AuditEntry{
		Action:      "check_in",
		Entity:      "attendance",
		EntityID:    existing.ID,
		Actor:       emp.Name,
		Description: fmt.Sprintf("Check-in for %s on %s", emp.Name, dc.Date.Format("2006-01-02")),
		Details:     fmt.Sprintf("status=%s confidence=%.3f", status, confidence),
	})

	message := fmt.Sprintf("Welcome, %s", emp.Name)
	if status == store.StatusLate {
		message += " (late)"
	}
	res.Record = existing
	res.Message = message
	return res, nil
}

func (s *Service) checkOut(ctx context.Context, emp *store.Employee, existing *store.AttendanceRecord, now time.Time, dc DayContext) (Result, error) {
	res := EvaluateCheckOut(existing, now, dc.Settings.MinCheckoutGapMinutes)
	if res.Outcome != OutcomeUpdatedExisting {
		return res, nil
	}

	won, err := s.store.SetCheckOut(ctx, existing.ID, now)
	if err != nil {
		return Result{}, fmt.Errorf("persist check-out: %w", err)
	}
	if !won {
		current, err := s.store.GetRecord(ctx, emp.ID, dc.Date)
		if err != nil {
			return Result{}, fmt.Errorf("reload attendance record: %w", err)
		}
		return EvaluateCheckOut(current, now, dc.Settings.MinCheckoutGapMinutes), nil
	}

	existing.CheckOutAt = &now

	s.audit.Record(ctx, store.AuditEntry{
		Action:      "check_out",
		Entity:      "attendance",
		EntityID:    existing.ID,
		Actor:       emp.Name,
		Description: fmt.Sprintf("Check-out for %s on %s", emp.Name, dc.Date.Format("2006-01-02")),
	})

	res.Record = existing
	res.Message = fmt.Sprintf("See you tomorrow, %s", emp.Name)
	return res, nil
}
