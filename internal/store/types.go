package store

import (
	"time"
)

// AttendanceStatus classifies the outcome of an employee's day.
// Checkout never changes the status; it is decided at check-in time
// (or by the absence sweep).
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
	StatusSick    AttendanceStatus = "sick"
	StatusAbsent  AttendanceStatus = "absent"
)

// Employee represents an enrolled employee.
type Employee struct {
	ID        int64
	NIP       string // government employee number, may be empty
	Name      string
	Position  string
	Phone     string
	Email     string
	PhotoURL  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FaceEmbedding is a stored face vector owned by an employee.
// Deleting the employee deletes its embeddings.
type FaceEmbedding struct {
	ID         int64
	EmployeeID int64
	Vector     []float32
	PhotoURL   string
	IsPrimary  bool
	CreatedAt  time.Time
}

// EnrolledEmbedding is the projection loaded into the matching engine:
// one vector joined with its owner's identity. Only active employees'
// embeddings are ever returned in this form.
type EnrolledEmbedding struct {
	ID           int64
	EmployeeID   int64
	EmployeeName string
	Vector       []float32
	IsPrimary    bool
}

// AttendanceRecord is the single attendance row for one employee on one
// date. CheckOutAt is only ever set after CheckInAt.
type AttendanceRecord struct {
	ID              int64
	EmployeeID      int64
	Date            time.Time // date component only
	CheckInAt       *time.Time
	CheckOutAt      *time.Time
	Status          AttendanceStatus
	Confidence      *float64 // similarity score in [0,1] at check-in
	CorrectedBy     string
	CorrectionNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CheckedIn reports whether a check-in has been recorded.
func (r *AttendanceRecord) CheckedIn() bool {
	return r != nil && r.CheckInAt != nil
}

// CheckedOut reports whether a check-out has been recorded.
func (r *AttendanceRecord) CheckedOut() bool {
	return r != nil && r.CheckOutAt != nil
}

// DailySchedule holds the attendance windows for one day of the week.
// DayOfWeek runs 0=Monday through 6=Sunday. At most one row exists per
// day; a missing row falls back to the global work settings.
type DailySchedule struct {
	ID            int64
	DayOfWeek     int
	IsWorkday     bool
	CheckInStart  TimeOfDay
	CheckInEnd    TimeOfDay
	CheckOutStart TimeOfDay
	UpdatedAt     time.Time
}

// Holiday marks a date on which attendance processing is suppressed.
// Auto-imported holidays that a user has manually un-marked keep their
// row with IsExcluded set, so the importer never re-adds them.
type Holiday struct {
	ID         int64
	Date       time.Time
	Name       string
	IsAuto     bool // imported from the holiday API rather than entered manually
	IsCuti     bool // joint-leave day (cuti bersama)
	IsExcluded bool
	CreatedAt  time.Time
}

// Active reports whether the holiday actually suppresses attendance.
func (h *Holiday) Active() bool {
	return h != nil && !h.IsExcluded
}

// WorkSettings is the single-row global configuration. Its windows serve
// as the fallback for days without a DailySchedule row.
type WorkSettings struct {
	VillageName             string
	OfficerName             string
	CheckInStart            TimeOfDay
	CheckInEnd              TimeOfDay
	CheckOutStart           TimeOfDay
	LateThresholdMinutes    int
	MinCheckoutGapMinutes   int
	FaceSimilarityThreshold float64
	UpdatedAt               time.Time
}

// AuditEntry describes one write operation for the audit log.
type AuditEntry struct {
	Action      string
	Entity      string
	EntityID    int64
	Description string
	Actor       string
	Details     string
}

// DayOfWeek converts a time to the schedule day index (0=Monday..6=Sunday).
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DateOf truncates a timestamp to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
