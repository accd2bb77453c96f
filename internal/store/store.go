// Package store defines the domain types and storage interfaces shared by
// the recognition engine, the attendance service, and the HTTP layer.
// Concrete backends live in the postgres, mariadb, and mock subpackages.
package store

import (
	"context"
	"time"
)

// EmployeeStore provides read/write access to employee records.
type EmployeeStore interface {
	// GetEmployee returns nil (without error) when the employee does not exist.
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	ListActiveEmployees(ctx context.Context) ([]Employee, error)
	// FindEmployeeByNIP returns nil when no employee carries the number.
	FindEmployeeByNIP(ctx context.Context, nip string) (*Employee, error)
	CreateEmployee(ctx context.Context, emp *Employee) error
}

// EmbeddingStore provides access to enrolled face vectors.
type EmbeddingStore interface {
	// ListActiveEmbeddings returns every vector belonging to an active
	// employee, joined with the owner's identity. Vectors of any length
	// are returned; dimension filtering is the matching engine's job.
	ListActiveEmbeddings(ctx context.Context) ([]EnrolledEmbedding, error)
	AddEmbedding(ctx context.Context, emb *FaceEmbedding) error
	ListEmbeddings(ctx context.Context, employeeID int64) ([]FaceEmbedding, error)
	CountEmbeddings(ctx context.Context, employeeID int64) (int, error)
	// DeleteEmbedding reports whether a row was actually removed.
	DeleteEmbedding(ctx context.Context, employeeID, embeddingID int64) (bool, error)
}

// AttendanceStore persists the one-row-per-(employee, date) attendance
// ledger. The (employee_id, date) unique constraint is the final arbiter
// for concurrent writers: the boolean results report whether this caller
// won the write, so a losing caller can re-read and respond idempotently.
type AttendanceStore interface {
	// GetRecord returns nil when no record exists for the employee/date.
	GetRecord(ctx context.Context, employeeID int64, date time.Time) (*AttendanceRecord, error)
	// InsertCheckIn creates a fresh record with check-in fields set.
	// Returns false when a record for the (employee, date) already exists.
	InsertCheckIn(ctx context.Context, rec *AttendanceRecord) (bool, error)
	// FillCheckIn sets check-in fields on an existing record that has no
	// check-in yet (typically one created by the absence sweep).
	// Returns false when the record already carries a check-in.
	FillCheckIn(ctx context.Context, recordID int64, at time.Time, status AttendanceStatus, confidence float64) (bool, error)
	// SetCheckOut stamps the check-out time. Returns false when the record
	// already has one.
	SetCheckOut(ctx context.Context, recordID int64, at time.Time) (bool, error)
	// InsertAbsent creates an ABSENT record with no timestamps. Returns
	// false when any record already exists for the (employee, date).
	InsertAbsent(ctx context.Context, employeeID int64, date time.Time) (bool, error)
	ListByDate(ctx context.Context, date time.Time) ([]AttendanceRecord, error)
}

// ScheduleStore reads the per-day-of-week attendance windows.
type ScheduleStore interface {
	ListSchedules(ctx context.Context) ([]DailySchedule, error)
}

// HolidayStore reads and writes holiday rows. Reads used by attendance
// must include excluded rows so callers can distinguish "no row" from
// "row present but un-marked".
type HolidayStore interface {
	// GetHoliday returns nil when no row exists for the date.
	GetHoliday(ctx context.Context, date time.Time) (*Holiday, error)
	ListHolidays(ctx context.Context, year int) ([]Holiday, error)
	CreateHoliday(ctx context.Context, h *Holiday) error
	UpdateHoliday(ctx context.Context, h *Holiday) error
}

// SettingsStore reads the single-row global work settings. Backends
// return built-in defaults when no row has been written yet.
type SettingsStore interface {
	GetWorkSettings(ctx context.Context) (*WorkSettings, error)
}

// AuditSink accepts one entry per write operation. Recording is
// best-effort: implementations log failures and never block the
// operation that emitted the entry.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}

// Store bundles every storage concern a full deployment needs.
type Store interface {
	EmployeeStore
	EmbeddingStore
	AttendanceStore
	ScheduleStore
	HolidayStore
	SettingsStore
}
