package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const attendanceColumns = `id, employee_id, date, check_in_at, check_out_at, status,
	confidence_score, corrected_by, correction_notes, created_at, updated_at`

// GetRecord returns the attendance row for one employee on one date, or
// nil when none exists.
func (s *Store) GetRecord(ctx context.Context, employeeID int64, date time.Time) (*store.AttendanceRecord, error) {
	query := "SELECT " + attendanceColumns + " FROM attendance_logs WHERE employee_id = $1 AND date = $2"

	rec, err := scanAttendance(s.pool.QueryRow(ctx, query, employeeID, store.DateOf(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query attendance record: %w", err)
	}
	return rec, nil
}

// InsertCheckIn creates a fresh record with check-in fields set. The
// (employee_id, date) unique constraint arbitrates concurrent writers;
// losing the race returns false without error so the caller can re-read.
func (s *Store) InsertCheckIn(ctx context.Context, rec *store.AttendanceRecord) (bool, error) {
	query := `
		INSERT INTO attendance_logs (employee_id, date, check_in_at, status, confidence_score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	var confidence sql.NullFloat64
	if rec.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *rec.Confidence, Valid: true}
	}

	err := s.pool.QueryRow(ctx, query,
		rec.EmployeeID,
		store.DateOf(rec.Date),
		rec.CheckInAt,
		rec.Status,
		confidence,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert check-in: %w", err)
	}
	return true, nil
}

// FillCheckIn stamps check-in fields onto an existing record that has no
// check-in yet. The IS NULL guard makes concurrent fills first-wins.
func (s *Store) FillCheckIn(
	ctx context.Context, recordID int64, at time.Time, status store.AttendanceStatus, confidence float64,
) (bool, error) {
	query := `
		UPDATE attendance_logs
		SET check_in_at = $2, status = $3, confidence_score = $4, updated_at = NOW()
		WHERE id = $1 AND check_in_at IS NULL
	`

	result, err := s.pool.Exec(ctx, query, recordID, at, status, confidence)
	if err != nil {
		return false, fmt.Errorf("fill check-in: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("fill check-in rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetCheckOut stamps the check-out time, first-wins like FillCheckIn.
// The status set at check-in is never touched.
func (s *Store) SetCheckOut(ctx context.Context, recordID int64, at time.Time) (bool, error) {
	query := `
		UPDATE attendance_logs
		SET check_out_at = $2, updated_at = NOW()
		WHERE id = $1 AND check_in_at IS NOT NULL AND check_out_at IS NULL
	`

	result, err := s.pool.Exec(ctx, query, recordID, at)
	if err != nil {
		return false, fmt.Errorf("set check-out: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set check-out rows affected: %w", err)
	}
	return affected > 0, nil
}

// InsertAbsent creates an absent record with no timestamps. Any existing
// row for the (employee, date) wins, making the sweep re-runnable.
func (s *Store) InsertAbsent(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	query := `
		INSERT INTO attendance_logs (employee_id, date, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	result, err := s.pool.Exec(ctx, query, employeeID, store.DateOf(date), store.StatusAbsent)
	if err != nil {
		return false, fmt.Errorf("insert absent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert absent rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListByDate returns every attendance row for a date ordered by employee.
func (s *Store) ListByDate(ctx context.Context, date time.Time) ([]store.AttendanceRecord, error) {
	query := "SELECT " + attendanceColumns + " FROM attendance_logs WHERE date = $1 ORDER BY employee_id"

	rows, err := s.pool.Query(ctx, query, store.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("query attendance by date: %w", err)
	}
	defer rows.Close()

	var records []store.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance records: %w", err)
	}
	return records, nil
}

func scanAttendance(scanner interface{ Scan(...any) error }) (*store.AttendanceRecord, error) {
	var rec store.AttendanceRecord
	var checkIn, checkOut sql.NullTime
	var confidence sql.NullFloat64

	err := scanner.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.Date,
		&checkIn,
		&checkOut,
		&rec.Status,
		&confidence,
		&rec.CorrectedBy,
		&rec.CorrectionNotes,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan attendance record: %w", err)
	}
	if checkIn.Valid {
		t := checkIn.Time
		rec.CheckInAt = &t
	}
	if checkOut.Valid {
		t := checkOut.Time
		rec.CheckOutAt = &t
	}
	if confidence.Valid {
		v := confidence.Float64
		rec.Confidence = &v
	}
	return &rec, nil
}
