package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// GetHoliday returns the holiday row for a date including excluded rows,
// so callers can tell "no row" apart from "row present but un-marked".
// Returns nil when no row exists.
func (s *Store) GetHoliday(ctx context.Context, date time.Time) (*store.Holiday, error) {
	query := `
		SELECT id, date, name, is_auto, is_cuti, is_excluded, created_at
		FROM holidays
		WHERE date = $1
	`

	var h store.Holiday
	err := s.pool.QueryRow(ctx, query, store.DateOf(date)).Scan(
		&h.ID, &h.Date, &h.Name, &h.IsAuto, &h.IsCuti, &h.IsExcluded, &h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query holiday: %w", err)
	}
	return &h, nil
}

// ListHolidays returns every holiday row in a calendar year, excluded
// rows included, ordered by date.
func (s *Store) ListHolidays(ctx context.Context, year int) ([]store.Holiday, error) {
	query := `
		SELECT id, date, name, is_auto, is_cuti, is_excluded, created_at
		FROM holidays
		WHERE date >= $1 AND date < $2
		ORDER BY date
	`

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []store.Holiday
	for rows.Next() {
		var h store.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.IsAuto, &h.IsCuti, &h.IsExcluded, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holidays: %w", err)
	}
	return holidays, nil
}

// CreateHoliday inserts a new holiday row and fills in the assigned ID.
func (s *Store) CreateHoliday(ctx context.Context, h *store.Holiday) error {
	query := `
		INSERT INTO holidays (date, name, is_auto, is_cuti, is_excluded)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.pool.QueryRow(ctx, query,
		store.DateOf(h.Date), h.Name, h.IsAuto, h.IsCuti, h.IsExcluded,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert holiday: %w", err)
	}
	return nil
}

// UpdateHoliday rewrites the mutable fields of an existing holiday row.
func (s *Store) UpdateHoliday(ctx context.Context, h *store.Holiday) error {
	query := `
		UPDATE holidays
		SET name = $2, is_auto = $3, is_cuti = $4, is_excluded = $5
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query, h.ID, h.Name, h.IsAuto, h.IsCuti, h.IsExcluded)
	if err != nil {
		return fmt.Errorf("update holiday: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update holiday rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("holiday %d not found", h.ID)
	}
	return nil
}
