package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// Store implements store.Store on a PostgreSQL pool.
type Store struct {
	pool     *Pool
	fallback store.WorkSettings
}

// NewStore creates a PostgreSQL-backed store. fallback supplies the work
// settings returned before any row has been written.
func NewStore(pool *Pool, fallback store.WorkSettings) *Store {
	return &Store{pool: pool, fallback: fallback}
}

// GetWorkSettings returns the single settings row, or the configured
// fallback when the table is empty.
func (s *Store) GetWorkSettings(ctx context.Context) (*store.WorkSettings, error) {
	query := `
		SELECT village_name, officer_name, check_in_start, check_in_end, check_out_start,
		       late_threshold_minutes, min_checkout_gap_minutes, face_similarity_threshold, updated_at
		FROM work_settings
		WHERE id = 1
	`

	var ws store.WorkSettings
	err := s.pool.QueryRow(ctx, query).Scan(
		&ws.VillageName,
		&ws.OfficerName,
		&ws.CheckInStart,
		&ws.CheckInEnd,
		&ws.CheckOutStart,
		&ws.LateThresholdMinutes,
		&ws.MinCheckoutGapMinutes,
		&ws.FaceSimilarityThreshold,
		&ws.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		fb := s.fallback
		return &fb, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query work settings: %w", err)
	}
	return &ws, nil
}

// SaveWorkSettings upserts the single settings row.
func (s *Store) SaveWorkSettings(ctx context.Context, ws *store.WorkSettings) error {
	query := `
		INSERT INTO work_settings (id, village_name, officer_name, check_in_start, check_in_end,
		                           check_out_start, late_threshold_minutes, min_checkout_gap_minutes,
		                           face_similarity_threshold, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			village_name = EXCLUDED.village_name,
			officer_name = EXCLUDED.officer_name,
			check_in_start = EXCLUDED.check_in_start,
			check_in_end = EXCLUDED.check_in_end,
			check_out_start = EXCLUDED.check_out_start,
			late_threshold_minutes = EXCLUDED.late_threshold_minutes,
			min_checkout_gap_minutes = EXCLUDED.min_checkout_gap_minutes,
			face_similarity_threshold = EXCLUDED.face_similarity_threshold,
			updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query,
		ws.VillageName,
		ws.OfficerName,
		ws.CheckInStart,
		ws.CheckInEnd,
		ws.CheckOutStart,
		ws.LateThresholdMinutes,
		ws.MinCheckoutGapMinutes,
		ws.FaceSimilarityThreshold,
	); err != nil {
		return fmt.Errorf("save work settings: %w", err)
	}
	return nil
}

// SeedSchedules inserts the given per-day schedules for any day of week
// that has no row yet. Existing rows are left untouched.
func (s *Store) SeedSchedules(ctx context.Context, schedules []store.DailySchedule) error {
	query := `
		INSERT INTO daily_work_schedules (day_of_week, is_workday, check_in_start, check_in_end, check_out_start)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (day_of_week) DO NOTHING
	`

	for _, sched := range schedules {
		if _, err := s.pool.Exec(ctx, query,
			sched.DayOfWeek,
			sched.IsWorkday,
			sched.CheckInStart,
			sched.CheckInEnd,
			sched.CheckOutStart,
		); err != nil {
			return fmt.Errorf("seed schedule for day %d: %w", sched.DayOfWeek, err)
		}
	}
	return nil
}

// Verify interface compliance.
var _ store.Store = (*Store)(nil)
