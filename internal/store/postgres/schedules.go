package postgres

import (
	"context"
	"fmt"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// ListSchedules returns the per-day-of-week attendance windows ordered
// Monday first. Days without a row fall back to the global settings.
func (s *Store) ListSchedules(ctx context.Context) ([]store.DailySchedule, error) {
	query := `
		SELECT id, day_of_week, is_workday, check_in_start, check_in_end, check_out_start, updated_at
		FROM daily_work_schedules
		ORDER BY day_of_week
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []store.DailySchedule
	for rows.Next() {
		var sched store.DailySchedule
		err := rows.Scan(
			&sched.ID,
			&sched.DayOfWeek,
			&sched.IsWorkday,
			&sched.CheckInStart,
			&sched.CheckInEnd,
			&sched.CheckOutStart,
			&sched.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return schedules, nil
}
