package attendance

import (
	"testing"
	"time"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

func tod(s string) store.TimeOfDay {
	return store.MustTimeOfDay(s)
}

func TestResolveDay(t *testing.T) {
	fallback := &store.WorkSettings{
		CheckInStart:  tod("07:00"),
		CheckInEnd:    tod("08:00"),
		CheckOutStart: tod("16:00"),
	}
	schedules := []store.DailySchedule{
		{DayOfWeek: 4, IsWorkday: true, CheckInStart: tod("07:30"), CheckInEnd: tod("08:30"), CheckOutStart: tod("15:00")},
		{DayOfWeek: 5, IsWorkday: false, CheckInStart: tod("07:00"), CheckInEnd: tod("08:00"), CheckOutStart: tod("16:00")},
	}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("RowWins", func(t *testing.T) {
		friday := monday.AddDate(0, 0, 4)
		day := ResolveDay(friday, schedules, fallback)
		if !day.IsWorkday {
			t.Fatal("expected friday row to mark a workday")
		}
		if day.CheckInStart != tod("07:30") || day.CheckOutStart != tod("15:00") {
			t.Errorf("expected friday row windows, got %s-%s", day.CheckInStart, day.CheckOutStart)
		}

		saturday := monday.AddDate(0, 0, 5)
		if ResolveDay(saturday, schedules, fallback).IsWorkday {
			t.Error("saturday row marks a non-workday, ResolveDay said workday")
		}
	})

	t.Run("FallbackWeekdays", func(t *testing.T) {
		day := ResolveDay(monday, schedules, fallback)
		if !day.IsWorkday {
			t.Fatal("monday without a row should fall back to a workday")
		}
		if day.CheckInStart != tod("07:00") || day.CheckInEnd != tod("08:00") || day.CheckOutStart != tod("16:00") {
			t.Errorf("expected fallback windows, got %s / %s / %s", day.CheckInStart, day.CheckInEnd, day.CheckOutStart)
		}
	})

	t.Run("FallbackWeekend", func(t *testing.T) {
		sunday := monday.AddDate(0, 0, 6)
		if ResolveDay(sunday, nil, fallback).IsWorkday {
			t.Error("sunday without a row should not be a workday")
		}
	})
}

func TestDetermineMode(t *testing.T) {
	day := DaySchedule{
		IsWorkday:     true,
		CheckInStart:  tod("07:00"),
		CheckInEnd:    tod("08:00"),
		CheckOutStart: tod("16:00"),
	}

	tests := []struct {
		name      string
		at        string
		checkedIn bool
		want      Mode
	}{
		{"BeforeWindow", "06:59", false, ModeNone},
		{"WindowOpens", "07:00", false, ModeCheckIn},
		{"InsideWindow", "07:45", false, ModeCheckIn},
		{"LateWindowStart", "08:00", false, ModeCheckIn},
		{"LateWindowEnd", "15:59", false, ModeCheckIn},
		{"CheckOutOpens", "16:00", false, ModeCheckOut},
		{"EndOfDay", "23:59", false, ModeCheckOut},
		{"CheckedInEarlyDeparture", "10:00", true, ModeCheckOut},
		{"CheckedInBeforeWindow", "06:30", true, ModeCheckOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineMode(tod(tt.at), day, tt.checkedIn)
			if got != tt.want {
				t.Errorf("DetermineMode(%s, checkedIn=%v) = %s, want %s", tt.at, tt.checkedIn, got, tt.want)
			}
		})
	}
}
