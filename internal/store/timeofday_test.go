package store

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "07:00", want: "07:00"},
		{in: "7:5", want: "07:05"},
		{in: "16:30:45", want: "16:30"},
		{in: "23:59", want: "23:59"},
		{in: "00:00", want: "00:00"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimeOfDay(%q) expected error, got %s", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q): %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayOn(t *testing.T) {
	date := time.Date(2026, 3, 2, 13, 45, 12, 999, time.UTC)
	got := MustTimeOfDay("07:30").On(date)
	want := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("On = %v, want %v", got, want)
	}
}

func TestTimeOfDayAddMinutes(t *testing.T) {
	tests := []struct {
		start   string
		minutes int
		want    string
	}{
		{"08:00", 15, "08:15"},
		{"08:50", 15, "09:05"},
		{"23:50", 30, "23:59"}, // clamps at end of day
		{"00:10", -30, "00:00"},
	}
	for _, tt := range tests {
		got := MustTimeOfDay(tt.start).AddMinutes(tt.minutes)
		if got.String() != tt.want {
			t.Errorf("%s + %dm = %s, want %s", tt.start, tt.minutes, got, tt.want)
		}
	}
}

func TestTimeOfDaySQLRoundTrip(t *testing.T) {
	v, err := MustTimeOfDay("16:00").Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "16:00:00" {
		t.Errorf("Value = %v, want 16:00:00", v)
	}

	var tod TimeOfDay
	for _, src := range []any{"16:00:00", []byte("16:00:00"), time.Date(2026, 1, 1, 16, 0, 0, 0, time.UTC)} {
		if err := tod.Scan(src); err != nil {
			t.Fatalf("Scan(%T): %v", src, err)
		}
		if tod.String() != "16:00" {
			t.Errorf("Scan(%T) = %s, want 16:00", src, tod)
		}
	}
	if err := tod.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestDayOfWeek(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i, want := range []int{0, 1, 2, 3, 4, 5, 6} {
		if got := DayOfWeek(monday.AddDate(0, 0, i)); got != want {
			t.Errorf("DayOfWeek(monday+%d) = %d, want %d", i, got, want)
		}
	}
}
