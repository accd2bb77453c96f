package config

import (
	"testing"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Extractor.URL != "http://localhost:8000" {
		t.Errorf("Extractor.URL = %q", cfg.Extractor.URL)
	}
	if cfg.Extractor.Dim != 128 {
		t.Errorf("Extractor.Dim = %d, want 128", cfg.Extractor.Dim)
	}
	if cfg.Recognition.Threshold != 0.40 {
		t.Errorf("Recognition.Threshold = %f, want 0.40", cfg.Recognition.Threshold)
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("database pool defaults = %d/%d, want 25/5", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EXTRACTOR_URL", "http://extractor:9000")
	t.Setenv("EMBEDDING_DIM", "512")
	t.Setenv("FACE_MATCH_THRESHOLD", "0.55")
	t.Setenv("FACE_MATCH_HNSW", "true")
	t.Setenv("DATABASE_URL", "postgres://app:app@db:5432/absen")

	cfg := Load()
	if cfg.Extractor.URL != "http://extractor:9000" {
		t.Errorf("Extractor.URL = %q", cfg.Extractor.URL)
	}
	if cfg.Extractor.Dim != 512 {
		t.Errorf("Extractor.Dim = %d, want 512", cfg.Extractor.Dim)
	}
	if cfg.Recognition.Threshold != 0.55 {
		t.Errorf("Recognition.Threshold = %f, want 0.55", cfg.Recognition.Threshold)
	}
	if !cfg.Recognition.UseHNSW {
		t.Error("Recognition.UseHNSW should be enabled")
	}
	if cfg.Database.URL != "postgres://app:app@db:5432/absen" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("EMBEDDING_DIM", "-4")
	t.Setenv("FACE_MATCH_THRESHOLD", "1.5")
	t.Setenv("FACE_MATCH_HNSW", "yes please")

	cfg := Load()
	if cfg.Extractor.Dim != 128 {
		t.Errorf("invalid EMBEDDING_DIM should fall back to 128, got %d", cfg.Extractor.Dim)
	}
	if cfg.Recognition.Threshold != 0.40 {
		t.Errorf("out-of-range threshold should fall back to 0.40, got %f", cfg.Recognition.Threshold)
	}
	if cfg.Recognition.UseHNSW {
		t.Error("unparseable FACE_MATCH_HNSW should fall back to false")
	}
}

func TestEmbeddedDefaults(t *testing.T) {
	cfg := Load()

	settings := cfg.DefaultSettings()
	if settings.CheckInStart != store.MustTimeOfDay("07:00") ||
		settings.CheckInEnd != store.MustTimeOfDay("08:00") ||
		settings.CheckOutStart != store.MustTimeOfDay("16:00") {
		t.Errorf("default windows = %s / %s / %s", settings.CheckInStart, settings.CheckInEnd, settings.CheckOutStart)
	}
	if settings.LateThresholdMinutes != 15 || settings.MinCheckoutGapMinutes != 3 {
		t.Errorf("thresholds = %d/%d, want 15/3", settings.LateThresholdMinutes, settings.MinCheckoutGapMinutes)
	}

	schedules := cfg.DefaultSchedules()
	if len(schedules) != 7 {
		t.Fatalf("expected 7 day rows, got %d", len(schedules))
	}
	byDay := make(map[int]store.DailySchedule, len(schedules))
	for _, s := range schedules {
		byDay[s.DayOfWeek] = s
	}
	if !byDay[0].IsWorkday || byDay[5].IsWorkday || byDay[6].IsWorkday {
		t.Error("expected Monday workday, Saturday and Sunday off")
	}
	// Friday is the short day.
	if byDay[4].CheckOutStart != store.MustTimeOfDay("11:30") {
		t.Errorf("friday check-out = %s, want 11:30", byDay[4].CheckOutStart)
	}
}
