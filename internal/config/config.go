package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Database    DatabaseConfig
	Legacy      LegacyConfig
	Extractor   ExtractorConfig
	Recognition RecognitionConfig
	Defaults    DefaultsConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

// LegacyConfig points at an existing MariaDB HR database for one-shot
// employee imports.
type LegacyConfig struct {
	DatabaseDSN string // e.g. hr:hr@tcp(mariadb:3306)/hr
}

type ExtractorConfig struct {
	URL              string // embedding extraction service, defaults to http://localhost:8000
	Dim              int    // embedding dimension, defaults to 128
	RecognizeMaxSize int    // max image dimension before extraction at the kiosk (default 640)
	EnrollMaxSize    int    // max image dimension for enrollment shots (default 1280)
}

type RecognitionConfig struct {
	Threshold   float64 // minimum similarity to accept a match (default 0.40)
	UseHNSW     bool    // shortlist candidates with an HNSW graph on large populations
	HNSWMinSize int     // below this many vectors the engine always scans exhaustively
}

// DefaultsConfig carries the embedded fallback schedule and settings used
// when the database holds no rows yet.
type DefaultsConfig struct {
	Settings  defaultSettings   `yaml:"settings"`
	Schedules []defaultSchedule `yaml:"schedules"`
}

type defaultSettings struct {
	VillageName             string  `yaml:"village_name"`
	CheckInStart            string  `yaml:"check_in_start"`
	CheckInEnd              string  `yaml:"check_in_end"`
	CheckOutStart           string  `yaml:"check_out_start"`
	LateThresholdMinutes    int     `yaml:"late_threshold_minutes"`
	MinCheckoutGapMinutes   int     `yaml:"min_checkout_gap_minutes"`
	FaceSimilarityThreshold float64 `yaml:"face_similarity_threshold"`
}

type defaultSchedule struct {
	DayOfWeek     int    `yaml:"day_of_week"`
	IsWorkday     bool   `yaml:"is_workday"`
	CheckInStart  string `yaml:"check_in_start"`
	CheckInEnd    string `yaml:"check_in_end"`
	CheckOutStart string `yaml:"check_out_start"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a float in (0, 1].
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f <= 1 {
		return f
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return defaultVal
	}
	return b
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var defaults DefaultsConfig
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// Embedded file, so this can only break on a bad build.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Legacy: LegacyConfig{
			DatabaseDSN: os.Getenv("LEGACY_DATABASE_DSN"),
		},
		Extractor: ExtractorConfig{
			URL:              envString("EXTRACTOR_URL", "http://localhost:8000"),
			Dim:              envInt("EMBEDDING_DIM", 128),
			RecognizeMaxSize: envInt("RECOGNIZE_MAX_IMAGE_SIZE", 640),
			EnrollMaxSize:    envInt("ENROLL_MAX_IMAGE_SIZE", 1280),
		},
		Recognition: RecognitionConfig{
			Threshold:   envFloat("FACE_MATCH_THRESHOLD", 0.40),
			UseHNSW:     envBool("FACE_MATCH_HNSW", false),
			HNSWMinSize: envInt("FACE_MATCH_HNSW_MIN_SIZE", 512),
		},
		Defaults: defaults,
	}
}

// DefaultSettings materializes the embedded fallback work settings.
func (c *Config) DefaultSettings() *store.WorkSettings {
	s := c.Defaults.Settings
	return &store.WorkSettings{
		VillageName:             s.VillageName,
		CheckInStart:            store.MustTimeOfDay(s.CheckInStart),
		CheckInEnd:              store.MustTimeOfDay(s.CheckInEnd),
		CheckOutStart:           store.MustTimeOfDay(s.CheckOutStart),
		LateThresholdMinutes:    s.LateThresholdMinutes,
		MinCheckoutGapMinutes:   s.MinCheckoutGapMinutes,
		FaceSimilarityThreshold: s.FaceSimilarityThreshold,
	}
}

// DefaultSchedules materializes the embedded per-day-of-week schedules.
func (c *Config) DefaultSchedules() []store.DailySchedule {
	out := make([]store.DailySchedule, 0, len(c.Defaults.Schedules))
	for _, d := range c.Defaults.Schedules {
		out = append(out, store.DailySchedule{
			DayOfWeek:     d.DayOfWeek,
			IsWorkday:     d.IsWorkday,
			CheckInStart:  store.MustTimeOfDay(d.CheckInStart),
			CheckInEnd:    store.MustTimeOfDay(d.CheckInEnd),
			CheckOutStart: store.MustTimeOfDay(d.CheckOutStart),
		})
	}
	return out
}
