// Package holiday imports Indonesian national holidays and joint-leave
// days from the dayoff API into the holiday store.
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// DefaultAPIURL is the public holiday API for Indonesia.
const DefaultAPIURL = "https://dayoffapi.vercel.app/api"

// apiItem is one holiday as returned by the API. Dates arrive in loose
// YYYY-M-D form without zero padding.
type apiItem struct {
	Date   string `json:"tanggal"`
	Name   string `json:"keterangan"`
	IsCuti bool   `json:"is_cuti"`
}

// Stats summarizes one sync run.
type Stats struct {
	Added   int
	Updated int
	Skipped int
}

// Syncer fetches holidays for a year and upserts them into the store.
type Syncer struct {
	store  store.HolidayStore
	audit  store.AuditSink
	apiURL string
	client *http.Client
}

// NewSyncer creates a holiday syncer. apiURL may be empty to use the
// public API; audit may be nil.
func NewSyncer(holidays store.HolidayStore, audit store.AuditSink, apiURL string) *Syncer {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Syncer{
		store:  holidays,
		audit:  audit,
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// parseLooseDate accepts YYYY-M-D with or without zero padding.
func parseLooseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-1-2", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// fetch retrieves all holidays for one calendar year.
func (s *Syncer) fetch(ctx context.Context, year int) ([]apiItem, error) {
	url := fmt.Sprintf("%s?year=%d", s.apiURL, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned status %d", resp.StatusCode)
	}

	var items []apiItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode holiday response: %w", err)
	}
	return items, nil
}

// Sync imports one year of holidays. Rows a user has un-marked
// (IsExcluded) are never re-added or touched. Manually entered rows are
// left alone; auto-imported rows are updated in place when the API's
// name or joint-leave flag changed.
func (s *Syncer) Sync(ctx context.Context, year int) (Stats, error) {
	var stats Stats

	items, err := s.fetch(ctx, year)
	if err != nil {
		return stats, err
	}

	existing, err := s.store.ListHolidays(ctx, year)
	if err != nil {
		return stats, fmt.Errorf("list existing holidays: %w", err)
	}
	byDate := make(map[string]*store.Holiday, len(existing))
	for i := range existing {
		byDate[existing[i].Date.Format("2006-01-02")] = &existing[i]
	}

	for _, item := range items {
		date, err := parseLooseDate(item.Date)
		if err != nil {
			stats.Skipped++
			continue
		}

		current, ok := byDate[date.Format("2006-01-02")]
		if !ok {
			h := &store.Holiday{Date: date, Name: item.Name, IsAuto: true, IsCuti: item.IsCuti}
			if err := s.store.CreateHoliday(ctx, h); err != nil {
				return stats, fmt.Errorf("create holiday %s: %w", item.Date, err)
			}
			stats.Added++
			continue
		}

		if current.IsExcluded || !current.IsAuto {
			stats.Skipped++
			continue
		}
		if current.Name == item.Name && current.IsCuti == item.IsCuti {
			stats.Skipped++
			continue
		}

		current.Name = item.Name
		current.IsCuti = item.IsCuti
		if err := s.store.UpdateHoliday(ctx, current); err != nil {
			return stats, fmt.Errorf("update holiday %s: %w", item.Date, err)
		}
		stats.Updated++
	}

	if s.audit != nil && (stats.Added > 0 || stats.Updated > 0) {
		s.audit.Record(ctx, store.AuditEntry{
			Action:      "holiday_sync",
			Entity:      "holiday",
			Description: fmt.Sprintf("synced %d holidays for %d (%d added, %d updated)", len(items), year, stats.Added, stats.Updated),
		})
	}

	return stats, nil
}
