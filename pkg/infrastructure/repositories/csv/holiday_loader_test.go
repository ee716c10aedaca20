package csv

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadHolidays(t *testing.T) {
	path := writeFile(t, `date,name,category,country
2026-01-01,New Year,public,DE
2026-02-17,Spring Festival,public,CN
`)
	holidays, err := NewLoader().LoadHolidays(path)
	if err != nil {
		t.Fatalf("LoadHolidays failed: %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("expected 2 holidays, got %d", len(holidays))
	}
	if holidays[0].Country != "DE" || holidays[0].Name != "New Year" {
		t.Errorf("unexpected first holiday: %+v", holidays[0])
	}
	want := time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC)
	if !holidays[1].Date.Equal(want) {
		t.Errorf("expected date %s, got %s", want, holidays[1].Date)
	}
}

func TestLoadHolidays_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad_header", "day,name,category,country\n2026-01-01,X,public,DE\n"},
		{"bad_date", "date,name,category,country\nJan 1,X,public,DE\n"},
		{"missing_country", "date,name,category,country\n2026-01-01,X,public,\n"},
		{"no_rows", "date,name,category,country\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader().LoadHolidays(writeFile(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadHolidays_MissingFile(t *testing.T) {
	if _, err := NewLoader().LoadHolidays(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
