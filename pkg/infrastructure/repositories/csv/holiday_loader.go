package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

// Loader reads holiday calendars from CSV files, one row per holiday.
type Loader struct{}

// NewLoader creates a new CSV loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadHolidays loads holidays from a CSV file with the header
// date,name,category,country. Dates use the 2006-01-02 layout.
func (l *Loader) LoadHolidays(filename string) ([]entities.Holiday, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open holidays file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("holidays CSV must have header and at least one data row")
	}

	expectedHeader := []string{"date", "name", "category", "country"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("holidays CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var holidays []entities.Holiday
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("holidays CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		holiday, err := parseHoliday(record)
		if err != nil {
			return nil, fmt.Errorf("holidays CSV row %d: %w", i+2, err)
		}
		holidays = append(holidays, *holiday)
	}

	return holidays, nil
}

func parseHoliday(record []string) (*entities.Holiday, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", record[0], err)
	}
	return entities.NewHoliday(
		date,
		strings.TrimSpace(record[1]),
		strings.TrimSpace(record[2]),
		entities.Country(strings.TrimSpace(record[3])),
	)
}

func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(col)) != expected[i] {
			return false
		}
	}
	return true
}
