package memory

import (
	"testing"
	"time"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHolidayRepository_GroupsByCountryInDateOrder(t *testing.T) {
	repo := NewHolidayRepository()
	repo.AddCountry("DE")
	repo.AddCountry("CN")

	// out of date order on purpose
	repo.AddHoliday(entities.Holiday{Date: day(time.December, 25), Name: "Christmas", Country: "DE"})
	repo.AddHoliday(entities.Holiday{Date: day(time.October, 1), Name: "National Day", Country: "CN"})
	repo.AddHoliday(entities.Holiday{Date: day(time.January, 1), Name: "New Year", Country: "DE"})

	countries := repo.Countries()
	if len(countries) != 2 || countries[0] != "DE" || countries[1] != "CN" {
		t.Fatalf("unexpected country order: %v", countries)
	}

	all := repo.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 holidays, got %d", len(all))
	}
	wantNames := []string{"New Year", "Christmas", "National Day"}
	for i, want := range wantNames {
		if all[i].Name != want {
			t.Errorf("All()[%d] = %s, want %s", i, all[i].Name, want)
		}
	}
}

func TestHolidayRepository_AddHolidayRegistersCountry(t *testing.T) {
	repo := NewHolidayRepository()
	repo.AddHoliday(entities.Holiday{Date: day(time.July, 14), Name: "Bastille Day", Country: "FR"})

	if got := repo.Countries(); len(got) != 1 || got[0] != "FR" {
		t.Fatalf("unexpected countries: %v", got)
	}
	if got := repo.HolidaysFor("FR"); len(got) != 1 {
		t.Fatalf("expected 1 holiday for FR, got %d", len(got))
	}
	if got := repo.HolidaysFor("DE"); len(got) != 0 {
		t.Fatalf("expected no holidays for DE, got %d", len(got))
	}
}

func TestOverrideRepository_PreservesDeclarationOrder(t *testing.T) {
	repo := NewOverrideRepository()
	repo.Add(entities.PeriodOverride{VariantID: "V1", Period: 6, Delta: 900})
	repo.Add(entities.PeriodOverride{VariantID: "V1", Period: 6, Delta: -200})
	repo.Add(entities.PeriodOverride{VariantID: "V2", Period: 3, Delta: 150})

	got := repo.All()
	if len(got) != 3 {
		t.Fatalf("expected 3 overrides, got %d", len(got))
	}
	if got[0].Delta != 900 || got[1].Delta != -200 || got[2].Delta != 150 {
		t.Errorf("declaration order not preserved: %+v", got)
	}

	// mutating the returned slice must not affect the repository
	got[0].Delta = 0
	if repo.All()[0].Delta != 900 {
		t.Error("All() returned shared backing storage")
	}
}
