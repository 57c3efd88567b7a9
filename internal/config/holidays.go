package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/jaekyeom/dayrecap/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed holidays.yaml
var builtinHolidays []byte

// LoadHolidays builds the holiday calendar from the embedded table, or from
// the file at path when one is configured. The table is plain data so a new
// year only needs a data update.
func LoadHolidays(path string) (domain.HolidayCalendar, error) {
	data := builtinHolidays
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return domain.HolidayCalendar{}, fmt.Errorf("read holidays file: %w", err)
		}
		data = fileData
	}

	return parseHolidays(data)
}

func parseHolidays(data []byte) (domain.HolidayCalendar, error) {
	var raw map[int][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.HolidayCalendar{}, fmt.Errorf("decode holidays table: %w", err)
	}

	entries := make(map[int][]domain.MonthDay, len(raw))
	for year, days := range raw {
		for _, day := range days {
			md, err := parseMonthDay(day)
			if err != nil {
				return domain.HolidayCalendar{}, fmt.Errorf("year %d: %w", year, err)
			}
			entries[year] = append(entries[year], md)
		}
	}

	return domain.NewHolidayCalendar(entries), nil
}

func parseMonthDay(raw string) (domain.MonthDay, error) {
	parsed, err := time.Parse("01-02", raw)
	if err != nil {
		return domain.MonthDay{}, fmt.Errorf("bad holiday entry %q: %w", raw, err)
	}

	return domain.MonthDay{Month: parsed.Month(), Day: parsed.Day()}, nil
}
