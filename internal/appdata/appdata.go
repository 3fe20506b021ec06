// Package appdata computes the static calendar reference tables: month
// layouts and US holidays for a range of years.
package appdata

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/teambition/rrule-go"
)

type holidayRule struct {
	name string
	kind string
	rule string
}

// holidayRules are yearly recurrences; fixed dates use BYMONTHDAY and
// floating ones an ordinal BYDAY (-1 for the last weekday of the month).
var holidayRules = []holidayRule{
	{"New Year's Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1"},
	{"Martin Luther King Jr. Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=1;BYDAY=3MO"},
	{"Valentine's Day", models.HolidayObservance, "FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=14"},
	{"Presidents' Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=2;BYDAY=3MO"},
	{"Mother's Day", models.HolidayObservance, "FREQ=YEARLY;BYMONTH=5;BYDAY=2SU"},
	{"Memorial Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=5;BYDAY=-1MO"},
	{"Father's Day", models.HolidayObservance, "FREQ=YEARLY;BYMONTH=6;BYDAY=3SU"},
	{"Juneteenth", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=6;BYMONTHDAY=19"},
	{"Independence Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=7;BYMONTHDAY=4"},
	{"Labor Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=9;BYDAY=1MO"},
	{"Columbus Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=10;BYDAY=2MO"},
	{"Halloween", models.HolidayObservance, "FREQ=YEARLY;BYMONTH=10;BYMONTHDAY=31"},
	{"Veterans Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=11;BYMONTHDAY=11"},
	{"Thanksgiving Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=11;BYDAY=4TH"},
	{"Christmas Day", models.HolidayFederal, "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"},
}

// YearRange returns the inclusive range [now-back, now+forward].
func YearRange(now time.Time, back, forward int) (int, int) {
	y := now.UTC().Year()
	return y - back, y + forward
}

// Build computes the reference document for the inclusive year range.
func Build(fromYear, toYear int, now time.Time) (*models.AppData, error) {
	if toYear < fromYear {
		return nil, fmt.Errorf("invalid year range %d..%d", fromYear, toYear)
	}

	calendarDates := make(map[string]map[string]models.MonthLayout, toYear-fromYear+1)
	for y := fromYear; y <= toYear; y++ {
		calendarDates[strconv.Itoa(y)] = MonthLayouts(y)
	}

	holidays, err := Holidays(fromYear, toYear)
	if err != nil {
		return nil, err
	}

	return &models.AppData{
		AppDataType:   models.AppDataTypeCalendar,
		CalendarDates: calendarDates,
		HolidayDates:  holidays,
		UpdatedAt:     now.UTC(),
	}, nil
}

// MonthLayouts returns, per month name, the number of days and the weekday
// the month starts on.
func MonthLayouts(year int) map[string]models.MonthLayout {
	out := make(map[string]models.MonthLayout, 12)
	for m := time.January; m <= time.December; m++ {
		first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		out[m.String()] = models.MonthLayout{
			Days:          first.AddDate(0, 1, -1).Day(),
			MonthStartsOn: first.Weekday().String(),
		}
	}
	return out
}

// Holidays returns the holidays of every year in range keyed by year and
// sorted by date within each year.
func Holidays(fromYear, toYear int) (map[string][]models.Holiday, error) {
	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(toYear, time.December, 31, 23, 59, 59, 0, time.UTC)

	out := make(map[string][]models.Holiday, toYear-fromYear+1)
	for y := fromYear; y <= toYear; y++ {
		out[strconv.Itoa(y)] = []models.Holiday{}
	}

	for _, h := range holidayRules {
		set, err := rrule.StrToRRuleSet(fmt.Sprintf("DTSTART:%s\nRRULE:%s", start.Format("20060102T150405Z"), h.rule))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rule for %s: %w", h.name, err)
		}
		for _, t := range set.Between(start, end, true) {
			year := strconv.Itoa(t.Year())
			out[year] = append(out[year], models.Holiday{
				Date: t.Format(time.DateOnly),
				Name: h.name,
				Type: h.kind,
			})
		}
	}

	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	}
	return out, nil
}
