// Package dateutils finds the reporting month of a sheet.
package dateutils

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"contajur/ledger/internal/models"
)

// DateLayoutBR is the day-first layout used inside report headers.
const DateLayoutBR = "02/01/2006"

// PeriodSource tells which input a period was taken from.
type PeriodSource string

const (
	SourceHeader   PeriodSource = "header"
	SourceFilename PeriodSource = "filename"
	SourceClock    PeriodSource = "clock"
)

var (
	rangeRe      = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s*(?:à|a|até)\s*(\d{2}/\d{2}/\d{4})`)
	yearMonthRe  = regexp.MustCompile(`(?:^|[^\d])(\d{4})[-_.](\d{2})(?:[^\d]|$)`)
	monthYearRe  = regexp.MustCompile(`(?:^|[^\d])(\d{2})[-_.](\d{4})(?:[^\d]|$)`)
	monthNameRe  = regexp.MustCompile(`([a-zç]+)[-_. ]*(\d{4})`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	monthsByName = map[string]time.Month{
		"janeiro": time.January, "jan": time.January,
		"fevereiro": time.February, "fev": time.February,
		"marco": time.March, "março": time.March, "mar": time.March,
		"abril": time.April, "abr": time.April,
		"maio": time.May, "mai": time.May,
		"junho": time.June, "jun": time.June,
		"julho": time.July, "jul": time.July,
		"agosto": time.August, "ago": time.August,
		"setembro": time.September, "set": time.September,
		"outubro": time.October, "out": time.October,
		"novembro": time.November, "nov": time.November,
		"dezembro": time.December, "dez": time.December,
	}
)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDateRange extracts "dd/mm/yyyy à dd/mm/yyyy" from free text.
func ParseDateRange(text string) (start, end time.Time, ok bool) {
	m := rangeRe.FindStringSubmatch(CleanDateString(text))
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.Parse(DateLayoutBR, m[1])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.Parse(DateLayoutBR, m[2])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// PeriodFromHeader returns the month of the first date of the range marker.
func PeriodFromHeader(text string) (models.Period, bool) {
	start, _, ok := ParseDateRange(text)
	if !ok {
		return models.Period{}, false
	}
	return models.PeriodOf(start), true
}

// PeriodFromFilename reads hints such as "2025-07", "07_2025" or
// "julho-2025" from a file name.
func PeriodFromFilename(name string) (models.Period, bool) {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	if base == "" || base == "." {
		return models.Period{}, false
	}

	if m := yearMonthRe.FindStringSubmatch(base); m != nil {
		if p, ok := buildPeriod(m[1], m[2]); ok {
			return p, true
		}
	}
	if m := monthYearRe.FindStringSubmatch(base); m != nil {
		if p, ok := buildPeriod(m[2], m[1]); ok {
			return p, true
		}
	}
	for _, m := range monthNameRe.FindAllStringSubmatch(base, -1) {
		month, ok := monthsByName[m[1]]
		if !ok {
			continue
		}
		year, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if p, err := models.NewPeriod(year, month); err == nil {
			return p, true
		}
	}
	return models.Period{}, false
}

// ResolvePeriod picks the period of a report: header marker first, then the
// file name, then the clock.
func ResolvePeriod(header, filename string, now time.Time) (models.Period, PeriodSource) {
	if p, ok := PeriodFromHeader(header); ok {
		return p, SourceHeader
	}
	if p, ok := PeriodFromFilename(filename); ok {
		return p, SourceFilename
	}
	return models.PeriodOf(now), SourceClock
}

func buildPeriod(yearStr, monthStr string) (models.Period, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return models.Period{}, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return models.Period{}, false
	}
	p, err := models.NewPeriod(year, time.Month(month))
	if err != nil {
		return models.Period{}, false
	}
	return p, true
}
