package fiscal

import "time"

// The Thai government fiscal year is named by its Buddhist-calendar year and
// runs Oct 1 through Sep 30 of the corresponding Gregorian year.
// Gregorian year = Buddhist year - 543.

const buddhistOffset = 543

// GregorianYear converts a Buddhist-calendar fiscal year to its Gregorian year.
func GregorianYear(fiscalYear int) int {
	return fiscalYear - buddhistOffset
}

// BuddhistYear converts a Gregorian year to the Buddhist calendar.
func BuddhistYear(gregorianYear int) int {
	return gregorianYear + buddhistOffset
}

// Period returns the start (Oct 1, inclusive) and end (Sep 30, inclusive) of
// the given Buddhist-calendar fiscal year, in UTC.
func Period(fiscalYear int) (start, end time.Time) {
	g := GregorianYear(fiscalYear)
	start = time.Date(g-1, time.October, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(g, time.September, 30, 0, 0, 0, 0, time.UTC)
	return start, end
}

// YearOf returns the Buddhist-calendar fiscal year that contains t.
// Dates from October onward belong to the next fiscal year.
func YearOf(t time.Time) int {
	t = t.UTC()
	year := t.Year()
	if t.Month() >= time.October {
		year++
	}
	return BuddhistYear(year)
}
