package tax

import "time"

// YearsBetween expresses the elapsed time between two dates in fractional
// years: whole years, plus whole months / 12, plus leftover days / 365.
//
// The decomposition is calendar-aware (month arithmetic clamps to the last
// day of short months) rather than a naive day-count / 365.25. Relief
// eligibility has hard cutoffs at 2 and 8 years, so the exact boundary
// behavior matters: a vesting anniversary lands on a whole number of years.
//
// If to precedes from the decomposition is negative with the same structure.
func YearsBetween(from, to time.Time) float64 {
	from = midnightUTC(from)
	to = midnightUTC(to)

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	anchor := addMonths(from, months)
	if to.Before(from) {
		for anchor.Before(to) {
			months++
			anchor = addMonths(from, months)
		}
	} else {
		for to.Before(anchor) {
			months--
			anchor = addMonths(from, months)
		}
	}
	days := int(to.Sub(anchor).Hours() / 24)

	years := months / 12
	months = months % 12
	return float64(years) + float64(months)/12 + float64(days)/365
}

// addMonths shifts a date by whole months, clamping to the last day of the
// target month (Jan 31 + 1 month = Feb 28/29). time.AddDate would roll over
// into March instead, which breaks the anniversary semantics.
func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
