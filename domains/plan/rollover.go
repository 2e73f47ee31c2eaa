package plan

import "time"

// bucket returns the calendar bucket index for `t` under the given
// periodicity: the day number for daily, the month for monthly, the
// quarter (month-1)/3 for quarterly, the half (month-1)/6 for
// semiannual, and the year for yearly. Lifetime has no bucket and
// never rolls over.
func bucket(periodicity Periodicity, t time.Time) (year int, sub int) {
	year = t.Year()
	switch periodicity {
	case PeriodicityDaily:
		return year, t.YearDay()
	case PeriodicityMonthly:
		return year, int(t.Month())
	case PeriodicityQuarterly:
		return year, (int(t.Month()) - 1) / 3
	case PeriodicitySemiannual:
		return year, (int(t.Month()) - 1) / 6
	case PeriodicityYearly:
		return year, 0
	default:
		return year, 0
	}
}

// Rollover reports whether the calendar bucket containing `now` differs
// from the bucket containing `lastReset`. Lifetime
// periodicity never rolls over.
func Rollover(periodicity Periodicity, lastReset, now time.Time) bool {
	if periodicity == PeriodicityLifetime {
		return false
	}
	y1, s1 := bucket(periodicity, lastReset)
	y2, s2 := bucket(periodicity, now)
	return y1 != y2 || s1 != s2
}
