package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestRollover(t *testing.T) {
	cases := []struct {
		name       string
		periodicity Periodicity
		last       time.Time
		now        time.Time
		want       bool
	}{
		{"daily same day", PeriodicityDaily, d(2025, 1, 31), d(2025, 1, 31), false},
		{"daily next day", PeriodicityDaily, d(2025, 1, 31), d(2025, 2, 1), true},
		{"monthly same month", PeriodicityMonthly, d(2025, 1, 1), d(2025, 1, 31), false},
		{"monthly rollover", PeriodicityMonthly, d(2025, 1, 31), d(2025, 2, 1), true},
		{"quarterly same quarter", PeriodicityQuarterly, d(2025, 1, 1), d(2025, 3, 31), false},
		{"quarterly rollover", PeriodicityQuarterly, d(2025, 3, 31), d(2025, 4, 1), true},
		{"quarterly year wrap", PeriodicityQuarterly, d(2025, 12, 31), d(2026, 1, 1), true},
		{"semiannual same half", PeriodicitySemiannual, d(2025, 1, 1), d(2025, 6, 30), false},
		{"semiannual rollover", PeriodicitySemiannual, d(2025, 6, 30), d(2025, 7, 1), true},
		{"yearly same year", PeriodicityYearly, d(2025, 1, 1), d(2025, 12, 31), false},
		{"yearly rollover", PeriodicityYearly, d(2025, 12, 31), d(2026, 1, 1), true},
		{"lifetime never", PeriodicityLifetime, d(2020, 1, 1), d(2030, 1, 1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Rollover(tc.periodicity, tc.last, tc.now))
		})
	}
}

func TestRollover_MonthlyAcrossYearBoundary(t *testing.T) {
	assert.True(t, Rollover(PeriodicityMonthly, d(2025, 1, 15), d(2026, 1, 15)))
}
