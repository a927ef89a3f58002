package vacation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBusinessDays(t *testing.T) {
	t.Run("counts a full work week", func(t *testing.T) {
		// Monday 2026-03-02 through Friday 2026-03-06
		assert.Equal(t, 5, BusinessDays(date(2026, 3, 2), date(2026, 3, 6)))
	})

	t.Run("excludes weekends", func(t *testing.T) {
		// Monday through Sunday of the same week
		assert.Equal(t, 5, BusinessDays(date(2026, 3, 2), date(2026, 3, 8)))
	})

	t.Run("single weekday counts as one", func(t *testing.T) {
		assert.Equal(t, 1, BusinessDays(date(2026, 3, 4), date(2026, 3, 4)))
	})

	t.Run("weekend-only range counts zero", func(t *testing.T) {
		// Saturday and Sunday
		assert.Equal(t, 0, BusinessDays(date(2026, 3, 7), date(2026, 3, 8)))
	})

	t.Run("inverted range counts zero", func(t *testing.T) {
		assert.Equal(t, 0, BusinessDays(date(2026, 3, 6), date(2026, 3, 2)))
	})

	t.Run("spans two weeks", func(t *testing.T) {
		// Wednesday 2026-03-04 through Tuesday 2026-03-10
		assert.Equal(t, 5, BusinessDays(date(2026, 3, 4), date(2026, 3, 10)))
	})

	t.Run("time of day does not affect the count", func(t *testing.T) {
		from := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
		to := time.Date(2026, 3, 6, 0, 1, 0, 0, time.UTC)
		assert.Equal(t, 5, BusinessDays(from, to))
	})

	t.Run("counts across a daylight saving transition", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			t.Skip("tzdata not available")
		}
		// US DST starts Sunday 2026-03-08
		from := time.Date(2026, 3, 6, 0, 0, 0, 0, loc)
		to := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
		assert.Equal(t, 3, BusinessDays(from, to))
	})

	t.Run("full year of 2026 has 261 weekdays", func(t *testing.T) {
		assert.Equal(t, 261, BusinessDays(date(2026, 1, 1), date(2026, 12, 31)))
	})
}
