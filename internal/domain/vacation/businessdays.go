package vacation

import "time"

// BusinessDays counts the Monday-Friday days in the inclusive range
// [from, to]. Both dates are normalized to a fixed time-of-day in UTC before
// iterating so that daylight-saving transitions cannot skip or double-count
// a day. Returns 0 when from is after to. Public holidays are not excluded;
// HR adjusts those manually.
func BusinessDays(from, to time.Time) int {
	from = normalizeDay(from)
	to = normalizeDay(to)
	if from.After(to) {
		return 0
	}

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}
