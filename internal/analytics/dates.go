package analytics

import "time"

// DateLayout is the calendar date format used in reports and wire formats.
const DateLayout = "2006-01-02"

// Weekdays lists weekday labels Monday first.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekdayIndex returns 0 for Monday through 6 for Sunday.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayName returns the Monday-first label of t's weekday.
func WeekdayName(t time.Time) string {
	return Weekdays[WeekdayIndex(t)]
}

// NextDays returns the n consecutive calendar days following last.
func NextDays(last time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	base := Day(last)
	days := make([]time.Time, n)
	for i := range days {
		days[i] = base.AddDate(0, 0, i+1)
	}
	return days
}
