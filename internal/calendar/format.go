package calendar

import "time"

// DisplayDate labels date relative to today: "Today", "Yesterday",
// "Tomorrow", otherwise e.g. "Monday, January 02".
func DisplayDate(date, today time.Time) string {
	switch daysBetween(Truncate(today), Truncate(date)) {
	case 0:
		return "Today"
	case -1:
		return "Yesterday"
	case 1:
		return "Tomorrow"
	}
	return date.Format("Monday, January 02")
}

func ShortDate(date time.Time) string {
	return date.Format("Jan 02")
}

func DayNumber(date time.Time) int {
	return date.Day()
}

func WeekdayName(date time.Time) string {
	return date.Format("Mon")
}

func MonthYear(date time.Time) string {
	return date.Format("January 2006")
}

func IsToday(date, today time.Time) bool {
	return Truncate(date).Equal(Truncate(today))
}

func IsPast(date, today time.Time) bool {
	return Truncate(date).Before(Truncate(today))
}

func IsFuture(date, today time.Time) bool {
	return Truncate(date).After(Truncate(today))
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
