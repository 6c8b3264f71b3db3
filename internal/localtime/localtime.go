// Package localtime converts the receiver's UTC clock and 2-digit date into
// local time for a fixed whole-hour zone offset, with day, month, year and
// century rollover. The 2-digit year is assumed to encode 2000-2099, so the
// year%4 leap test is exact within that window and the century wraps
// 2099->2000 forward and 2000->2099 backward.
package localtime

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeap(year int) bool {
	return year%4 == 0
}

// MonthDays returns the day count of month in the given 2-digit year.
// Out-of-range months clamp to 31 so a corrupt date cannot underflow a day.
func MonthDays(month, year int) int {
	if month < 1 || month > 12 {
		return 31
	}
	if month == 2 && isLeap(year) {
		return 29
	}
	return daysInMonth[month]
}

// Shift applies a whole-hour zone offset to a UTC hour/date, rolling the
// date forward or backward as the hour wraps. Offset magnitudes of 24 or
// more are out of scope; the config layer rejects them.
func Shift(hour, day, month, year, offset int) (int, int, int, int) {
	hour += offset
	dayStep := 0
	if hour >= 24 {
		hour -= 24
		dayStep = 1
	}
	if hour < 0 {
		hour += 24
		dayStep = -1
	}

	switch dayStep {
	case 1:
		day++
		if day > MonthDays(month, year) {
			day = 1
			month++
			if month > 12 {
				month = 1
				year++
				if year > 99 {
					year = 0
				}
			}
		}
	case -1:
		day--
		if day < 1 {
			month--
			if month < 1 {
				month = 12
				year--
				if year < 0 {
					year = 99
				}
			}
			day = MonthDays(month, year)
		}
	}
	return hour, day, month, year
}
