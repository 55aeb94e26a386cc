package domain

import (
	"time"

	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

const (
	compactDateLayout = "20060102"
	displayDateLayout = "2006-01-02"
)

// ParseDate parses a compact YYYYMMDD calendar date.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(compactDateLayout) {
		return time.Time{}, invalidDate(s)
	}
	var digits [8]int
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, invalidDate(s)
		}
		digits[i] = int(s[i] - '0')
	}
	year := digits[0]*1000 + digits[1]*100 + digits[2]*10 + digits[3]
	month := digits[4]*10 + digits[5]
	day := digits[6]*10 + digits[7]

	if year < 1 || month < 1 || month > 12 || day < 1 || day > daysInMonth(year, time.Month(month)) {
		return time.Time{}, invalidDate(s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ValidateDate reports a validation error when s is not a real YYYYMMDD date.
func ValidateDate(s string) error {
	_, err := ParseDate(s)
	return err
}

// FormatDate renders the compact persisted form.
func FormatDate(t time.Time) string {
	return t.Format(compactDateLayout)
}

// DisplayDate renders the dashed form shown to operators.
func DisplayDate(t time.Time) string {
	return t.Format(displayDateLayout)
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay compares two instants by calendar date.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func daysInMonth(year int, month time.Month) int {
	switch month {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func invalidDate(s string) error {
	return apperrors.NewValidationError("invalid date", map[string]any{
		"date":   s,
		"format": "YYYYMMDD",
	})
}
