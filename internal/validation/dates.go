package validation

import (
	"time"

	"github.com/dmarkov/weather-requests-api/internal/apperr"
)

// DateLayout is the only accepted input form for request dates
const DateLayout = "2006-01-02"

// maxRangeDays limits a request to 30 days for API efficiency
const maxRangeDays = 30

// DateRange holds the parsed bounds of a validated date range
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive number of calendar days the range spans
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// ValidateDateRange checks a (start, end) pair against the domain rules,
// first failure wins: malformed input, inverted range, future start,
// range longer than 30 days.
func ValidateDateRange(startDate, endDate string) (DateRange, error) {
	return validateDateRangeAt(startDate, endDate, time.Now())
}

func validateDateRangeAt(startDate, endDate string, now time.Time) (DateRange, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return DateRange{}, apperr.New(apperr.KindMalformedDate, "Invalid date format. Use YYYY-MM-DD")
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return DateRange{}, apperr.New(apperr.KindMalformedDate, "Invalid date format. Use YYYY-MM-DD")
	}

	if start.After(end) {
		return DateRange{}, apperr.New(apperr.KindInvertedRange, "Start date cannot be after end date")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.After(today) {
		return DateRange{}, apperr.New(apperr.KindFutureStart, "Start date cannot be in the future")
	}

	if int(end.Sub(start).Hours()/24) > maxRangeDays {
		return DateRange{}, apperr.New(apperr.KindRangeTooLong, "Date range cannot exceed 30 days")
	}

	return DateRange{Start: start, End: end}, nil
}
