package core

import (
	"errors"
	"time"
)

// Named list filters matching the query parameter values.
const (
	FilterAll         = "all"
	FilterWeek        = "week"
	FilterMonth       = "month"
	FilterThreeMonths = "three_months"
	FilterCustom      = "custom"
)

// ErrMissingDateRange is returned when a custom filter lacks either bound.
var ErrMissingDateRange = errors.New("start_date and end_date are required for custom filter")

// ListFilter bounds the date range of an expense listing. A zero Start or
// End means that side is unbounded. Bounds are inclusive.
type ListFilter struct {
	Start time.Time
	End   time.Time
}

// NewListFilter builds a ListFilter from the wire-level filter name and
// optional custom bounds, relative to now. week, month and three_months set
// a lower bound of 7, 30 and 90 days ago respectively with no upper bound.
// custom requires both bounds in ISO format. Unknown names mean no filtering,
// matching the behavior of the filter=all default.
func NewListFilter(name, startDate, endDate string, now time.Time) (ListFilter, error) {
	switch name {
	case FilterWeek:
		return ListFilter{Start: now.AddDate(0, 0, -7)}, nil
	case FilterMonth:
		return ListFilter{Start: now.AddDate(0, 0, -30)}, nil
	case FilterThreeMonths:
		return ListFilter{Start: now.AddDate(0, 0, -90)}, nil
	case FilterCustom:
		if startDate == "" || endDate == "" {
			return ListFilter{}, ErrMissingDateRange
		}
		start, err := ParseTimestamp(startDate)
		if err != nil {
			return ListFilter{}, err
		}
		end, err := ParseTimestamp(endDate)
		if err != nil {
			return ListFilter{}, err
		}
		return ListFilter{Start: start, End: end}, nil
	default:
		return ListFilter{}, nil
	}
}
