package schedule

import (
	"errors"
	"fmt"

	"github.com/rickb777/date"
)

// ErrDuplicateRecord is returned by Store implementations when an insert
// hits a uniqueness constraint, meaning the day was already imported.
var ErrDuplicateRecord = errors.New("record already imported")

// ErrMalformedSchedule marks a payload that decoded but does not hold the
// data a schedule must have (route without stops, unparseable stop time,
// non-numeric location number). Wrapped errors carry the detail.
var ErrMalformedSchedule = errors.New("malformed schedule payload")

// FetchError means the routing API answered with an error payload instead of
// schedule data for a day. Message is whatever the remote put in its message
// field, possibly empty.
type FetchError struct {
	Day     date.Date
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("routing api call for %s failed with: '%s'", e.Day, e.Message)
}

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
