package locale

import (
	"fmt"
	"time"
)

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "3:04 PM"
)

// When is a booking slot rendered for humans in one time zone.
type When struct {
	Date     string
	Start    string
	End      string
	TimeZone string
}

func (w When) String() string {
	return fmt.Sprintf("%s, %s - %s (%s)", w.Date, w.Start, w.End, w.TimeZone)
}

// Describe renders start and end in tz. Unknown zones render in UTC.
func Describe(start, end time.Time, tz string) When {
	loc, ok := ResolveLocation(tz)
	zone := loc.String()
	if !ok {
		zone = DefaultTimezone
	}

	start = start.In(loc)
	end = end.In(loc)

	return When{
		Date:     start.Format(dateLayout),
		Start:    start.Format(timeLayout),
		End:      end.Format(timeLayout),
		TimeZone: zone,
	}
}
