package dates

import (
	"strings"
	"time"
)

// DefaultTimeOfDay is assumed for dates with no time component. Noon
// keeps the resolved instant on the same trading day across US
// timezones.
const DefaultTimeOfDay = "12:00"

const (
	dateLayout   = "01/02/2006 15:04"
	bannerLayout = "01/02/2006 3:04 PM"
)

// wallZones maps the wall-clock zone abbreviations seen in vendor
// banners to IANA zone names.
var wallZones = map[string]string{
	"ET":  "America/New_York",
	"EST": "America/New_York",
	"EDT": "America/New_York",
	"CT":  "America/Chicago",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"MT":  "America/Denver",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"PT":  "America/Los_Angeles",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
}

// Resolve turns a bare MM/DD/YYYY calendar date into an absolute
// instant at the given wall-clock time in tz. timeOfDay must be
// "HH:MM" (empty selects DefaultTimeOfDay); anything else, or a
// missing or malformed date, yields false.
func Resolve(mmddyyyy, timeOfDay string, tz *time.Location) (time.Time, bool) {
	if timeOfDay == "" {
		timeOfDay = DefaultTimeOfDay
	}
	if mmddyyyy == "" || len(timeOfDay) != 5 {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, mmddyyyy+" "+timeOfDay, tz)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ResolveZoned parses a banner timestamp like "07/30/2021 2:26 PM ET",
// where the trailing token is a US wall-clock zone abbreviation.
func ResolveZoned(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return time.Time{}, false
	}
	zone, ok := wallZones[s[i+1:]]
	if !ok {
		return time.Time{}, false
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(bannerLayout, s[:i], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
