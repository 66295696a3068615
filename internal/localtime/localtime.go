// Package localtime converts session times between the backend's UTC storage
// representation and the fixed +5:30 wall-clock form shown in the schedule
// editor. The studio operates in a single timezone, so the offset is fixed
// rather than taken from the host machine.
package localtime

import (
	"fmt"
	"time"
)

// DisplayLayout is the minute-precision wall-clock form used by the editor's
// date field.
const DisplayLayout = "2006-01-02T15:04"

// StorageLayout matches the backend's ISO 8601 representation, millisecond
// precision with a Z suffix for UTC.
const StorageLayout = "2006-01-02T15:04:05.000Z07:00"

// Zone is the studio's display timezone, UTC+5:30.
var Zone = time.FixedZone("UTC+5:30", 5*3600+30*60)

// ToDisplay renders a stored UTC instant as a local wall-clock string
// suitable for the editor's date input. The shift is applied exactly once;
// callers must not re-shift an already-displayed value.
func ToDisplay(utc time.Time) string {
	return utc.In(Zone).Format(DisplayLayout)
}

// ToStorage interprets a wall-clock string from the editor as local time and
// returns the absolute instant in UTC. It is the inverse of ToDisplay at
// minute precision.
func ToStorage(wallClock string) (time.Time, error) {
	t, err := time.ParseInLocation(DisplayLayout, wallClock, Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session time %q: %w", wallClock, err)
	}
	return t.UTC(), nil
}

// FormatStorage serializes an instant the way the backend expects it.
func FormatStorage(t time.Time) string {
	return t.UTC().Format(StorageLayout)
}
