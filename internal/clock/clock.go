// Package clock owns the two business time zones: Pakistan, where stock is
// bought, and the UK, where it is sold.
package clock

import (
	"time"
	_ "time/tzdata" // zone data for hosts without a system tz database
)

const (
	PakistanZone = "Asia/Karachi"
	UKZone       = "Europe/London"

	// TimestampLayout is the display layout of the local timestamps stored on log entries.
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

var (
	pakistan = mustLoad(PakistanZone)
	uk       = mustLoad(UKZone)
)

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("clock: load " + name + ": " + err.Error())
	}
	return loc
}

// Pakistan returns the Asia/Karachi location.
func Pakistan() *time.Location { return pakistan }

// UK returns the Europe/London location.
func UK() *time.Location { return uk }

// Clock is a source of the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock.
var System Clock = systemClock{}

// Fixed is a Clock frozen at one instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Stamp holds the three renderings of one instant recorded on a log entry.
type Stamp struct {
	Instant  string // UTC, RFC 3339
	Pakistan string // TimestampLayout in Asia/Karachi
	UK       string // TimestampLayout in Europe/London
}

// StampOf renders t in every representation.
func StampOf(t time.Time) Stamp {
	return Stamp{
		Instant:  t.UTC().Format(time.RFC3339),
		Pakistan: t.In(pakistan).Format(TimestampLayout),
		UK:       t.In(uk).Format(TimestampLayout),
	}
}

// Today returns the Pakistan calendar date of t as YYYY-MM-DD.
func Today(t time.Time) string {
	return t.In(pakistan).Format(DateLayout)
}

// DaysAgo returns the Pakistan calendar date days before t as YYYY-MM-DD.
func DaysAgo(t time.Time, days int) string {
	local := t.In(pakistan)
	return local.AddDate(0, 0, -days).Format(DateLayout)
}

// ParseDatePrefix parses the leading YYYY-MM-DD of s.
func ParseDatePrefix(s string) (time.Time, bool) {
	if len(s) < len(DateLayout) {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// WorldClock is one face of the home dashboard.
type WorldClock struct {
	Label   string `json:"label"`
	Zone    string `json:"zone"`
	Time    string `json:"time"`
	Date    string `json:"date"`
	Offset  string `json:"utc_offset"`
	Abbrev  string `json:"abbreviation"`
	Unix    int64  `json:"unix"`
	Weekday string `json:"weekday"`
}

// Dashboard returns the Pakistan and UK clocks for t.
func Dashboard(t time.Time) []WorldClock {
	return []WorldClock{
		face("Pakistan Time", pakistan, t),
		face("UK Time", uk, t),
	}
}

func face(label string, loc *time.Location, t time.Time) WorldClock {
	local := t.In(loc)
	abbrev, _ := local.Zone()
	return WorldClock{
		Label:   label,
		Zone:    loc.String(),
		Time:    local.Format("15:04:05"),
		Date:    local.Format(DateLayout),
		Offset:  local.Format("-07:00"),
		Abbrev:  abbrev,
		Unix:    t.Unix(),
		Weekday: local.Weekday().String(),
	}
}
