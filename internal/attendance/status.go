package attendance

import "time"

// Status labels assigned to a scan.
const (
	StatusOnTime = "On-Time"
	StatusLate   = "Late"
)

// lateCutoff is the IST time-of-day boundary, in minutes since midnight.
// Arrivals at or after 09:15:00 are Late.
const lateCutoffMinutes = 9*60 + 15

// IST is the single display timezone. Timestamps are stored as UTC instants
// and converted here, and only here, for day math and presentation.
var IST = loadIST()

func loadIST() *time.Location {
	if loc, err := time.LoadLocation("Asia/Kolkata"); err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*3600+30*60)
}

// StatusAt returns the status label for a scan instant.
func StatusAt(t time.Time) string {
	ist := t.In(IST)
	if ist.Hour()*60+ist.Minute() >= lateCutoffMinutes {
		return StatusLate
	}
	return StatusOnTime
}

// DayOf returns the IST calendar day of an instant as YYYY-MM-DD.
func DayOf(t time.Time) string {
	return t.In(IST).Format("2006-01-02")
}

// DayBounds returns the half-open UTC interval [start, end) covering the
// given IST calendar day, so that end-1ns is 23:59:59.999… of that day.
func DayBounds(day string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", day, IST)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.UTC(), start.AddDate(0, 0, 1).UTC(), nil
}

// RangeBounds returns the half-open UTC interval covering the closed IST
// day range [startDay, endDay].
func RangeBounds(startDay, endDay string) (time.Time, time.Time, error) {
	start, _, err := DayBounds(startDay)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	_, end, err := DayBounds(endDay)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
