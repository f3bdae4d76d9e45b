package protocol

import (
	"fmt"
	"time"
)

// UnixEpochJulianDay is the Julian day number of 1970-01-01.
const UnixEpochJulianDay = 2440588

// JulianDayString renders a Julian day number as "YYYYMMDD".
func JulianDayString(jd uint64) string {
	y, m, d := julianToCivil(jd)
	return fmt.Sprintf("%04d%02d%02d", y, m, d)
}

// ClockString renders milliseconds since midnight as "HHMMSS".
func ClockString(ms uint32) string {
	secs := ms / 1000
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d%02d%02d", h, m, s)
}

// JulianDayTime converts a date and time of day to a UTC time.
func JulianDayTime(jd uint64, ms uint32) time.Time {
	y, m, d := julianToCivil(jd)
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(ms) * time.Millisecond)
}

// julianToCivil is the Meeus conversion with float truncation at each
// step, so results match peers that use it.
func julianToCivil(jd uint64) (year, month, day int) {
	z := float64(jd)
	w := float64(int64((z - 1867216.25) / 36524.25))
	x := float64(int64(w / 4))
	a := z + 1 + w - x
	b := a + 1524
	c := float64(int64((b - 122.1) / 365.25))
	d := float64(int64(365.25 * c))
	e := float64(int64((b - d) / 30.6001))
	f := float64(int64(30.6001 * e))

	day = int(b - d - f)
	month = int(e - 1)
	if month > 12 {
		month -= 12
	}
	if month < 3 {
		year = int(c) - 4715
	} else {
		year = int(c) - 4716
	}
	return year, month, day
}

func (dt DateTime) DateString() string {
	return JulianDayString(dt.JulianDay)
}

func (dt DateTime) TimeString() string {
	return ClockString(dt.MsOfDay)
}

// Time returns dt in its own zone: a fixed zone when an offset was sent,
// UTC otherwise.
func (dt DateTime) Time() time.Time {
	t := JulianDayTime(dt.JulianDay, dt.MsOfDay)
	if dt.Offset == nil {
		return t
	}
	loc := time.FixedZone("", int(*dt.Offset))
	y, mo, d := t.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func (m Decode) TimeString() string      { return ClockString(m.Time) }
func (m Decode) SNRString() string       { return fmt.Sprintf("%+03d", m.SNR) }
func (m Decode) DeltaTimeString() string { return fmt.Sprintf("%+.1f", m.DeltaTime) }
func (m Decode) DeltaFreqString() string { return fmt.Sprintf("%4d", m.DeltaFreq) }

// IsCQ reports whether the decoded text is a CQ call.
func (m Decode) IsCQ() bool {
	return len(m.Text) >= 3 && m.Text[:3] == "CQ "
}

func (m WsprDecode) TimeString() string      { return ClockString(m.Time) }
func (m WsprDecode) SNRString() string       { return fmt.Sprintf("%+03d", m.SNR) }
func (m WsprDecode) DeltaTimeString() string { return fmt.Sprintf("%+.1f", m.DeltaTime) }
func (m WsprDecode) FreqString() string      { return fmt.Sprintf("%6d", m.Freq) }
