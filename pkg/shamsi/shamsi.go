// Package shamsi converts between the Gregorian and Shamsi (solar Hijri)
// calendars using the 33-year cycle break points of the Birashk-style
// arithmetic calendar. Conversions are exact and round-trip for every day
// of the supported year range.
package shamsi

import (
	"fmt"
	"time"
)

// breaks lists the Shamsi years at which the length of the 33-year leap
// cycle changes. Years outside [breaks[0], breaks[last]) are unsupported.
var breaks = [...]int{
	-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181, 1210,
	1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178,
}

// MonthNames holds the English transliterations of the Shamsi month names,
// indexed by month-1.
var MonthNames = [12]string{
	"Farvardin", "Ordibehesht", "Khordad",
	"Tir", "Mordad", "Shahrivar",
	"Mehr", "Aban", "Azar",
	"Dey", "Bahman", "Esfand",
}

// Date is a Shamsi calendar date.
type Date struct {
	Year  int
	Month int // 1..12
	Day   int // 1..31
}

// TriggerDay is the day of the Shamsi month on which monthly profit is
// scheduled.
const TriggerDay = 15

type yearInfo struct {
	leap  int // 0 when leap, otherwise years since the last leap year
	gy    int // Gregorian year of the 1st of Farvardin
	march int // day of March on which the year begins
}

// yearCal computes leap-cycle information for a Shamsi year. Out-of-range
// years panic: realistic wallet timestamps never leave the supported range,
// so a violation is a programming error, not a recoverable condition.
func yearCal(jy int) yearInfo {
	if jy < breaks[0] || jy >= breaks[len(breaks)-1] {
		panic(fmt.Sprintf("shamsi: year %d outside supported range", jy))
	}

	gy := jy + 621
	leapJ := -14
	jp := breaks[0]
	jump := 0

	for i := 1; i < len(breaks); i++ {
		jm := breaks[i]
		jump = jm - jp
		if jy < jm {
			break
		}
		leapJ += jump/33*8 + jump%33/4
		jp = jm
	}
	n := jy - jp

	leapJ += n/33*8 + (n%33+3)/4
	if jump%33 == 4 && jump-n == 4 {
		leapJ++
	}

	leapG := gy/4 - (gy/100+1)*3/4 - 150
	march := 20 + leapJ - leapG

	if jump-n < 6 {
		n = n - jump + (jump+4)/33*33
	}
	leap := ((n+1)%33 - 1) % 4
	if leap == -1 {
		leap = 4
	}

	return yearInfo{leap: leap, gy: gy, march: march}
}

// gregorianToJDN converts a Gregorian date to its Julian day number.
func gregorianToJDN(gy, gm, gd int) int {
	d := (gy+(gm-8)/6+100100)*1461/4 + (153*((gm+9)%12)+2)/5 + gd - 34840408
	return d - (gy+100100+(gm-8)/6)/100*3/4 + 752
}

// jdnToGregorian converts a Julian day number back to a Gregorian date.
func jdnToGregorian(jdn int) (gy, gm, gd int) {
	j := 4*jdn + 139361631
	j += (4*jdn+183187720)/146097*3/4*4 - 3908
	i := j%1461/4*5 + 308
	gd = i%153/5 + 1
	gm = i/153%12 + 1
	gy = j/1461 - 100100 + (8-gm)/6
	return gy, gm, gd
}

// shamsiToJDN converts a Shamsi date to its Julian day number.
func shamsiToJDN(jy, jm, jd int) int {
	r := yearCal(jy)
	return gregorianToJDN(r.gy, 3, r.march) + (jm-1)*31 - jm/7*(jm-7) + jd - 1
}

// jdnToShamsi converts a Julian day number to a Shamsi date.
func jdnToShamsi(jdn int) (jy, jm, jd int) {
	gy, _, _ := jdnToGregorian(jdn)
	jy = gy - 621
	r := yearCal(jy)
	k := jdn - gregorianToJDN(gy, 3, r.march)

	if k >= 0 {
		if k <= 185 {
			return jy, 1 + k/31, k%31 + 1
		}
		k -= 186
	} else {
		jy--
		k += 179
		if r.leap == 1 {
			k++
		}
	}
	return jy, 7 + k/30, k%30 + 1
}

// ToShamsi converts a Gregorian calendar date to the Shamsi calendar.
func ToShamsi(gy, gm, gd int) (jy, jm, jd int) {
	return jdnToShamsi(gregorianToJDN(gy, gm, gd))
}

// ToGregorian converts a Shamsi calendar date to the Gregorian calendar.
func ToGregorian(jy, jm, jd int) (gy, gm, gd int) {
	return jdnToGregorian(shamsiToJDN(jy, jm, jd))
}

// IsLeapYear reports whether the given Shamsi year has a 30-day Esfand.
func IsLeapYear(jy int) bool {
	return yearCal(jy).leap == 0
}

// MonthLength returns the number of days in the given Shamsi month:
// 31 for months 1-6, 30 for months 7-11, and 29 or 30 for Esfand
// depending on the leap year rule.
func MonthLength(jy, jm int) int {
	switch {
	case jm <= 6:
		return 31
	case jm <= 11:
		return 30
	case IsLeapYear(jy):
		return 30
	}
	return 29
}

// FromTime returns the Shamsi date of t in t's location.
func FromTime(t time.Time) Date {
	jy, jm, jd := ToShamsi(t.Year(), int(t.Month()), t.Day())
	return Date{Year: jy, Month: jm, Day: jd}
}

// ToTime returns midnight of the Shamsi date d in the given location.
func ToTime(d Date, loc *time.Location) time.Time {
	gy, gm, gd := ToGregorian(d.Year, d.Month, d.Day)
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, loc)
}

// MonthStart returns midnight of the first day of t's Shamsi month,
// in t's location.
func MonthStart(t time.Time) time.Time {
	d := FromTime(t)
	d.Day = 1
	return ToTime(d, t.Location())
}

// NextTrigger returns midnight of the 15th of the Shamsi month after t's,
// wrapping into the next Shamsi year from Esfand.
func NextTrigger(t time.Time) time.Time {
	d := FromTime(t)
	if d.Month == 12 {
		d.Year++
		d.Month = 1
	} else {
		d.Month++
	}
	d.Day = TriggerDay
	return ToTime(d, t.Location())
}

// IsTriggerDay reports whether t falls on the 15th of a Shamsi month.
func IsTriggerDay(t time.Time) bool {
	return FromTime(t).Day == TriggerDay
}

// Format renders t as a human-readable Shamsi date with wall-clock time,
// e.g. "Ordibehesht 12, 1403 at 14:05".
func Format(t time.Time) string {
	d := FromTime(t)
	return fmt.Sprintf("%s %d, %d at %02d:%02d",
		MonthNames[d.Month-1], d.Day, d.Year, t.Hour(), t.Minute())
}
