package generic

import (
	"sort"
	"time"
)

// GermanHolidays contains the nationwide German public holidays plus
// Epiphany, Corpus Christi and All Saints' Day (Baden-Württemberg).
type GermanHolidays struct{}

type fixedHoliday struct {
	month time.Month
	day   int
	name  string
}

var germanFixedHolidays = []fixedHoliday{
	{time.January, 1, "Neujahr"},
	{time.January, 6, "Heilige Drei Könige"},
	{time.May, 1, "Tag der Arbeit"},
	{time.October, 3, "Tag der deutschen Einheit"},
	{time.November, 1, "Allerheiligen"},
	{time.December, 25, "1. Weihnachtsfeiertag"},
	{time.December, 26, "2. Weihnachtsfeiertag"},
}

// offsets relative to Easter Sunday
var germanEasterHolidays = []struct {
	offset int
	name   string
}{
	{-2, "Karfreitag"},
	{1, "Ostermontag"},
	{39, "Christi Himmelfahrt"},
	{50, "Pfingstmontag"},
	{60, "Fronleichnam"},
}

func (GermanHolidays) IsHoliday(date Date) bool {
	for _, h := range (GermanHolidays{}).Holidays(date.Year()) {
		if h.Date.Equal(date) {
			return true
		}
	}
	return false
}

func (GermanHolidays) Holidays(year int) []PublicHoliday {
	holidays := make([]PublicHoliday, 0, len(germanFixedHolidays)+len(germanEasterHolidays))
	for _, f := range germanFixedHolidays {
		holidays = append(holidays, PublicHoliday{Date: NewDate(year, f.month, f.day), Name: f.name})
	}
	easter := EasterSunday(year)
	for _, e := range germanEasterHolidays {
		holidays = append(holidays, PublicHoliday{Date: easter.AddDays(e.offset), Name: e.name})
	}
	sort.SliceStable(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays
}

// EasterSunday computes Easter Sunday with the anonymous Gregorian algorithm.
func EasterSunday(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return NewDate(year, time.Month(month), day)
}
