/*
calendar.go - Public holiday calendars and their registry

PURPOSE:
  Public holidays are not workdays: recurring commitments do not happen on
  them and the allocator never places dynamic work on them. Which days count
  as public holidays depends on the region, so calendars are looked up by
  name from a registry.

HOW IT WORKS:
  1. Calendars implement HolidayCalendar
  2. They are registered on init() under a short name ("de", "none")
  3. Configuration selects one by name via LookupCalendar

USAGE:
  cal := generic.LookupCalendar("de")
  if cal.IsHoliday(date) { ... }

SEE ALSO:
  - holiday.go: German public holidays
  - timesheet/allocator.go: Skips calendar holidays
*/
package generic

import (
	"sort"
	"sync"
)

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// PublicHoliday is a named day that is not worked.
type PublicHoliday struct {
	Date Date
	Name string
}

// HolidayCalendar provides public holiday lookup.
type HolidayCalendar interface {
	// IsHoliday reports whether the date is a public holiday.
	IsHoliday(date Date) bool

	// Holidays returns all public holidays of a year in ascending order.
	Holidays(year int) []PublicHoliday
}

// NoHolidays is a calendar without any public holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(Date) bool          { return false }
func (NoHolidays) Holidays(int) []PublicHoliday { return nil }

// IsWorkday reports whether work may be scheduled on the date at all.
// Sundays and public holidays are never workdays.
func IsWorkday(cal HolidayCalendar, date Date) bool {
	if date.IsSunday() {
		return false
	}
	if cal != nil && cal.IsHoliday(date) {
		return false
	}
	return true
}

// =============================================================================
// CALENDAR REGISTRY
// =============================================================================

var (
	calendarRegistry = make(map[string]HolidayCalendar)
	calendarMu       sync.RWMutex
)

func init() {
	RegisterCalendar("none", NoHolidays{})
	RegisterCalendar("de", GermanHolidays{})
}

// RegisterCalendar adds a calendar to the global registry.
func RegisterCalendar(name string, cal HolidayCalendar) {
	calendarMu.Lock()
	defer calendarMu.Unlock()
	calendarRegistry[name] = cal
}

// LookupCalendar finds a registered calendar by name.
// Returns nil if not found.
func LookupCalendar(name string) HolidayCalendar {
	calendarMu.RLock()
	defer calendarMu.RUnlock()
	return calendarRegistry[name]
}

// ListCalendars returns the registered calendar names, sorted.
func ListCalendars() []string {
	calendarMu.RLock()
	defer calendarMu.RUnlock()
	names := make([]string, 0, len(calendarRegistry))
	for name := range calendarRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
