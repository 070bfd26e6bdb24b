package service

import (
	"time"

	"github.com/diegoclair/pr-police/internal/domain/entity"
)

// HolidayCalendar answers whether a date is a non-run day. It is built once at
// startup and never changes afterwards.
type HolidayCalendar struct {
	rules []entity.HolidayRule
}

func NewHolidayCalendar(rules []entity.HolidayRule) *HolidayCalendar {
	return &HolidayCalendar{rules: append([]entity.HolidayRule(nil), rules...)}
}

// IsHoliday reports whether the calendar date of t matches any rule.
// Only year, month and day of t are considered.
func (c *HolidayCalendar) IsHoliday(t time.Time) bool {
	for _, rule := range c.rules {
		if matchesRule(rule, t) {
			return true
		}
	}
	return false
}

func (c *HolidayCalendar) Rules() []entity.HolidayRule {
	return append([]entity.HolidayRule(nil), c.rules...)
}

func matchesRule(rule entity.HolidayRule, t time.Time) bool {
	if t.Month() != rule.Month {
		return false
	}

	switch rule.Kind {
	case entity.HolidayFixed:
		return t.Day() == rule.Day
	case entity.HolidayFromStart:
		return t.Weekday() == rule.Weekday && (t.Day()-1)/7+1 == rule.Nth
	case entity.HolidayFromEnd:
		return t.Weekday() == rule.Weekday && (daysIn(t.Year(), t.Month())-t.Day())/7+1 == rule.Nth
	}
	return false
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
