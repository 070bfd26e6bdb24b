package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diegoclair/pr-police/internal/domain"
)

var ErrInvalidHolidayRule = errors.New("invalid holiday rule")

type HolidayKind string

const (
	// HolidayFixed is a month/day date that recurs every year
	HolidayFixed HolidayKind = "fixed"
	// HolidayFromStart is the n-th weekday counted from the first day of the month
	HolidayFromStart HolidayKind = "from_start"
	// HolidayFromEnd is the n-th weekday counted back from the last day of the month
	HolidayFromEnd HolidayKind = "from_end"
)

// HolidayRule describes a date on which scheduled runs are suppressed.
// Day is only meaningful for HolidayFixed, Nth and Weekday for the other kinds.
type HolidayRule struct {
	ID          int64
	Kind        HolidayKind
	Month       time.Month
	Day         int
	Nth         int
	Weekday     time.Weekday
	Description string
	CreatedAt   time.Time
}

func (h HolidayRule) Validate() error {
	if h.Month < time.January || h.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidHolidayRule, h.Month)
	}

	switch h.Kind {
	case HolidayFixed:
		if h.Day < 1 || h.Day > 31 {
			return fmt.Errorf("%w: day %d out of range", ErrInvalidHolidayRule, h.Day)
		}
	case HolidayFromStart, HolidayFromEnd:
		if h.Nth < 1 || h.Nth > 5 {
			return fmt.Errorf("%w: occurrence %d out of range", ErrInvalidHolidayRule, h.Nth)
		}
		if h.Weekday < time.Sunday || h.Weekday > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidHolidayRule, h.Weekday)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidHolidayRule, h.Kind)
	}

	return nil
}

// String renders the rule in the form accepted by ParseHolidayRule.
func (h HolidayRule) String() string {
	switch h.Kind {
	case HolidayFromStart:
		return fmt.Sprintf("%d/%d/%s", int(h.Month), h.Nth, domain.WeekdayNames[h.Weekday])
	case HolidayFromEnd:
		return fmt.Sprintf("%d/-%d/%s", int(h.Month), h.Nth, domain.WeekdayNames[h.Weekday])
	default:
		return fmt.Sprintf("%d/%d", int(h.Month), h.Day)
	}
}

// ParseHolidayRule parses "M/D" (fixed date), "M/N/Weekday" (n-th weekday of the
// month) and "M/-N/Weekday" (n-th weekday counted from the end of the month).
func ParseHolidayRule(s string) (HolidayRule, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 && len(parts) != 3 {
		return HolidayRule{}, fmt.Errorf("%w: %q", ErrInvalidHolidayRule, s)
	}

	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return HolidayRule{}, fmt.Errorf("%w: bad month in %q", ErrInvalidHolidayRule, s)
	}

	num, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return HolidayRule{}, fmt.Errorf("%w: bad number in %q", ErrInvalidHolidayRule, s)
	}

	rule := HolidayRule{Kind: HolidayFixed, Month: time.Month(month), Day: num}

	if len(parts) == 3 {
		weekday, err := domain.ParseWeekday(parts[2])
		if err != nil {
			return HolidayRule{}, fmt.Errorf("%w: %v", ErrInvalidHolidayRule, err)
		}
		rule = HolidayRule{Kind: HolidayFromStart, Month: time.Month(month), Nth: num, Weekday: weekday}
		if num < 0 {
			rule.Kind = HolidayFromEnd
			rule.Nth = -num
		}
	}

	if err := rule.Validate(); err != nil {
		return HolidayRule{}, err
	}

	return rule, nil
}
