package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownWeekday = errors.New("unknown weekday")

// WeekdayNames maps weekdays to their English names
var WeekdayNames = map[time.Weekday]string{
	time.Monday:    "Monday",
	time.Tuesday:   "Tuesday",
	time.Wednesday: "Wednesday",
	time.Thursday:  "Thursday",
	time.Friday:    "Friday",
	time.Saturday:  "Saturday",
	time.Sunday:    "Sunday",
}

// DefaultRunDays represents Monday through Friday
var DefaultRunDays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// DefaultRunTimes holds 09:00 in hour*100+minute form
var DefaultRunTimes = []int{900}

// DefaultBotName is the display name used when none is configured
const DefaultBotName = "Pr. Police"

// PollInterval is the fixed cadence of the schedule check
const PollInterval = time.Minute

// DefaultStagger separates the header post from the pull request lines
const DefaultStagger = time.Second

// Fixed chat messages
const (
	MsgListHeader     = "Hi! Here are the pull requests waiting for a review :police_car:"
	MsgNoPullRequests = "No open pull requests found. Nothing to review for now :tada:"
	MsgFetchFailed    = "Sorry, I could not fetch the pull requests from GitHub. Please check the logs :warning:"
)

// ParseWeekday accepts full English names and three letter abbreviations, case-insensitive.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownWeekday)
	}
	for day, full := range WeekdayNames {
		lower := strings.ToLower(full)
		if n == lower || n == lower[:3] {
			return day, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
}
