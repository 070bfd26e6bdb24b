package service

import (
	"time"

	"github.com/diegoclair/pr-police/internal/domain/entity"
)

// nextSearchDays bounds Next so a calendar that blocks every day cannot loop forever
const nextSearchDays = 366

type ScheduleGate struct {
	days     map[time.Weekday]bool
	times    []int
	calendar *HolidayCalendar
}

func NewScheduleGate(schedule entity.Schedule, calendar *HolidayCalendar) *ScheduleGate {
	days := make(map[time.Weekday]bool, len(schedule.Days))
	for _, d := range schedule.Days {
		days[d] = true
	}

	if calendar == nil {
		calendar = NewHolidayCalendar(nil)
	}

	return &ScheduleGate{
		days:     days,
		times:    append([]int(nil), schedule.Times...),
		calendar: calendar,
	}
}

// Evaluate decides whether the minute containing now is a run slot.
// Times are scanned in configured order; they are validated to be distinct, so
// at most one can match a given minute.
func (g *ScheduleGate) Evaluate(now time.Time) entity.RunDecision {
	if !g.runDay(now) {
		return entity.NoRun
	}

	current := now.Hour()*100 + now.Minute()
	for _, t := range g.times {
		if t == current {
			return entity.RunAt(t)
		}
	}

	return entity.NoRun
}

// Next returns the first run slot strictly after from, in from's location.
func (g *ScheduleGate) Next(from time.Time) (time.Time, bool) {
	if len(g.times) == 0 || len(g.days) == 0 {
		return time.Time{}, false
	}

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for i := 0; i <= nextSearchDays; i++ {
		candidate := day.AddDate(0, 0, i)
		if !g.runDay(candidate) {
			continue
		}

		var best time.Time
		for _, t := range g.times {
			slot := time.Date(candidate.Year(), candidate.Month(), candidate.Day(), t/100, t%100, 0, 0, from.Location())
			// a time inside a DST gap is normalized to another wall time Evaluate never matches
			if slot.Hour()*100+slot.Minute() != t || !slot.After(from) {
				continue
			}
			if best.IsZero() || slot.Before(best) {
				best = slot
			}
		}
		if !best.IsZero() {
			return best, true
		}
	}

	return time.Time{}, false
}

func (g *ScheduleGate) runDay(t time.Time) bool {
	return g.days[t.Weekday()] && !g.calendar.IsHoliday(t)
}
