package service

import (
	"context"
	"fmt"
	"time"

	"github.com/diegoclair/pr-police/internal/domain/contract"
	"github.com/diegoclair/pr-police/internal/domain/entity"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Schedule      entity.Schedule
	ExtraHolidays []entity.HolidayRule
	Report        ReportConfig
	Targets       entity.Targets
	Dispatch      DispatcherOptions
	APIURL        string
	Location      *time.Location
}

type Instance struct {
	Calendar   *HolidayCalendar
	Gate       *ScheduleGate
	Reporter   *Reporter
	Dispatcher *Dispatcher
	Commander  *Commander
	Scheduler  *Poller

	log *logrus.Logger
}

// NewInstance loads the holiday rules and wires every service. The calendar and
// schedule are fixed from here on.
func NewInstance(ctx context.Context, dm contract.DataManager, source contract.PullRequestSource, notifier contract.Notifier, opts Options, log *logrus.Logger) (*Instance, error) {
	stored, err := dm.Holiday().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	calendar := NewHolidayCalendar(append(stored, opts.ExtraHolidays...))
	gate := NewScheduleGate(opts.Schedule, calendar)
	clock := SystemClock{Location: opts.Location}

	reporter := NewReporter(source, opts.Report, NewFormatter(opts.APIURL), log)
	dispatcher := NewDispatcher(notifier, opts.Targets, opts.Dispatch, log)

	i := &Instance{
		log:        log,
		Calendar:   calendar,
		Gate:       gate,
		Reporter:   reporter,
		Dispatcher: dispatcher,
		Commander:  newCommander(reporter, gate, calendar, notifier, clock, log),
	}
	i.Scheduler = newPoller(gate, clock, opts.Location, i.RunScheduled, log)

	log.WithField("holidays", len(calendar.Rules())).Info("Holiday calendar loaded")
	return i, nil
}

// RunScheduled is one full scheduled pass: build the report and fan it out.
func (i *Instance) RunScheduled(ctx context.Context) {
	result := i.Dispatcher.Dispatch(ctx, i.Reporter.Build(ctx))

	entry := i.log.WithFields(logrus.Fields{
		"sent":   result.Sent,
		"failed": result.Failed,
	})
	if result.Failed > 0 {
		entry.Warn("Scheduled run finished with failed sends")
	} else {
		entry.Info("Scheduled run finished")
	}
}
