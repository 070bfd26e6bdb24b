package service

import (
	"context"
	"fmt"
	"time"

	"github.com/diegoclair/pr-police/internal/domain/contract"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// every minute at second zero
const pollSpec = "* * * * *"

type RunFunc func(ctx context.Context)

// Poller asks the gate every minute whether to run and starts the pipeline
// when it says so. Each tick runs in its own goroutine, so a slow pass never
// delays the next check.
type Poller struct {
	cron    *cron.Cron
	gate    *ScheduleGate
	clock   contract.Clock
	run     RunFunc
	log     *logrus.Logger
	running bool
}

func newPoller(gate *ScheduleGate, clock contract.Clock, loc *time.Location, run RunFunc, log *logrus.Logger) *Poller {
	if loc == nil {
		loc = time.Local
	}

	return &Poller{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cron.PrintfLogger(log)),
			cron.WithChain(cron.Recover(cron.PrintfLogger(log))),
		),
		gate:  gate,
		clock: clock,
		run:   run,
		log:   log,
	}
}

func (p *Poller) Start() error {
	if p.running {
		return nil
	}

	if _, err := p.cron.AddFunc(pollSpec, func() { p.Tick(p.clock.Now()) }); err != nil {
		return fmt.Errorf("failed to add poll job: %w", err)
	}

	p.cron.Start()
	p.running = true
	p.log.Info("Scheduler started")
	return nil
}

// Stop halts the ticks and waits for passes already running.
func (p *Poller) Stop() {
	if !p.running {
		return
	}
	p.log.Info("Scheduler stopping...")
	<-p.cron.Stop().Done()
	p.running = false
}

// Tick evaluates the gate for now and runs the pipeline once on a match.
func (p *Poller) Tick(now time.Time) bool {
	decision := p.gate.Evaluate(now)
	if !decision.Run {
		p.log.WithField("now", now.Format("Monday 15:04")).Debug("Not a scheduled run time")
		return false
	}

	p.log.WithFields(logrus.Fields{
		"now":      now.Format("Monday 2006-01-02 15:04"),
		"run_time": decision.Time,
	}).Info("Scheduled run triggered")

	p.run(context.Background())
	return true
}
