package service

import (
	"context"
	"time"

	"github.com/diegoclair/pr-police/internal/domain"
	"github.com/diegoclair/pr-police/internal/domain/contract"
	"github.com/diegoclair/pr-police/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type DispatcherOptions struct {
	// Stagger is the pause between the header post and the pull request lines
	Stagger time.Duration
	// RatePerSec caps chat sends per second; zero or less disables the cap
	RatePerSec float64
}

type DispatchResult struct {
	Sent   int
	Failed int
}

func (r *DispatchResult) add(o DispatchResult) {
	r.Sent += o.Sent
	r.Failed += o.Failed
}

// Dispatcher fans a report out to every configured channel and group.
type Dispatcher struct {
	notifier contract.Notifier
	targets  entity.Targets
	stagger  time.Duration
	limiter  *rate.Limiter
	log      *logrus.Logger

	// wait is swapped in tests to observe the stagger without sleeping
	wait func(ctx context.Context, d time.Duration) error
}

func NewDispatcher(notifier contract.Notifier, targets entity.Targets, opts DispatcherOptions, log *logrus.Logger) *Dispatcher {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}

	return &Dispatcher{
		notifier: notifier,
		targets:  targets,
		stagger:  opts.Stagger,
		limiter:  limiter,
		log:      log,
		wait:     sleepContext,
	}
}

// Dispatch sends a notice alone, or the header followed by every line after the
// stagger. An empty report sends nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, report entity.Report) DispatchResult {
	var result DispatchResult

	if report.Empty() {
		d.log.Debug("Nothing to dispatch")
		return result
	}

	d.log.WithFields(logrus.Fields{
		"channels": d.targets.Channels,
		"groups":   d.targets.Groups,
	}).Info("Alerting channels")

	if report.Notice != "" {
		d.log.Debug(report.Notice)
		return d.sendAll(ctx, report.Notice)
	}

	result.add(d.SendHeader(ctx))

	if err := d.wait(ctx, d.stagger); err != nil {
		d.log.WithError(err).Warn("Dispatch cancelled before sending pull requests")
		return result
	}

	result.add(d.SendBody(ctx, report.Lines))
	return result
}

// SendHeader posts the list header to every target.
func (d *Dispatcher) SendHeader(ctx context.Context) DispatchResult {
	return d.sendAll(ctx, domain.MsgListHeader)
}

// SendBody posts each line to every target, line by line.
func (d *Dispatcher) SendBody(ctx context.Context, lines []string) DispatchResult {
	var result DispatchResult
	for _, line := range lines {
		result.add(d.sendAll(ctx, line))
	}
	return result
}

func (d *Dispatcher) sendAll(ctx context.Context, text string) DispatchResult {
	var result DispatchResult
	for _, target := range d.targets.All() {
		if err := d.send(ctx, target, text); err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{
				"target": target.ID,
				"kind":   target.Kind,
			}).Error("Failed to send message")
			result.Failed++
			continue
		}
		result.Sent++
	}
	return result
}

func (d *Dispatcher) send(ctx context.Context, target entity.Target, text string) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	return d.notifier.Post(ctx, target, text)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
