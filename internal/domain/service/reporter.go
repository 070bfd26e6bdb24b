package service

import (
	"context"
	"time"

	"github.com/diegoclair/pr-police/internal/domain"
	"github.com/diegoclair/pr-police/internal/domain/contract"
	"github.com/diegoclair/pr-police/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// fetchTimeout bounds the shared fetch, which no caller can cancel
const fetchTimeout = time.Minute

type ReportConfig struct {
	Repos         []string
	Labels        string
	ExcludeLabels entity.LabelSet
	NotifyIfNone  bool
}

// Reporter runs the fetch, filter and format steps of a pass.
type Reporter struct {
	source    contract.PullRequestSource
	cfg       ReportConfig
	formatter Formatter
	log       *logrus.Logger

	// concurrent passes share a single in-flight fetch
	fetches singleflight.Group
}

func NewReporter(source contract.PullRequestSource, cfg ReportConfig, formatter Formatter, log *logrus.Logger) *Reporter {
	return &Reporter{
		source:    source,
		cfg:       cfg,
		formatter: formatter,
		log:       log,
	}
}

// Build produces the report for a scheduled pass. An empty result yields an
// empty report unless notify-on-empty is configured.
func (r *Reporter) Build(ctx context.Context) entity.Report {
	return r.build(ctx, r.cfg.NotifyIfNone)
}

// BuildOnDemand always returns something to say, even when nothing is open.
func (r *Reporter) BuildOnDemand(ctx context.Context) entity.Report {
	return r.build(ctx, true)
}

func (r *Reporter) build(ctx context.Context, notifyIfNone bool) entity.Report {
	log := r.log.WithField("run_id", uuid.NewString())
	log.WithField("repos", r.cfg.Repos).Info("Checking for pull requests...")

	start := time.Now()
	items, shared, err := r.fetch(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to fetch pull requests")
		return entity.Report{Notice: domain.MsgFetchFailed}
	}

	log.WithFields(logrus.Fields{
		"found":    len(items),
		"shared":   shared,
		"duration": time.Since(start).String(),
	}).Debug("Fetched pull requests")

	kept := FilterItems(items, r.cfg.ExcludeLabels)
	if dropped := len(items) - len(kept); dropped > 0 {
		log.WithField("dropped", dropped).Debug("Excluded pull requests by label")
	}

	if len(kept) == 0 {
		if notifyIfNone {
			return entity.Report{Notice: domain.MsgNoPullRequests}
		}
		log.Debug("No pending pull requests found")
		return entity.Report{}
	}

	for _, pr := range kept {
		log.WithField("title", pr.Title).Debug("Found pull request")
	}

	return entity.Report{Lines: r.formatter.FormatLines(kept)}
}

// fetch joins the in-flight fetch, if any. The shared call is detached from
// every caller's context. A cancelled caller stops waiting and gets its own
// context error.
func (r *Reporter) fetch(ctx context.Context) ([]entity.PullRequest, bool, error) {
	ch := r.fetches.DoChan("fetch", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return r.source.Fetch(fetchCtx, r.cfg.Repos, r.cfg.Labels)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		items, _ := res.Val.([]entity.PullRequest)
		return items, res.Shared, nil
	}
}
