package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/diegoclair/pr-police/internal/domain"
	"github.com/diegoclair/pr-police/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testRepos = []string{"acme/widgets", "acme/api"}

func pullRequest(number int, labels ...string) entity.PullRequest {
	return entity.PullRequest{
		Number:        number,
		Title:         fmt.Sprintf("Change %d", number),
		URL:           fmt.Sprintf("https://github.com/acme/widgets/pull/%d", number),
		RepositoryURL: "https://api.github.com/repos/acme/widgets",
		Submitter:     "alice",
		SubmitterURL:  "https://github.com/alice",
		Labels:        labels,
	}
}

func TestReporter_Build(t *testing.T) {
	formatter := NewFormatter("")

	tests := []struct {
		name     string
		cfg      ReportConfig
		items    []entity.PullRequest
		fetchErr error
		want     entity.Report
	}{
		{
			name:     "Should return the failure notice when the fetch fails",
			cfg:      ReportConfig{NotifyIfNone: false},
			fetchErr: errors.New("status 502"),
			want:     entity.Report{Notice: domain.MsgFetchFailed},
		},
		{
			name: "Should return an empty report when nothing is open and notify is off",
			cfg:  ReportConfig{NotifyIfNone: false},
			want: entity.Report{},
		},
		{
			name: "Should return the nothing found notice when nothing is open and notify is on",
			cfg:  ReportConfig{NotifyIfNone: true},
			want: entity.Report{Notice: domain.MsgNoPullRequests},
		},
		{
			name: "Should format every item in input order",
			cfg:  ReportConfig{},
			items: []entity.PullRequest{
				pullRequest(3), pullRequest(1), pullRequest(2),
			},
			want: entity.Report{Lines: []string{
				formatter.FormatLine(pullRequest(3)),
				formatter.FormatLine(pullRequest(1)),
				formatter.FormatLine(pullRequest(2)),
			}},
		},
		{
			name: "Should drop items carrying an excluded label",
			cfg:  ReportConfig{ExcludeLabels: entity.NewLabelSet("wip")},
			items: []entity.PullRequest{
				pullRequest(1, "bug"), pullRequest(2, "wip"), pullRequest(3),
			},
			want: entity.Report{Lines: []string{
				formatter.FormatLine(pullRequest(1, "bug")),
				formatter.FormatLine(pullRequest(3)),
			}},
		},
		{
			name: "Should treat everything excluded as nothing found",
			cfg:  ReportConfig{ExcludeLabels: entity.NewLabelSet("wip"), NotifyIfNone: true},
			items: []entity.PullRequest{
				pullRequest(1, "wip"), pullRequest(2, "wip"),
			},
			want: entity.Report{Notice: domain.MsgNoPullRequests},
		},
		{
			name: "Should send nothing when everything is excluded and notify is off",
			cfg:  ReportConfig{ExcludeLabels: entity.NewLabelSet("wip")},
			items: []entity.PullRequest{
				pullRequest(1, "wip"),
			},
			want: entity.Report{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctrl := newServiceTestMock(t)
			defer ctrl.Finish()

			tt.cfg.Repos = testRepos
			tt.cfg.Labels = "ready"

			m.mockSource.EXPECT().
				Fetch(gomock.Any(), testRepos, "ready").
				Return(tt.items, tt.fetchErr).
				Times(1)

			reporter := NewReporter(m.mockSource, tt.cfg, formatter, m.log)
			got := reporter.Build(context.Background())

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReporter_BuildOnDemandAlwaysAnswers(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	m.mockSource.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(1)

	reporter := NewReporter(m.mockSource, ReportConfig{Repos: testRepos, NotifyIfNone: false}, NewFormatter(""), m.log)
	got := reporter.BuildOnDemand(context.Background())

	assert.Equal(t, entity.Report{Notice: domain.MsgNoPullRequests}, got)
}

func TestReporter_LogsFetchFailureWithRunID(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	m.mockSource.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("boom"))

	reporter := NewReporter(m.mockSource, ReportConfig{Repos: testRepos}, NewFormatter(""), m.log)
	reporter.Build(context.Background())

	var failure *logrus.Entry
	for _, e := range m.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			failure = e
		}
	}
	require.NotNil(t, failure)
	assert.Equal(t, "Failed to fetch pull requests", failure.Message)
	assert.NotEmpty(t, failure.Data["run_id"])
	assert.EqualError(t, failure.Data[logrus.ErrorKey].(error), "boom")
}

func TestReporter_SharedFetchOutlivesCancelledCaller(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	fetchCtxErrs := make(chan error, 2)

	m.mockSource.EXPECT().
		Fetch(gomock.Any(), testRepos, "").
		DoAndReturn(func(ctx context.Context, _ []string, _ string) ([]entity.PullRequest, error) {
			started <- struct{}{}
			<-release
			fetchCtxErrs <- ctx.Err()
			return []entity.PullRequest{pullRequest(1)}, nil
		}).
		MinTimes(1).MaxTimes(2)

	formatter := NewFormatter("")
	reporter := NewReporter(m.mockSource, ReportConfig{Repos: testRepos}, formatter, m.log)

	onDemandCtx, cancel := context.WithCancel(context.Background())
	onDemand := make(chan entity.Report, 1)
	go func() { onDemand <- reporter.BuildOnDemand(onDemandCtx) }()
	<-started

	scheduled := make(chan entity.Report, 1)
	go func() { scheduled <- reporter.Build(context.Background()) }()

	cancel()
	assert.Equal(t, entity.Report{Notice: domain.MsgFetchFailed}, <-onDemand, "the cancelled caller stops waiting")

	close(release)
	assert.Equal(t, entity.Report{Lines: []string{formatter.FormatLine(pullRequest(1))}}, <-scheduled)
	assert.NoError(t, <-fetchCtxErrs, "the shared fetch must not see the first caller's cancellation")
}
