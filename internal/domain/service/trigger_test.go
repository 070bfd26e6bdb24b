package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diegoclair/pr-police/internal/domain"
	"github.com/diegoclair/pr-police/internal/domain/entity"
	slackcmd "github.com/diegoclair/pr-police/internal/domain/slack"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestShouldTrigger(t *testing.T) {
	tests := []struct {
		name string
		msg  entity.InboundMessage
		want bool
	}{
		{name: "Should trigger on a direct message", msg: entity.InboundMessage{IsDirect: true}, want: true},
		{name: "Should trigger on a mention", msg: entity.InboundMessage{MentionsBot: true}, want: true},
		{name: "Should not trigger on the bot's own direct message", msg: entity.InboundMessage{IsDirect: true, IsFromBot: true}, want: false},
		{name: "Should not trigger on the bot's own mention", msg: entity.InboundMessage{MentionsBot: true, IsFromBot: true}, want: false},
		{name: "Should not trigger on plain channel chatter", msg: entity.InboundMessage{Text: "hello"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldTrigger(tt.msg))
		})
	}
}

func TestRenderReply(t *testing.T) {
	tests := []struct {
		name   string
		report entity.Report
		want   string
	}{
		{name: "Should render the notice alone", report: entity.Report{Notice: domain.MsgFetchFailed}, want: domain.MsgFetchFailed},
		{name: "Should render nothing found for an empty report", report: entity.Report{}, want: domain.MsgNoPullRequests},
		{name: "Should join header and lines", report: entity.Report{Lines: []string{"a", "b"}}, want: domain.MsgListHeader + "\na\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderReply(tt.report))
		})
	}
}

func newTestCommander(m allMocks, schedule entity.Schedule, rules []entity.HolidayRule) *Commander {
	calendar := NewHolidayCalendar(rules)
	gate := NewScheduleGate(schedule, calendar)
	reporter := NewReporter(m.mockSource, ReportConfig{Repos: testRepos}, NewFormatter(""), m.log)
	return newCommander(reporter, gate, calendar, m.mockNotifier, m.mockClock, m.log)
}

func TestCommander_Handle(t *testing.T) {
	formatter := NewFormatter("")

	t.Run("Should reply to the originating conversation only", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		m.mockSource.EXPECT().
			Fetch(gomock.Any(), testRepos, "").
			Return([]entity.PullRequest{pullRequest(1)}, nil)

		want := domain.MsgListHeader + "\n" + formatter.FormatLine(pullRequest(1))
		m.mockNotifier.EXPECT().Reply(gomock.Any(), "D42", want).Return(nil).Times(1)
		m.mockNotifier.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		c := newTestCommander(m, entity.Schedule{}, nil)
		handled := c.Handle(context.Background(), entity.InboundMessage{
			Text:      "hi there",
			ChannelID: "D42",
			UserID:    "U1",
			IsDirect:  true,
		})

		assert.True(t, handled)
	})

	t.Run("Should reply nothing found even when notify is off", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		m.mockSource.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		m.mockNotifier.EXPECT().Reply(gomock.Any(), "C9", domain.MsgNoPullRequests).Return(nil)

		c := newTestCommander(m, entity.Schedule{}, nil)
		handled := c.Handle(context.Background(), entity.InboundMessage{
			Text:        "<@UBOT> list",
			ChannelID:   "C9",
			MentionsBot: true,
		})

		assert.True(t, handled)
	})

	t.Run("Should ignore messages from the bot", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		c := newTestCommander(m, entity.Schedule{}, nil)
		handled := c.Handle(context.Background(), entity.InboundMessage{
			Text:      domain.MsgListHeader,
			ChannelID: "D42",
			IsDirect:  true,
			IsFromBot: true,
		})

		assert.False(t, handled)
	})

	t.Run("Should log a failed reply", func(t *testing.T) {
		m, ctrl := newServiceTestMock(t)
		defer ctrl.Finish()

		m.mockNotifier.EXPECT().Reply(gomock.Any(), "D1", slackcmd.GetHelpText()).Return(errors.New("not_in_channel"))

		c := newTestCommander(m, entity.Schedule{}, nil)
		handled := c.Handle(context.Background(), entity.InboundMessage{Text: "help", ChannelID: "D1", IsDirect: true})

		assert.True(t, handled)
		last := m.hook.LastEntry()
		if assert.NotNil(t, last) {
			assert.Equal(t, "Failed to reply", last.Message)
			assert.Equal(t, "D1", last.Data["channel"])
		}
	})
}

func TestCommander_Answer(t *testing.T) {
	weekdays := entity.Schedule{Days: domain.DefaultRunDays, Times: []int{900}}
	newYear := entity.HolidayRule{Kind: entity.HolidayFixed, Month: time.January, Day: 1, Description: "New Year"}
	thanksgiving := entity.HolidayRule{Kind: entity.HolidayFromStart, Month: time.November, Nth: 4, Weekday: time.Thursday}

	tests := []struct {
		name     string
		text     string
		schedule entity.Schedule
		rules    []entity.HolidayRule
		now      time.Time
		want     string
	}{
		{
			name:     "Should show the next run later the same day",
			text:     "next",
			schedule: weekdays,
			now:      date(2024, time.March, 4, 8, 30),
			want:     "Next scheduled check: Monday 2024-03-04 09:00 UTC",
		},
		{
			name:     "Should skip the weekend and holidays for the next run",
			text:     "when",
			schedule: weekdays,
			rules:    []entity.HolidayRule{newYear},
			now:      date(2023, time.December, 29, 10, 0),
			want:     "Next scheduled check: Tuesday 2024-01-02 09:00 UTC",
		},
		{
			name:     "Should explain when nothing is scheduled",
			text:     "next",
			schedule: entity.Schedule{Days: domain.DefaultRunDays},
			now:      date(2024, time.March, 4, 8, 30),
			want:     "No scheduled check is coming up. Check DAYS_TO_RUN and TIMES_TO_RUN.",
		},
		{
			name: "Should say when no holidays are configured",
			text: "holidays",
			want: "No holidays configured.",
		},
		{
			name:  "Should list holidays with descriptions",
			text:  "HOLIDAYS",
			rules: []entity.HolidayRule{newYear, thanksgiving},
			want:  "*Scheduled checks are skipped on:*\n• 1/1 - New Year\n• 11/4/Thursday",
		},
		{
			name: "Should return help",
			text: "help",
			want: slackcmd.GetHelpText(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctrl := newServiceTestMock(t)
			defer ctrl.Finish()

			if !tt.now.IsZero() {
				m.mockClock.EXPECT().Now().Return(tt.now)
			}

			c := newTestCommander(m, tt.schedule, tt.rules)
			assert.Equal(t, tt.want, c.Answer(context.Background(), tt.text))
		})
	}
}

func TestCommander_AnswerUnknownTextListsPullRequests(t *testing.T) {
	m, ctrl := newServiceTestMock(t)
	defer ctrl.Finish()

	m.mockSource.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	c := newTestCommander(m, entity.Schedule{}, nil)
	assert.Equal(t, domain.MsgFetchFailed, c.Answer(context.Background(), "what's up?"))
}
