package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/diegoclair/pr-police/internal/domain"
	"github.com/diegoclair/pr-police/internal/domain/contract"
	"github.com/diegoclair/pr-police/internal/domain/entity"
	slackcmd "github.com/diegoclair/pr-police/internal/domain/slack"
	"github.com/sirupsen/logrus"
)

// Commander answers chat messages addressed to the bot. Replies go only to the
// conversation the message came from.
type Commander struct {
	reporter *Reporter
	gate     *ScheduleGate
	calendar *HolidayCalendar
	notifier contract.Notifier
	clock    contract.Clock
	log      *logrus.Logger
}

func newCommander(reporter *Reporter, gate *ScheduleGate, calendar *HolidayCalendar, notifier contract.Notifier, clock contract.Clock, log *logrus.Logger) *Commander {
	return &Commander{
		reporter: reporter,
		gate:     gate,
		calendar: calendar,
		notifier: notifier,
		clock:    clock,
		log:      log,
	}
}

// ShouldTrigger reports whether msg is a direct message or a mention that did
// not come from the bot itself.
func ShouldTrigger(msg entity.InboundMessage) bool {
	if msg.IsFromBot {
		return false
	}
	return msg.IsDirect || msg.MentionsBot
}

// Handle runs the command carried by msg and replies in msg.ChannelID.
// It returns false when the message is not for the bot.
func (c *Commander) Handle(ctx context.Context, msg entity.InboundMessage) bool {
	if !ShouldTrigger(msg) {
		return false
	}

	c.log.WithFields(logrus.Fields{
		"channel": msg.ChannelID,
		"user":    msg.UserID,
		"direct":  msg.IsDirect,
	}).Info("Command received")

	reply := c.Answer(ctx, slackcmd.StripMentions(msg.Text))
	if err := c.notifier.Reply(ctx, msg.ChannelID, reply); err != nil {
		c.log.WithError(err).WithField("channel", msg.ChannelID).Error("Failed to reply")
	}

	return true
}

// Answer renders the reply for command text. Anything that is not a known
// command lists pull requests.
func (c *Commander) Answer(ctx context.Context, text string) string {
	cmd, err := slackcmd.ParseCommand(text)
	if err != nil {
		cmd = &slackcmd.Command{Type: slackcmd.CmdList, Raw: text}
	}

	switch cmd.Type {
	case slackcmd.CmdNext:
		return c.nextRun()
	case slackcmd.CmdHolidays:
		return c.holidays()
	case slackcmd.CmdHelp:
		return slackcmd.GetHelpText()
	default:
		return RenderReply(c.reporter.BuildOnDemand(ctx))
	}
}

// RenderReply joins a report into a single message.
func RenderReply(report entity.Report) string {
	if report.Notice != "" {
		return report.Notice
	}
	if len(report.Lines) == 0 {
		return domain.MsgNoPullRequests
	}
	return domain.MsgListHeader + "\n" + strings.Join(report.Lines, "\n")
}

func (c *Commander) nextRun() string {
	next, ok := c.gate.Next(c.clock.Now())
	if !ok {
		return "No scheduled check is coming up. Check DAYS_TO_RUN and TIMES_TO_RUN."
	}
	return fmt.Sprintf("Next scheduled check: %s", next.Format("Monday 2006-01-02 15:04 MST"))
}

func (c *Commander) holidays() string {
	rules := c.calendar.Rules()
	if len(rules) == 0 {
		return "No holidays configured."
	}

	var b strings.Builder
	b.WriteString("*Scheduled checks are skipped on:*\n")
	for _, rule := range rules {
		b.WriteString("• " + rule.String())
		if rule.Description != "" {
			b.WriteString(" - " + rule.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
