package handlers

import (
	"context"
	"sync"

	"github.com/diegoclair/pr-police/internal/domain/contract"
	"github.com/diegoclair/pr-police/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// EventListener receives direct messages, mentions and slash commands over
// Socket Mode.
type EventListener struct {
	client    *socketmode.Client
	commands  contract.CommandService
	slash     *SlackHandler
	botUserID string
	log       *logrus.Logger

	// ack is client.Ack; tests capture the envelope and payload instead
	ack func(req socketmode.Request, payload ...interface{})

	inflight sync.WaitGroup
}

func NewEventListener(client *socketmode.Client, commands contract.CommandService, slash *SlackHandler, botUserID string, log *logrus.Logger) *EventListener {
	l := &EventListener{
		client:    client,
		commands:  commands,
		slash:     slash,
		botUserID: botUserID,
		log:       log,
	}
	if client != nil {
		l.ack = client.Ack
	}
	return l
}

// Run connects and consumes events until ctx is done.
func (l *EventListener) Run(ctx context.Context) error {
	go l.consume(ctx)
	return l.client.RunContext(ctx)
}

// Wait blocks until every in-flight command has replied.
func (l *EventListener) Wait() {
	l.inflight.Wait()
}

func (l *EventListener) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-l.client.Events:
			if !ok {
				return
			}
			l.handleEvent(ctx, evt)
		}
	}
}

func (l *EventListener) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		l.log.Info("Connecting to Slack with Socket Mode...")
	case socketmode.EventTypeConnected:
		l.log.Info("Connected to Slack with Socket Mode")
	case socketmode.EventTypeConnectionError, socketmode.EventTypeInvalidAuth:
		l.log.WithField("event", evt.Type).Error("Socket Mode connection failed")
	case socketmode.EventTypeSlashCommand:
		s, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			l.log.WithField("event", evt.Type).Warn("Unexpected slash command payload")
			l.acknowledge(evt.Request)
			return
		}
		// the ack payload is the ephemeral response, like the HTTP endpoint's body
		l.acknowledge(evt.Request, l.slash.RespondCommand(ctx, s))
	case socketmode.EventTypeEventsAPI:
		l.acknowledge(evt.Request)

		eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok || eventsAPIEvent.Type != slackevents.CallbackEvent {
			return
		}

		msg, ok := ToInboundMessage(eventsAPIEvent.InnerEvent.Data, l.botUserID)
		if !ok {
			return
		}
		l.dispatch(ctx, msg)
	}
}

func (l *EventListener) acknowledge(req *socketmode.Request, payload ...interface{}) {
	if req == nil || l.ack == nil {
		return
	}
	l.ack(*req, payload...)
}

// dispatch runs the command off the event loop so a slow fetch does not hold
// up other events.
func (l *EventListener) dispatch(ctx context.Context, msg entity.InboundMessage) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		l.commands.Handle(ctx, msg)
	}()
}

// ToInboundMessage converts a Slack inner event into an InboundMessage.
// Channel messages are left to app_mention so a mention is answered once.
func ToInboundMessage(inner interface{}, botUserID string) (entity.InboundMessage, bool) {
	switch ev := inner.(type) {
	case *slackevents.MessageEvent:
		if ev.ChannelType != "im" {
			return entity.InboundMessage{}, false
		}
		if ev.SubType != "" && ev.SubType != "bot_message" {
			// edits, deletions and joins
			return entity.InboundMessage{}, false
		}
		return entity.InboundMessage{
			Text:      ev.Text,
			ChannelID: ev.Channel,
			UserID:    ev.User,
			IsDirect:  true,
			IsFromBot: ev.BotID != "" || ev.SubType == "bot_message" || (botUserID != "" && ev.User == botUserID),
		}, true
	case *slackevents.AppMentionEvent:
		return entity.InboundMessage{
			Text:        ev.Text,
			ChannelID:   ev.Channel,
			UserID:      ev.User,
			MentionsBot: true,
			IsFromBot:   ev.BotID != "" || (botUserID != "" && ev.User == botUserID),
		}, true
	}
	return entity.InboundMessage{}, false
}
