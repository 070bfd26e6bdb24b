package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/diegoclair/pr-police/internal/domain/contract"
	slackcmd "github.com/diegoclair/pr-police/internal/domain/slack"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

type SlackHandler struct {
	commands      contract.CommandService
	notifier      contract.Notifier
	signingSecret string
	log           *logrus.Logger

	inflight sync.WaitGroup
}

func New(commands contract.CommandService, notifier contract.Notifier, signingSecret string, log *logrus.Logger) *SlackHandler {
	return &SlackHandler{
		commands:      commands,
		notifier:      notifier,
		signingSecret: signingSecret,
		log:           log,
	}
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	// Verify request from Slack
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if _, err := verifier.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := verifier.Ensure(); err != nil {
		h.log.WithError(err).Warn("Rejected slash command with bad signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.respond(w, h.RespondCommand(r.Context(), s))
}

// RespondCommand builds the immediate response to a slash command, whether it
// came over HTTP or Socket Mode. A list is acked here and posted async.
func (h *SlackHandler) RespondCommand(ctx context.Context, s slack.SlashCommand) *slack.Msg {
	cmd, err := slackcmd.ParseCommand(s.Text)
	if err != nil {
		return h.createErrorResponse(fmt.Sprintf("%v. Try `%s help`", err, s.Command))
	}

	h.log.WithFields(logrus.Fields{
		"command": cmd.Type,
		"channel": s.ChannelID,
		"user":    s.UserID,
	}).Info("Slash command received")

	return h.handleCommand(ctx, cmd, &s)
}

func (h *SlackHandler) handleCommand(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	switch cmd.Type {
	case slackcmd.CmdList:
		return h.handleList(ctx, slashCmd)
	case slackcmd.CmdHelp:
		return h.handleHelp()
	default:
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         h.commands.Answer(ctx, string(cmd.Type)),
		}
	}
}

// handleList acks right away; the fetch can outlast Slack's three second
// response window, so the list is posted to the channel once ready.
func (h *SlackHandler) handleList(ctx context.Context, slashCmd *slack.SlashCommand) *slack.Msg {
	channelID := slashCmd.ChannelID
	ctx = context.WithoutCancel(ctx)

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()

		reply := h.commands.Answer(ctx, string(slackcmd.CmdList))
		if err := h.notifier.Reply(ctx, channelID, reply); err != nil {
			h.log.WithError(err).WithField("channel", channelID).Error("Failed to post slash command reply")
		}
	}()

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         "🔎 Checking pull requests...",
	}
}

func (h *SlackHandler) handleHelp() *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         slackcmd.GetHelpText(),
	}
}

// Wait blocks until every asynchronous reply has been posted.
func (h *SlackHandler) Wait() {
	h.inflight.Wait()
}

func (h *SlackHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func (h *SlackHandler) createErrorResponse(message string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("❌ %s", message),
	}
}

func (h *SlackHandler) respond(w http.ResponseWriter, msg *slack.Msg) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		h.log.WithError(err).Error("Failed to encode slash command response")
	}
}
