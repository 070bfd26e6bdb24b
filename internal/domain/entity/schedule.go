package entity

import "time"

// Schedule lists the weekdays and times of day (hour*100+minute) a scheduled run may fire.
type Schedule struct {
	Days  []time.Weekday
	Times []int
}

// RunDecision is the gate verdict for one tick. The zero value means no run.
type RunDecision struct {
	Run  bool
	Time int
}

var NoRun = RunDecision{}

func RunAt(t int) RunDecision {
	return RunDecision{Run: true, Time: t}
}

type TargetKind string

const (
	TargetChannel TargetKind = "channel"
	TargetGroup   TargetKind = "group"
)

type Target struct {
	Kind TargetKind
	ID   string
}

// Targets holds the destinations of a scheduled report.
type Targets struct {
	Channels []string
	Groups   []string
}

// All returns channels first, then groups.
func (t Targets) All() []Target {
	all := make([]Target, 0, len(t.Channels)+len(t.Groups))
	for _, id := range t.Channels {
		all = append(all, Target{Kind: TargetChannel, ID: id})
	}
	for _, id := range t.Groups {
		all = append(all, Target{Kind: TargetGroup, ID: id})
	}
	return all
}

// InboundMessage is a chat message addressed to the bot.
type InboundMessage struct {
	Text        string
	ChannelID   string
	UserID      string
	IsDirect    bool
	IsFromBot   bool
	MentionsBot bool
}
