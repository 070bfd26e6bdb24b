package slack

import (
	"fmt"
	"strings"
)

type CommandType string

const (
	CmdList     CommandType = "list"
	CmdNext     CommandType = "next"
	CmdHolidays CommandType = "holidays"
	CmdHelp     CommandType = "help"
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// ParseCommand maps command text to a Command. Empty text lists pull requests.
func ParseCommand(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdList}, nil
	}

	cmd := &Command{
		Raw: text,
	}
	if len(parts) > 1 {
		cmd.Args = parts[1:]
	}

	switch strings.ToLower(parts[0]) {
	case "list", "ls", "prs", "pr", "check":
		cmd.Type = CmdList
	case "next", "when":
		cmd.Type = CmdNext
	case "holidays", "holiday":
		cmd.Type = CmdHolidays
	case "help":
		cmd.Type = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command: %s", parts[0])
	}

	return cmd, nil
}

// StripMentions removes user mentions such as <@U123> or <@U123|name> from text.
func StripMentions(text string) string {
	var b strings.Builder
	for {
		start := strings.Index(text, "<@")
		if start < 0 {
			b.WriteString(text)
			break
		}
		end := strings.Index(text[start:], ">")
		if end < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:start])
		text = text[start+end+1:]
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func GetHelpText() string {
	return `*Available Commands:*

• ` + "`/prpolice`" + ` or ` + "`/prpolice list`" + ` - List open pull requests now
• ` + "`/prpolice next`" + ` - Show when the next scheduled check runs
• ` + "`/prpolice holidays`" + ` - Show the days scheduled checks are skipped
• ` + "`/prpolice help`" + ` - Show this message

You can also send me a direct message or mention me in a channel to get the list.`
}
