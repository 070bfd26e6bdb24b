package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diegoclair/pr-police/internal/domain"
	"github.com/diegoclair/pr-police/internal/domain/entity"
	"github.com/joho/godotenv"
)

var ErrMissingConfig = errors.New("missing required configuration")

var requiredEnvs = []string{"SLACK_TOKEN", "GH_TOKEN", "GH_REPOS"}

type Config struct {
	SlackToken         string
	SlackAppToken      string
	SlackSigningSecret string
	SlackChannels      []string
	SlackGroups        []string
	BotName            string
	BotIcon            string

	GitHubToken   string
	GitHubAPIURL  string
	Repos         []string
	Labels        string
	ExcludeLabels []string

	RunDays       []time.Weekday
	RunTimes      []int
	ExtraHolidays []entity.HolidayRule
	Location      *time.Location

	NotifyWhenNoneFound bool
	DispatchStagger     time.Duration
	SlackRatePerSec     float64

	Debug        bool
	LogFormat    string
	DatabasePath string
	Port         string
}

// Load reads the configuration from the environment and an optional .env file.
// Missing required values and malformed optional ones are errors.
func Load() (*Config, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	var missing []string
	for _, key := range requiredEnvs {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ","))
	}

	cfg := &Config{
		SlackToken:         os.Getenv("SLACK_TOKEN"),
		SlackAppToken:      os.Getenv("SLACK_APP_TOKEN"),
		SlackSigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		SlackChannels:      splitList(os.Getenv("SLACK_CHANNELS")),
		SlackGroups:        splitList(os.Getenv("SLACK_GROUPS")),
		BotName:            getEnv("SLACK_BOT_NAME", domain.DefaultBotName),
		BotIcon:            os.Getenv("SLACK_BOT_ICON"),
		GitHubToken:        os.Getenv("GH_TOKEN"),
		GitHubAPIURL:       getEnv("GH_API_URL", "https://api.github.com"),
		Repos:              splitList(os.Getenv("GH_REPOS")),
		Labels:             os.Getenv("GH_LABELS"),
		ExcludeLabels:      splitList(os.Getenv("GH_EXCLUDE_LABELS")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		DatabasePath:       getEnv("DATABASE_PATH", "./prpolice.db"),
		Port:               getEnv("PORT", "3000"),
	}

	var err error

	if cfg.RunDays, err = ParseDays(os.Getenv("DAYS_TO_RUN")); err != nil {
		return nil, fmt.Errorf("invalid DAYS_TO_RUN: %w", err)
	}

	if cfg.RunTimes, err = ParseTimes(os.Getenv("TIMES_TO_RUN")); err != nil {
		return nil, fmt.Errorf("invalid TIMES_TO_RUN: %w", err)
	}

	if cfg.ExtraHolidays, err = ParseHolidays(os.Getenv("EXTRA_HOLIDAYS")); err != nil {
		return nil, fmt.Errorf("invalid EXTRA_HOLIDAYS: %w", err)
	}

	if cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Local")); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	if cfg.NotifyWhenNoneFound, err = getBool("NOTIFY_WHEN_NONE_FOUND"); err != nil {
		return nil, err
	}

	if cfg.Debug, err = getBool("DEBUG"); err != nil {
		return nil, err
	}

	if cfg.DispatchStagger, err = time.ParseDuration(getEnv("DISPATCH_STAGGER", domain.DefaultStagger.String())); err != nil {
		return nil, fmt.Errorf("invalid DISPATCH_STAGGER: %w", err)
	}

	if cfg.SlackRatePerSec, err = strconv.ParseFloat(getEnv("SLACK_RATE_PER_SEC", "1"), 64); err != nil {
		return nil, fmt.Errorf("invalid SLACK_RATE_PER_SEC: %w", err)
	}

	return cfg, nil
}

// ParseDays parses a comma-separated list of weekday names. Empty means Monday to Friday.
func ParseDays(value string) ([]time.Weekday, error) {
	names := splitList(value)
	if len(names) == 0 {
		return append([]time.Weekday(nil), domain.DefaultRunDays...), nil
	}

	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, err := domain.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// ParseTimes parses comma-separated run times written as hour*100+minute
// (900 is 09:00, 1730 is 17:30). Empty means 900. Duplicates are rejected.
func ParseTimes(value string) ([]int, error) {
	parts := splitList(value)
	if len(parts) == 0 {
		return append([]int(nil), domain.DefaultRunTimes...), nil
	}

	seen := make(map[int]bool, len(parts))
	times := make([]int, 0, len(parts))
	for _, p := range parts {
		t, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("run time %q is not a number", p)
		}
		if t < 0 || t/100 > 23 || t%100 > 59 {
			return nil, fmt.Errorf("run time %d is not a valid hour and minute", t)
		}
		if seen[t] {
			return nil, fmt.Errorf("run time %d is configured twice", t)
		}
		seen[t] = true
		times = append(times, t)
	}
	return times, nil
}

// ParseHolidays parses a comma-separated list of holiday rules.
func ParseHolidays(value string) ([]entity.HolidayRule, error) {
	var rules []entity.HolidayRule
	for _, s := range splitList(value) {
		rule, err := entity.ParseHolidayRule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Schedule returns the run days and times as a domain value.
func (c *Config) Schedule() entity.Schedule {
	return entity.Schedule{Days: c.RunDays, Times: c.RunTimes}
}

// ExcludeLabelSet returns the excluded labels as a set.
func (c *Config) ExcludeLabelSet() entity.LabelSet {
	return entity.NewLabelSet(c.ExcludeLabels...)
}

// Targets returns the configured channels and groups.
func (c *Config) Targets() entity.Targets {
	return entity.Targets{Channels: c.SlackChannels, Groups: c.SlackGroups}
}

// RunDayNames lists the enabled weekdays in calendar order, for logging.
func (c *Config) RunDayNames() []string {
	days := append([]time.Weekday(nil), c.RunDays...)
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, domain.WeekdayNames[d])
	}
	return names
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
