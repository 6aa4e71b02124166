package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// BotConfig holds the intent wiring and the copy shown to users.
// Values come from the optional YAML file; missing keys keep their defaults.
type BotConfig struct {
	IntentName      string `yaml:"intent_name"`
	SlotName        string `yaml:"slot_name"`
	ElicitPrompt    string `yaml:"elicit_prompt"`
	NoResultsText   string `yaml:"no_results_text"`
	ResultsHeader   string `yaml:"results_header"`
	WatchURLPrefix  string `yaml:"watch_url_prefix"`
	CardVersion     int    `yaml:"card_version"`
	TitleMaxLength  int    `yaml:"title_max_length"`
	ViewCountCutoff int    `yaml:"view_count_cutoff"` // first ranking stage keeps this many
	ResultLimit     int    `yaml:"result_limit"`      // second ranking stage keeps this many
}

// DefaultBotConfig returns the built-in bot settings.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		IntentName:      "get_video_id_intent",
		SlotName:        "slot_one_svc",
		ElicitPrompt:    "Which AWS service would you like to see a demo of?",
		NoResultsText:   "Sorry, I could not find any demos for %q. Please try another AWS service.",
		ResultsHeader:   "Check out these demos for %q:",
		WatchURLPrefix:  "https://www.youtube.com/watch?v=",
		CardVersion:     1,
		TitleMaxLength:  75,
		ViewCountCutoff: 10,
		ResultLimit:     5,
	}
}

type yamlFile struct {
	Bot BotConfig `yaml:"bot"`
}

// LoadYAMLConfig overlays the YAML configuration file onto c.Bot.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// A missing file is not an error.
func (c *Config) LoadYAMLConfig() error {
	return c.LoadYAMLFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLFile overlays the YAML file at path onto c.Bot. A missing file is not an error.
func (c *Config) LoadYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil
		}
		return err
	}

	file := yamlFile{Bot: c.Bot}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	c.Bot = file.Bot.withDefaults()
	return nil
}

// withDefaults restores defaults for zero values the YAML file may have set.
func (b BotConfig) withDefaults() BotConfig {
	d := DefaultBotConfig()
	if b.IntentName == "" {
		b.IntentName = d.IntentName
	}
	if b.SlotName == "" {
		b.SlotName = d.SlotName
	}
	if b.ElicitPrompt == "" {
		b.ElicitPrompt = d.ElicitPrompt
	}
	if !TermTemplate(b.NoResultsText) {
		b.NoResultsText = d.NoResultsText
	}
	if !TermTemplate(b.ResultsHeader) {
		b.ResultsHeader = d.ResultsHeader
	}
	if b.WatchURLPrefix == "" {
		b.WatchURLPrefix = d.WatchURLPrefix
	}
	if b.CardVersion <= 0 {
		b.CardVersion = d.CardVersion
	}
	if b.TitleMaxLength <= 3 {
		b.TitleMaxLength = d.TitleMaxLength
	}
	if b.ViewCountCutoff <= 0 {
		b.ViewCountCutoff = d.ViewCountCutoff
	}
	if b.ResultLimit <= 0 {
		b.ResultLimit = d.ResultLimit
	}
	return b
}

// TermTemplate reports whether s has exactly one %s, %q or %v verb for the
// search term. Literal percent signs must be written as %%.
func TermTemplate(s string) bool {
	verbs := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		i++
		for i < len(s) && strings.IndexByte("+-# 0", s[i]) >= 0 {
			i++
		}
		if i == len(s) {
			return false
		}
		switch s[i] {
		case '%':
		case 's', 'q', 'v':
			verbs++
		default:
			return false
		}
	}
	return verbs == 1
}
