// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/jackchuka/gp/internal/format"
	"github.com/jackchuka/gp/internal/model"
)

// Submodule policies accepted by git's --ignore-submodules.
var submodulePolicies = []string{"", "none", "untracked", "dirty", "all"}

const (
	WatchPoll     = "poll"
	WatchFSNotify = "fsnotify"
)

type Config struct {
	// Rendering
	Formats         map[string]string `yaml:"formats" toml:"formats"`
	Outputs         map[string]string `yaml:"outputs" toml:"outputs"`
	Actions         map[string]string `yaml:"actions,omitempty" toml:"actions,omitempty"`
	BranchMaxLength int               `yaml:"branch_max_length" toml:"branch_max_length"`

	// Probing
	Verbose          bool     `yaml:"verbose" toml:"verbose"`
	IgnoreSubmodules string   `yaml:"ignore_submodules,omitempty" toml:"ignore_submodules,omitempty"`
	ProbeTimeout     Duration `yaml:"probe_timeout" toml:"probe_timeout"`

	// Watcher
	Watch WatchConfig `yaml:"watch" toml:"watch"`
}

type WatchConfig struct {
	Mode         string   `yaml:"mode" toml:"mode"`
	PollInterval Duration `yaml:"poll_interval" toml:"poll_interval"`
}

// DefaultFormats is the template set used when a config file names none.
func DefaultFormats() map[string]string {
	return map[string]string{
		"branch":    "{branch}",
		"commit":    "{commit}",
		"position":  "({position})",
		"remote":    "",
		"action":    "|{action}",
		"ahead":     "↑{ahead}",
		"behind":    "↓{behind}",
		"diverged":  "↕{ahead}/{behind}",
		"stashed":   "≡{stashed}",
		"indexed":   "●{indexed}",
		"unindexed": "✚{unindexed}",
		"untracked": "…{untracked}",
		"dirty":     "*",
		"clean":     "✔",
	}
}

// DefaultOutputs holds the single "prompt" output key.
func DefaultOutputs() map[string]string {
	return map[string]string{
		"prompt": "{branch}{position}{commit}{action} {diverged}{ahead}{behind}{stashed}{dirty}{clean}",
	}
}

func NewConfig() *Config {
	return &Config{
		Formats:         DefaultFormats(),
		Outputs:         DefaultOutputs(),
		Actions:         map[string]string{},
		BranchMaxLength: format.DefaultBranchMaxLength,
		ProbeTimeout:    Duration(2 * time.Second),
		Watch: WatchConfig{
			Mode:         WatchFSNotify,
			PollInterval: Duration(2 * time.Second),
		},
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	if c.Formats == nil {
		c.Formats = DefaultFormats()
	}
	if c.Outputs == nil {
		c.Outputs = DefaultOutputs()
	}
	if c.Actions == nil {
		c.Actions = map[string]string{}
	}
	if c.BranchMaxLength == 0 {
		c.BranchMaxLength = format.DefaultBranchMaxLength
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = Duration(2 * time.Second)
	}
	if c.Watch.Mode == "" {
		c.Watch.Mode = WatchFSNotify
	}
	if c.Watch.PollInterval == 0 {
		c.Watch.PollInterval = Duration(2 * time.Second)
	}
}

// Validate reports every problem in c at once.
func (c *Config) Validate() error {
	var errs []error

	for _, name := range slices.Sorted(maps.Keys(c.Formats)) {
		if _, ok := model.ParseField(name); !ok {
			errs = append(errs, fmt.Errorf("formats: unknown field %q", name))
			continue
		}
		if _, err := format.Parse(c.Formats[name]); err != nil {
			errs = append(errs, fmt.Errorf("formats.%s: %w", name, err))
		}
	}
	for _, key := range slices.Sorted(maps.Keys(c.Outputs)) {
		if key == "" {
			errs = append(errs, errors.New("outputs: empty key"))
			continue
		}
		if _, err := format.Parse(c.Outputs[key]); err != nil {
			errs = append(errs, fmt.Errorf("outputs.%s: %w", key, err))
		}
	}
	if !slices.Contains(submodulePolicies, c.IgnoreSubmodules) {
		errs = append(errs, fmt.Errorf("ignore_submodules: invalid policy %q", c.IgnoreSubmodules))
	}
	if c.ProbeTimeout < 0 {
		errs = append(errs, fmt.Errorf("probe_timeout: must not be negative, got %s", c.ProbeTimeout))
	}
	switch c.Watch.Mode {
	case WatchPoll, WatchFSNotify:
	default:
		errs = append(errs, fmt.Errorf("watch.mode: must be %q or %q, got %q", WatchPoll, WatchFSNotify, c.Watch.Mode))
	}
	if c.Watch.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("watch.poll_interval: must not be negative, got %s", c.Watch.PollInterval))
	}

	return errors.Join(errs...)
}

// Compile turns the template strings into a format.Set. A negative
// branch_max_length disables shortening.
func (c *Config) Compile() (*format.Set, error) {
	set := &format.Set{
		Fields:          make(map[model.Field]*format.Template, len(c.Formats)),
		Outputs:         make(map[string]*format.Template, len(c.Outputs)),
		Actions:         maps.Clone(c.Actions),
		BranchMaxLength: max(c.BranchMaxLength, 0),
	}
	if c.BranchMaxLength == 0 {
		set.BranchMaxLength = format.DefaultBranchMaxLength
	}

	for name, src := range c.Formats {
		f, ok := model.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("formats: unknown field %q", name)
		}
		t, err := format.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("formats.%s: %w", name, err)
		}
		set.Fields[f] = t
	}
	for key, src := range c.Outputs {
		t, err := format.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("outputs.%s: %w", key, err)
		}
		set.Outputs[key] = t
	}
	return set, nil
}
