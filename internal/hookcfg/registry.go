// Package hookcfg holds the catalog of hook configurations under test.
// The catalog is process-wide constant data: defined once, read many times.
package hookcfg

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an unknown configuration id.
var ErrNotFound = errors.New("hookcfg: configuration not found")

// ExtraFile is an additional file installed into the sandbox before the
// settings document is written.
type ExtraFile struct {
	Source      string // local path, relative to the repo root
	Destination string // absolute remote path
}

// Config bundles a settings payload and optional extra files under a
// stable id. Instances are immutable.
type Config struct {
	ID         string
	Label      string
	Settings   map[string]any
	ExtraFiles []ExtraFile
}

const (
	remoteHookDir    = "/root/.claude/hooks"
	activationScript = remoteHookDir + "/skill-activation-prompt.sh"
	reminderScript   = remoteHookDir + "/skill-reminder.sh"
)

// catalog is ordered; IDs preserves this order.
var catalog = []Config{
	{
		ID:       "control",
		Label:    "No hook (control)",
		Settings: map[string]any{"hooks": map[string]any{}},
	},
	{
		ID:    "prompt-hook",
		Label: "UserPromptSubmit activation hook",
		Settings: map[string]any{
			"hooks": map[string]any{
				"UserPromptSubmit": []any{
					map[string]any{
						"hooks": []any{
							map[string]any{
								"type":    "command",
								"command": activationScript,
							},
						},
					},
				},
			},
		},
		ExtraFiles: []ExtraFile{
			{Source: "hooks/skill-activation-prompt.sh", Destination: activationScript},
		},
	},
	{
		ID:    "prompt-hook-strict",
		Label: "UserPromptSubmit hook with mandatory skill evaluation",
		Settings: map[string]any{
			"hooks": map[string]any{
				"UserPromptSubmit": []any{
					map[string]any{
						"hooks": []any{
							map[string]any{
								"type":    "command",
								"command": activationScript + " --strict",
							},
						},
					},
				},
			},
		},
		ExtraFiles: []ExtraFile{
			{Source: "hooks/skill-activation-prompt.sh", Destination: activationScript},
		},
	},
	{
		ID:    "reminder-hook",
		Label: "PostToolUse skill reminder hook",
		Settings: map[string]any{
			"hooks": map[string]any{
				"UserPromptSubmit": []any{
					map[string]any{
						"hooks": []any{
							map[string]any{
								"type":    "command",
								"command": activationScript,
							},
						},
					},
				},
				"PostToolUse": []any{
					map[string]any{
						"matcher": "Read|Grep|Glob",
						"hooks": []any{
							map[string]any{
								"type":    "command",
								"command": reminderScript,
							},
						},
					},
				},
			},
		},
		ExtraFiles: []ExtraFile{
			{Source: "hooks/skill-activation-prompt.sh", Destination: activationScript},
			{Source: "hooks/skill-reminder.sh", Destination: reminderScript},
		},
	},
}

// Get returns the configuration registered under id.
func Get(id string) (Config, error) {
	for _, c := range catalog {
		if c.ID == id {
			return c, nil
		}
	}
	return Config{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// IDs returns all configuration ids in catalog order.
func IDs() []string {
	out := make([]string, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, c.ID)
	}
	return out
}
