// Package activation extracts skill-activation signals from captured
// assistant output.
//
// The input is logically one JSON value per line, but the envelope shape is
// not stable across client versions and the tail of the capture may be
// truncated mid-line by the monitor's hard timeout. The parser is therefore
// pattern-based and tolerant: lines that fail to parse are skipped, and an
// empty result is a normal outcome, not a fault.
package activation

import (
	"bufio"
	"encoding/json"
	"sort"
	"strings"
)

// TargetTool is the tool whose invocation counts as a skill activation.
const TargetTool = "Skill"

// candidate is a normalized tool-invocation block: any envelope shape is
// reduced to zero or more of these before name extraction.
type candidate struct {
	name  string
	input map[string]any
}

// Extract scans raw captured output and returns the set of skill names
// observed as activated, sorted and deduplicated. Pure: same input, same
// output, no I/O.
func Extract(raw string) []string {
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var event map[string]any
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}

		for _, c := range normalize(event) {
			if c.name != TargetTool {
				continue
			}
			if name := skillName(c.input); name != "" {
				seen[name] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// normalize maps one parsed event to its candidate tool-invocation blocks.
// The shape checks are independent, not mutually exclusive: an event may
// match more than one and every match contributes.
func normalize(event map[string]any) []candidate {
	var out []candidate

	// Shape: content_block_start carrying an embedded block descriptor.
	if block, ok := event["content_block"].(map[string]any); ok {
		out = append(out, blockCandidates(block)...)
	}

	// Shape: bare tool_use object at the top level.
	out = append(out, blockCandidates(event)...)

	// Shape: role-tagged message with a content array.
	if msg, ok := event["message"].(map[string]any); ok {
		out = append(out, contentCandidates(msg["content"])...)
	}

	// Shape: content array directly on the event.
	out = append(out, contentCandidates(event["content"])...)

	return out
}

func contentCandidates(content any) []candidate {
	blocks, ok := content.([]any)
	if !ok {
		return nil
	}
	var out []candidate
	for _, b := range blocks {
		block, ok := b.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, blockCandidates(block)...)
	}
	return out
}

func blockCandidates(block map[string]any) []candidate {
	typ, _ := block["type"].(string)
	if typ != "tool_use" {
		return nil
	}
	name, _ := block["name"].(string)
	if name == "" {
		return nil
	}
	input, _ := block["input"].(map[string]any)
	return []candidate{{name: name, input: input}}
}

// skillName pulls the capability name out of a tool-use input payload.
// Prefers the skill field; falls back to command. A match with neither
// contributes nothing.
func skillName(input map[string]any) string {
	if input == nil {
		return ""
	}
	if s, ok := input["skill"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	if s, ok := input["command"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return ""
}
