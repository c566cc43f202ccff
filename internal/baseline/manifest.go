// Package baseline probes skill selection through the messages API
// directly, without a sandbox or hooks, as a reference point for the hook
// configurations.
package baseline

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const skillFileName = "SKILL.md"

// Skill is one entry of the local skill library.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadManifest reads the skill library layout used in the sandbox: one
// subdirectory per skill, each holding a SKILL.md.
func LoadManifest(dir string) ([]Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("baseline: read skills dir: %w", err)
	}

	var out []Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		desc, err := readDescription(filepath.Join(dir, entry.Name(), skillFileName))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("baseline: skill %s: %w", entry.Name(), err)
		}
		out = append(out, Skill{Name: entry.Name(), Description: desc})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("baseline: no skills found in %s", dir)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// readDescription pulls a one-line description from SKILL.md: the
// frontmatter description field when present, otherwise the first prose
// line.
func readDescription(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	inFrontmatter := false
	first := true
	var fallback string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			if line == "---" {
				inFrontmatter = true
				continue
			}
		}
		if inFrontmatter {
			if line == "---" {
				inFrontmatter = false
				continue
			}
			if rest, ok := strings.CutPrefix(line, "description:"); ok {
				return strings.Trim(strings.TrimSpace(rest), `"`), nil
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if fallback == "" {
			fallback = line
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return fallback, nil
}
