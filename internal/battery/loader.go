package battery

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads and validates a battery from a YAML file.
func LoadFromFile(path string) (*Battery, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("battery: read %q: %w", path, err)
	}

	var bat Battery
	if err := yaml.Unmarshal(b, &bat); err != nil {
		return nil, fmt.Errorf("battery: parse %q: %w", path, err)
	}
	if err := Validate(&bat); err != nil {
		return nil, fmt.Errorf("battery: validate %q: %w", path, err)
	}
	return &bat, nil
}

// Validate checks a battery for consistency.
func Validate(bat *Battery) error {
	if bat == nil {
		return fmt.Errorf("nil battery")
	}
	if strings.TrimSpace(bat.Name) == "" {
		return fmt.Errorf("missing battery name")
	}
	if len(bat.Cases) == 0 {
		return fmt.Errorf("no cases")
	}

	seen := make(map[string]struct{}, len(bat.Cases))
	for i, c := range bat.Cases {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return fmt.Errorf("cases[%d]: missing id", i)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("cases[%d] (%s): duplicate id", i, id)
		}
		seen[id] = struct{}{}

		if strings.TrimSpace(c.Query) == "" {
			return fmt.Errorf("cases[%d] (%s): missing query", i, id)
		}
		if strings.TrimSpace(c.ExpectedSkill) == "" {
			return fmt.Errorf("cases[%d] (%s): missing expected_skill (use %q for negative cases)", i, id, ExpectNone)
		}
	}
	return nil
}
