package main

import (
	"fmt"
	"strings"

	"github.com/stellarlinkco/hookbench/internal/battery"
)

// resolveBattery picks the battery to run: an external YAML file when given,
// otherwise one of the built-in batteries by name.
func resolveBattery(name, file string) (battery.Battery, error) {
	if strings.TrimSpace(file) != "" {
		bat, err := battery.LoadFromFile(file)
		if err != nil {
			return battery.Battery{}, err
		}
		return *bat, nil
	}

	switch strings.TrimSpace(name) {
	case "", "baseline":
		return battery.Baseline(), nil
	case "hard":
		return battery.Hard(), nil
	default:
		return battery.Battery{}, fmt.Errorf("unknown battery %q (expected baseline|hard, or use --battery-file)", name)
	}
}
