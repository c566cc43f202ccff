package battery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeBattery(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "battery.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := writeBattery(t, `
battery: custom
cases:
  - id: c-001
    query: "How do I use $state?"
    expected_skill: svelte-runes
  - id: c-002
    query: "What's for dinner?"
    expected_skill: none
    description: negative case
`)

	bat, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if bat.Name != "custom" {
		t.Fatalf("name = %q, want custom", bat.Name)
	}
	if len(bat.Cases) != 2 {
		t.Fatalf("cases = %d, want 2", len(bat.Cases))
	}
	if bat.Cases[0].IsNegative() {
		t.Fatal("c-001 should be positive")
	}
	if !bat.Cases[1].IsNegative() {
		t.Fatal("c-002 should be negative")
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	t.Parallel()

	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bat     Battery
		wantErr string
	}{
		{
			name:    "missing name",
			bat:     Battery{Cases: []Case{{ID: "a", Query: "q", ExpectedSkill: "s"}}},
			wantErr: "missing battery name",
		},
		{
			name:    "no cases",
			bat:     Battery{Name: "b"},
			wantErr: "no cases",
		},
		{
			name: "duplicate id",
			bat: Battery{Name: "b", Cases: []Case{
				{ID: "a", Query: "q", ExpectedSkill: "s"},
				{ID: "a", Query: "q2", ExpectedSkill: "s"},
			}},
			wantErr: "duplicate id",
		},
		{
			name:    "missing query",
			bat:     Battery{Name: "b", Cases: []Case{{ID: "a", ExpectedSkill: "s"}}},
			wantErr: "missing query",
		},
		{
			name:    "missing expected skill",
			bat:     Battery{Name: "b", Cases: []Case{{ID: "a", Query: "q"}}},
			wantErr: "missing expected_skill",
		},
		{
			name: "valid",
			bat: Battery{Name: "b", Cases: []Case{
				{ID: "a", Query: "q", ExpectedSkill: ExpectNone},
			}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(&tt.bat)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCanonicalBatteries(t *testing.T) {
	t.Parallel()

	baseline := Baseline()
	hard := Hard()
	for _, bat := range []Battery{baseline, hard} {
		b := bat
		if err := Validate(&b); err != nil {
			t.Fatalf("%s: %v", b.Name, err)
		}
	}

	// The two canonical lists must be disjoint.
	ids := make(map[string]struct{})
	for _, c := range baseline.Cases {
		ids[c.ID] = struct{}{}
	}
	for _, c := range hard.Cases {
		if _, ok := ids[c.ID]; ok {
			t.Fatalf("case id %q appears in both batteries", c.ID)
		}
	}

	// Baseline is all-positive; hard carries negatives.
	for _, c := range baseline.Cases {
		if c.IsNegative() {
			t.Fatalf("baseline case %q is negative", c.ID)
		}
	}
	negatives := 0
	for _, c := range hard.Cases {
		if c.IsNegative() {
			negatives++
		}
	}
	if negatives == 0 {
		t.Fatal("hard battery has no negative cases")
	}
}
