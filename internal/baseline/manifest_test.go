package baseline

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSkill(t *testing.T, dir, name, content string) {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSkill(t, dir, "svelte-runes", `---
name: svelte-runes
description: "Svelte 5 runes reactivity"
---

# Svelte runes

Body text.
`)
	writeSkill(t, dir, "tailwind-styling", `# Tailwind styling

Utility-first CSS patterns for components.
`)
	// A directory without a SKILL.md is not a skill.
	if err := os.MkdirAll(filepath.Join(dir, "scratch"), 0o755); err != nil {
		t.Fatal(err)
	}
	// Loose files at the top level are ignored too.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	skills, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("skills = %+v", skills)
	}
	if skills[0].Name != "svelte-runes" || skills[0].Description != "Svelte 5 runes reactivity" {
		t.Fatalf("frontmatter description: %+v", skills[0])
	}
	if skills[1].Name != "tailwind-styling" || skills[1].Description != "Utility-first CSS patterns for components." {
		t.Fatalf("prose fallback description: %+v", skills[1])
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	t.Parallel()

	if _, err := LoadManifest(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("missing dir accepted")
	}
}

func TestLoadManifest_Empty(t *testing.T) {
	t.Parallel()

	if _, err := LoadManifest(t.TempDir()); err == nil {
		t.Fatal("empty dir accepted")
	}
}
