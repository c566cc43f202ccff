package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stellarlinkco/hookbench/internal/hookcfg"
)

const (
	remoteConfigDir  = "/root/.claude"
	remoteSkillsDir  = remoteConfigDir + "/skills"
	remoteHooksDir   = remoteConfigDir + "/hooks"
	remoteSettings   = remoteConfigDir + "/settings.json"
	setupExecTimeout = 60 * time.Second
)

// Assets names the local trees uploaded into every sandbox.
type Assets struct {
	SkillsDir string
	HooksDir  string
}

// Setup brings a fresh sandbox to the state described by cfg: directory
// structure, skills and hooks bundles, extra files, then the settings
// document. Settings are written last so bundle extraction cannot clobber
// them. Idempotent.
func Setup(ctx context.Context, c *Client, h Handle, cfg hookcfg.Config, assets Assets) error {
	if c == nil {
		return fmt.Errorf("sandbox: nil client")
	}

	mkdir := fmt.Sprintf("mkdir -p %s %s", remoteSkillsDir, remoteHooksDir)
	if res, err := c.Exec(ctx, h, mkdir, setupExecTimeout); err != nil {
		return fmt.Errorf("sandbox: setup %s: mkdir: %w", cfg.ID, err)
	} else if res.ExitCode != 0 {
		return fmt.Errorf("sandbox: setup %s: mkdir exited %d: %s", cfg.ID, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	if err := installBundle(ctx, c, h, assets.SkillsDir, remoteSkillsDir); err != nil {
		return fmt.Errorf("sandbox: setup %s: skills bundle: %w", cfg.ID, err)
	}
	if err := installBundle(ctx, c, h, assets.HooksDir, remoteHooksDir); err != nil {
		return fmt.Errorf("sandbox: setup %s: hooks bundle: %w", cfg.ID, err)
	}

	for _, f := range cfg.ExtraFiles {
		content, err := os.ReadFile(f.Source)
		if err != nil {
			return fmt.Errorf("sandbox: setup %s: read extra file %q: %w", cfg.ID, f.Source, err)
		}
		if err := c.WriteFile(ctx, h, f.Destination, content, 0o755); err != nil {
			return fmt.Errorf("sandbox: setup %s: install %q: %w", cfg.ID, f.Destination, err)
		}
	}

	settings, err := json.MarshalIndent(cfg.Settings, "", "  ")
	if err != nil {
		return fmt.Errorf("sandbox: setup %s: marshal settings: %w", cfg.ID, err)
	}
	if err := c.WriteFile(ctx, h, remoteSettings, settings, 0o644); err != nil {
		return fmt.Errorf("sandbox: setup %s: write settings: %w", cfg.ID, err)
	}
	return nil
}

// installBundle packs a local tree and extracts it at dest inside the
// sandbox. A missing local tree is skipped silently.
func installBundle(ctx context.Context, c *Client, h Handle, localDir, dest string) error {
	data, ok, err := PackDir(localDir)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	remoteTar := fmt.Sprintf("/tmp/bundle-%d.tgz", time.Now().UnixNano())
	if err := c.WriteFile(ctx, h, remoteTar, data, 0o644); err != nil {
		return err
	}

	extract := fmt.Sprintf("tar -xzf %s -C %s && rm -f %s", remoteTar, dest, remoteTar)
	res, err := c.Exec(ctx, h, extract, setupExecTimeout)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("extract exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// With provisions a sandbox, hands it to fn, and guarantees exactly one
// teardown attempt on every exit path. Teardown runs even when ctx is
// already canceled. A teardown failure after fn succeeded is reported as
// ErrTeardown so callers can keep fn's work; fn's own error always wins.
func With(ctx context.Context, c *Client, template string, fn func(Handle) error) (err error) {
	if c == nil {
		return fmt.Errorf("sandbox: nil client")
	}
	if fn == nil {
		return fmt.Errorf("sandbox: nil callback")
	}

	h, err := c.Create(ctx, template)
	if err != nil {
		return err
	}
	defer func() {
		if derr := c.Delete(context.WithoutCancel(ctx), h); derr != nil && err == nil {
			err = fmt.Errorf("%w: %v", ErrTeardown, derr)
		}
	}()

	return fn(h)
}
