package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/hookbench/internal/config"
	"github.com/stellarlinkco/hookbench/internal/runner"
	"github.com/stellarlinkco/hookbench/internal/sandbox"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	root := &cobra.Command{
		Use:           "hookbench",
		Short:         "Measure skill activation across hook configurations",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", "", "path to config file (default "+config.DefaultPath+")")

	root.AddCommand(newRunCmd(st))
	root.AddCommand(newCompareCmd(st))
	root.AddCommand(newBaselineCmd(st))
	root.AddCommand(newListCmd())
	root.AddCommand(newHistoryCmd(st))
	root.AddCommand(newServeCmd(st))
	return root
}

func loadConfig(st *cliState) error {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	st.cfg = cfg
	return nil
}

// requireSandboxCredential rejects a missing provisioning key before any
// sandbox work starts.
func requireSandboxCredential(cfg *config.Config) error {
	if strings.TrimSpace(cfg.Sandbox.APIKey) == "" {
		return fmt.Errorf("%w (set SANDBOX_API_KEY or sandbox.api_key in the config file)", sandbox.ErrMissingCredential)
	}
	return nil
}

func buildSandboxClient(cfg *config.Config) *sandbox.Client {
	var opts []sandbox.Option
	if cfg.Sandbox.BaseURL != "" {
		opts = append(opts, sandbox.WithBaseURL(cfg.Sandbox.BaseURL))
	}
	return sandbox.NewClient(cfg.Sandbox.APIKey, opts...)
}

func buildRunner(sb *sandbox.Client, cfg *config.Config) *runner.Runner {
	return runner.New(sb, runner.Config{
		MonitorTimeout: cfg.Evaluation.MonitorTimeout,
		WaitSlack:      cfg.Evaluation.WaitSlack,
	})
}

func buildAssets(cfg *config.Config) sandbox.Assets {
	return sandbox.Assets{
		SkillsDir: cfg.Assets.SkillsDir,
		HooksDir:  cfg.Assets.HooksDir,
	}
}
