package baseline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/stellarlinkco/hookbench/internal/battery"
	"github.com/stellarlinkco/hookbench/internal/runner"
)

// ConfigID labels probe results so they can sit next to hook configuration
// results in the same tables.
const ConfigID = "baseline-api"

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	skillToolName    = "Skill"
	maxRetries       = 3
	retryBaseDelay   = time.Second
	apiVersionHeader = "2023-06-01"
	maxTokens        = 1024
)

// Option configures a Prober.
type Option func(*Prober)

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(p *Prober) {
		if model = strings.TrimSpace(model); model != "" {
			p.model = model
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(p *Prober) {
		p.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Prober) {
		if hc != nil {
			p.httpClient = hc
		}
	}
}

// Prober asks the model to pick a skill for a query with the skill library
// offered as a tool.
type Prober struct {
	model      string
	baseURL    string
	httpClient *http.Client
	client     anthropic.Client

	now func() time.Time
}

// NewProber builds a Prober. The key falls back to ANTHROPIC_API_KEY via
// the SDK when empty.
func NewProber(apiKey string, opts ...Option) *Prober {
	p := &Prober{
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	sdkOpts := []option.RequestOption{
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(0),
		option.WithHeader("anthropic-version", apiVersionHeader),
	}
	if strings.TrimSpace(apiKey) != "" {
		sdkOpts = append(sdkOpts, option.WithAPIKey(apiKey))
	}
	if p.baseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(p.baseURL))
	}
	p.client = anthropic.NewClient(sdkOpts...)
	return p
}

// Probe runs one case and never returns an error: failures are recorded on
// the result, matching the sandbox runner's contract.
func (p *Prober) Probe(ctx context.Context, skills []Skill, c battery.Case) runner.TestResult {
	res := runner.TestResult{
		CaseID:          c.ID,
		ConfigID:        ConfigID,
		Query:           c.Query,
		ExpectedSkill:   c.ExpectedSkill,
		ActivatedSkills: []string{},
	}
	if p == nil {
		res.Error = "baseline: nil prober"
		return res
	}
	start := p.now()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{{
			Text: systemPrompt(skills),
			Type: "text",
		}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(c.Query)),
		},
		Tools: []anthropic.ToolUnionParam{skillTool(skills)},
	}

	msg, err := p.complete(ctx, params)
	res.LatencyMs = p.now().Sub(start).Milliseconds()
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.ActivatedSkills = selectedSkills(msg)
	res.Activated = len(res.ActivatedSkills) > 0
	res.Correct = score(c, res.ActivatedSkills)
	return res
}

// RunBattery probes every case sequentially.
func (p *Prober) RunBattery(ctx context.Context, skills []Skill, bat battery.Battery) []runner.TestResult {
	out := make([]runner.TestResult, 0, len(bat.Cases))
	for _, c := range bat.Cases {
		out = append(out, p.Probe(ctx, skills, c))
	}
	return out
}

func (p *Prober) complete(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	for attempt := 0; ; attempt++ {
		msg, err := p.client.Messages.New(ctx, params)
		if err == nil {
			return msg, nil
		}
		if !shouldRetry(err) || attempt >= maxRetries {
			return nil, fmt.Errorf("baseline: messages request: %w", err)
		}
		if err := sleepWithContext(ctx, retryBaseDelay*time.Duration(1<<attempt)); err != nil {
			return nil, err
		}
	}
}

func systemPrompt(skills []Skill) string {
	var sb strings.Builder
	sb.WriteString("You are a coding assistant with access to specialized skills. ")
	sb.WriteString("When the user's request matches one of the skills below, invoke the Skill tool with that skill's name. ")
	sb.WriteString("When no skill applies, answer directly without using the tool.\n\nAvailable skills:\n")
	for _, s := range skills {
		fmt.Fprintf(&sb, "- %s: %s\n", s.Name, s.Description)
	}
	return sb.String()
}

func skillTool(skills []Skill) anthropic.ToolUnionParam {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	tool := anthropic.ToolParam{
		Name:        skillToolName,
		Description: param.NewOpt("Activate a specialized skill for the user's request."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Type: "object",
			Properties: map[string]any{
				"skill": map[string]any{
					"type": "string",
					"enum": names,
				},
			},
			Required: []string{"skill"},
		},
	}
	return anthropic.ToolUnionParam{OfTool: &tool}
}

func selectedSkills(msg *anthropic.Message) []string {
	if msg == nil {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, block := range msg.Content {
		if block.Type != "tool_use" {
			continue
		}
		tool := block.AsToolUse()
		if tool.Name != skillToolName {
			continue
		}
		var input struct {
			Skill string `json:"skill"`
		}
		if err := json.Unmarshal(tool.Input, &input); err != nil {
			continue
		}
		if name := strings.TrimSpace(input.Skill); name != "" {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func score(c battery.Case, activated []string) bool {
	if c.IsNegative() {
		return len(activated) == 0
	}
	for _, s := range activated {
		if s == c.ExpectedSkill {
			return true
		}
	}
	return false
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var sdkErr *anthropic.Error
	if errors.As(err, &sdkErr) {
		return sdkErr.StatusCode >= 500 && sdkErr.StatusCode <= 599
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
