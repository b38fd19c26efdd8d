package planner

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"gohan-planner/internal/apperr"
	"gohan-planner/internal/llm"
	"gohan-planner/internal/logger"
	"gohan-planner/internal/mealplan"
	"gohan-planner/internal/shared"

	"golang.org/x/sync/singleflight"
)

//go:embed system_prompt.md
var systemPrompt string

// UserMessage is the fixed request sent along with the system prompt.
const UserMessage = "今週の夕食献立7日分と買い物リストを作成してください。"

const (
	agentName = "WeeklyPlanner"
	flightKey = "weekly-plan"
)

// DefaultTimeout bounds a single upstream generation call.
const DefaultTimeout = 2 * time.Minute

// MetaRecorder persists the metadata of every upstream call.
type MetaRecorder interface {
	RecordMeta(ctx context.Context, meta shared.AgentMeta) error
}

// Options configures a Generator.
type Options struct {
	// CredentialName is reported when no text generator is configured.
	CredentialName string
	Timeout        time.Duration
	Recorder       MetaRecorder
	Logger         *logger.Logger
}

// Generator asks the configured model for a weekly plan.
type Generator struct {
	textGen        llm.TextGenerator
	credentialName string
	timeout        time.Duration
	recorder       MetaRecorder
	log            *logger.Logger
	group          singleflight.Group
}

type flightResult struct {
	content string
	meta    shared.AgentMeta
}

// NewGenerator creates a Generator. textGen may be nil, in which case every
// call fails with a configuration error.
func NewGenerator(textGen llm.TextGenerator, opts Options) *Generator {
	g := &Generator{
		textGen:        textGen,
		credentialName: opts.CredentialName,
		timeout:        opts.Timeout,
		recorder:       opts.Recorder,
		log:            opts.Logger,
	}
	if g.credentialName == "" {
		g.credentialName = "GEMINI_API_KEY"
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if g.log == nil {
		g.log = logger.Nop()
	}
	return g
}

// SystemPrompt returns the instruction sent with every request.
func SystemPrompt() string {
	return systemPrompt
}

// GenerateWeeklyPlan performs one model call and returns the parsed plan. The
// plan is normalized but carries no weekOf and is not persisted. Concurrent
// callers share a single upstream call.
func (g *Generator) GenerateWeeklyPlan(ctx context.Context) (*mealplan.WeeklyPlan, shared.AgentMeta, error) {
	if g.textGen == nil {
		return nil, shared.AgentMeta{AgentName: agentName}, apperr.Newf(apperr.KindConfiguration, "", "%s が設定されていません。", g.credentialName)
	}

	ch := g.group.DoChan(flightKey, func() (any, error) {
		return g.call(context.WithoutCancel(ctx))
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, shared.AgentMeta{AgentName: agentName}, apperr.Upstream("", ctx.Err())
	case res = <-ch:
	}

	fr, _ := res.Val.(flightResult)
	if res.Err != nil {
		return nil, fr.meta, res.Err
	}

	plan, err := ParsePlan(fr.content)
	if err != nil {
		return nil, fr.meta, err
	}

	if problems := mealplan.Validate(plan); len(problems) > 0 {
		g.log.Warn("generated plan does not match expected shape", "problems", problems)
	}

	return plan, fr.meta, nil
}

func (g *Generator) call(ctx context.Context) (flightResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.textGen.GenerateContent(ctx, systemPrompt, UserMessage)
	meta := shared.AgentMeta{
		AgentName: agentName,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	switch {
	case err != nil:
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("generation timed out after %s: %w", g.timeout, err)
		}
		err = apperr.Upstream("", err)
	case strings.TrimSpace(resp.Content) == "":
		err = apperr.Upstream("", errors.New("empty response from model"))
	default:
		if _, perr := ParsePlan(resp.Content); perr != nil {
			err = perr
		} else {
			meta.Success = true
		}
	}

	g.record(meta)
	if err != nil {
		g.log.Error("weekly plan generation failed", "error", err, "latency", meta.Latency)
		return flightResult{meta: meta}, err
	}

	g.log.Info("weekly plan generated",
		"model", meta.Usage.Model,
		"prompt_tokens", meta.Usage.PromptTokens,
		"completion_tokens", meta.Usage.CompletionTokens,
		"latency", meta.Latency,
	)
	return flightResult{content: resp.Content, meta: meta}, nil
}

func (g *Generator) record(meta shared.AgentMeta) {
	if g.recorder == nil {
		return
	}
	// The caller's deadline may already be spent; metrics get their own.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.recorder.RecordMeta(ctx, meta); err != nil {
		g.log.Warn("failed to record generation metrics", "error", err)
	}
}
