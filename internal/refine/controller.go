package refine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/forgeworks/codesmith/internal/builder"
	"github.com/forgeworks/codesmith/internal/model"
	"github.com/forgeworks/codesmith/internal/report"
	"github.com/forgeworks/codesmith/internal/sanitize"
	"github.com/forgeworks/codesmith/pkg/llm"
)

// Config bounds a refinement session.
type Config struct {
	Model        string
	AttemptLimit int
	TimeBudget   time.Duration
	MaxTokens    int
	PromptName   string
	SourcePath   string
}

// Controller owns the generate-compile-repair loop. Each iteration blocks
// on one provider round trip and then one build invocation, strictly in
// that order; budgets are only checked between iterations, never
// preempting an in-flight call.
type Controller struct {
	provider  llm.Client
	builder   builder.Builder
	sanitizer *sanitize.Sanitizer
	progress  report.Progress
	cfg       Config
}

// New creates a Controller with all collaborators.
func New(provider llm.Client, b builder.Builder, s *sanitize.Sanitizer, progress report.Progress, cfg Config) *Controller {
	return &Controller{
		provider:  provider,
		builder:   b,
		sanitizer: s,
		progress:  progress,
		cfg:       cfg,
	}
}

// Run drives the session from the initial prompt to a terminal outcome.
// The returned error is reserved for environment-fatal conditions
// (provider unreachable, build tool missing); budget exhaustion is a
// normal outcome recorded on the session.
//
// The two budget checks are deliberately asymmetric, matching the
// behavior this tool replicates: the time budget is checked before
// requesting another generation, while the attempt limit is checked only
// after one has been requested and counted. The controller may therefore
// issue AttemptLimit+1 generations in total before giving up.
func (c *Controller) Run(ctx context.Context, userPrompt string) (*model.Session, error) {
	ext := filepath.Ext(c.cfg.SourcePath)
	base := c.cfg.SourcePath[:len(c.cfg.SourcePath)-len(ext)]
	session := model.NewSession(c.cfg.Model, c.cfg.AttemptLimit, c.cfg.TimeBudget, c.cfg.SourcePath, base)

	log := zap.L().With(
		zap.String("session_id", session.ID.String()),
		zap.String("model", c.cfg.Model),
	)
	log.Info("session starting",
		zap.Int("attempt_limit", c.cfg.AttemptLimit),
		zap.Duration("time_budget", c.cfg.TimeBudget),
	)

	prompt := initialPrompt(c.sanitizer.Profile, userPrompt)
	if err := c.generate(ctx, session, prompt); err != nil {
		return nil, err
	}

	for {
		attempt := session.LastAttempt()
		result, err := c.builder.Build(ctx, attempt.Source, attempt.Index, attempt.Index > 1)
		if err != nil {
			return nil, eris.Wrap(err, "refine: build")
		}
		session.ArtifactPath = result.ArtifactPath

		if result.Succeeded {
			session.ResolveLast(model.BuildSuccess, "")
			session.Outcome = model.OutcomeSucceeded
			log.Info("session succeeded", zap.Int("attempts", len(session.Attempts)))
			return session, nil
		}

		session.ResolveLast(model.BuildFailure, result.Diagnostic)
		c.progress.AttemptFailed(*session.LastAttempt())

		// Time is the higher-priority guard: it bounds external cost, so
		// it is checked before any further generation is considered.
		if session.TimeExhausted() {
			session.Outcome = model.OutcomeExhaustedTime
			log.Info("session exhausted time budget",
				zap.Duration("cumulative", session.CumulativeGenTime),
				zap.Int("attempts", len(session.Attempts)),
			)
			return session, nil
		}

		prompt = repairPrompt(c.sanitizer.Profile, attempt.Source, result.Diagnostic)
		if err := c.generate(ctx, session, prompt); err != nil {
			return nil, err
		}

		if len(session.Attempts) > session.AttemptLimit {
			session.Outcome = model.OutcomeExhaustedAttempts
			log.Info("session exhausted attempt limit",
				zap.Int("attempt_limit", session.AttemptLimit),
			)
			return session, nil
		}
	}
}

// generate performs one provider call, sanitizes the response, and
// records the resulting attempt on the session.
func (c *Controller) generate(ctx context.Context, session *model.Session, prompt string) error {
	result, err := c.provider.Generate(ctx, llm.Request{
		Model:     c.cfg.Model,
		Prompt:    prompt,
		MaxTokens: c.cfg.MaxTokens,
	})
	if err != nil {
		return eris.Wrap(err, "refine: generate")
	}

	clean := c.sanitizer.Sanitize(result.Text, sanitize.Meta{
		PromptName:     c.cfg.PromptName,
		Model:          c.cfg.Model,
		GeneratedAt:    time.Now(),
		GenerationTime: result.Latency,
	})

	session.RecordAttempt(model.Attempt{
		Source:         clean.Source,
		GenerationTime: result.Latency,
		LOC:            clean.LOC,
	})
	return nil
}
