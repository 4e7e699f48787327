package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/forgeworks/codesmith/internal/model"
)

// artifactStdin is the single fixed input line fed to the built artifact.
const artifactStdin = "5\n"

// Progress receives per-attempt events while the refinement loop runs.
type Progress interface {
	AttemptFailed(a model.Attempt)
}

// Options controls what the reporter prints.
type Options struct {
	PrintCode       bool
	RunExecutable   bool
	ShowDiagnostics bool
}

// Reporter formats progress and outcome messages for the console and,
// on success, optionally executes the built artifact.
type Reporter struct {
	out    io.Writer
	opts   Options
	runner ArtifactRunner
}

// New creates a Reporter writing to out.
func New(out io.Writer, opts Options, runner ArtifactRunner) *Reporter {
	return &Reporter{out: out, opts: opts, runner: runner}
}

// Start announces the session's prompt and model.
func (r *Reporter) Start(modelID, prompt string) {
	fmt.Fprintf(r.out, "prompt:\n%s\n", prompt)
	fmt.Fprintf(r.out, "model: %s\n\n", modelID)
}

// AttemptFailed reports a failed build attempt. Compiler diagnostics are
// withheld when suppression is configured, but the attempt metadata is
// reported either way.
func (r *Reporter) AttemptFailed(a model.Attempt) {
	if r.opts.ShowDiagnostics {
		fmt.Fprintf(r.out, "Attempt %d failed with error (generation time: %.3f seconds, LOC=%d): %s\n",
			a.Index, a.GenerationTime.Seconds(), a.LOC, a.Diagnostic)
		return
	}
	fmt.Fprintf(r.out, "Attempt %d failed (error details suppressed, generation time: %.3f seconds, LOC=%d)\n",
		a.Index, a.GenerationTime.Seconds(), a.LOC)
}

// Summarize renders the session's terminal outcome and the exact build
// command used. Budget exhaustion is an expected ending of a bounded
// search, reported in the same calm register as success.
func (r *Reporter) Summarize(ctx context.Context, s *model.Session, command []string) {
	switch s.Outcome {
	case model.OutcomeSucceeded:
		r.summarizeSuccess(ctx, s)
	case model.OutcomeExhaustedTime:
		fmt.Fprintf(r.out, "Max generation time (%g seconds) exceeded after %d %s.\n",
			s.TimeBudget.Seconds(), len(s.Attempts), plural(len(s.Attempts)))
		r.printLastCode(s)
		fmt.Fprintf(r.out, "\nTotal generation time: %.3f seconds\n", s.CumulativeGenTime.Seconds())
	case model.OutcomeExhaustedAttempts:
		fmt.Fprintf(r.out, "Max attempts (%d) reached.\n", s.AttemptLimit)
		r.printLastCode(s)
		fmt.Fprintf(r.out, "Total generation time: %.3f seconds\n", s.CumulativeGenTime.Seconds())
	}

	fmt.Fprintf(r.out, "\nCompilation command: %s\n", strings.Join(command, " "))
}

func (r *Reporter) summarizeSuccess(ctx context.Context, s *model.Session) {
	last := s.LastAttempt()
	fmt.Fprintf(r.out, "Code compiled successfully after %d %s (generation time: %.3f seconds, LOC=%d)!\n",
		len(s.Attempts), plural(len(s.Attempts)), last.GenerationTime.Seconds(), last.LOC)

	if r.opts.PrintCode {
		fmt.Fprintf(r.out, "Final version:\n\n%s\n", last.Source)
	}

	if r.opts.RunExecutable {
		r.runArtifact(ctx, s)
	} else {
		fmt.Fprintf(r.out, "\nSkipping execution as per config (run_executable: no)\n")
	}

	fmt.Fprintf(r.out, "\nTotal generation time: %.3f seconds across %d %s\n",
		s.CumulativeGenTime.Seconds(), len(s.Attempts), plural(len(s.Attempts)))
}

func (r *Reporter) runArtifact(ctx context.Context, s *model.Session) {
	path := s.ArtifactPath
	if path == "" {
		path = "." + string(os.PathSeparator) + s.BaseName
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(r.out, "\nExecutable not found at %s. Ensure compilation succeeded.\n", path)
		return
	}

	fmt.Fprintf(r.out, "Running executable: %s\n", path)
	result, err := r.runner.Run(ctx, path, artifactStdin)
	if err != nil {
		fmt.Fprintf(r.out, "\nExecution failed with error: %v\n", err)
		return
	}
	if result.ExitCode != 0 {
		fmt.Fprintf(r.out, "\nExecution failed with error: %s\n", result.Stderr)
		return
	}
	fmt.Fprintf(r.out, "\nOutput:\n%s\n", result.Stdout)
}

func (r *Reporter) printLastCode(s *model.Session) {
	if !r.opts.PrintCode {
		return
	}
	if last := s.LastAttempt(); last != nil {
		fmt.Fprintf(r.out, "Last code:\n%s\n", last.Source)
	}
}

func plural(n int) string {
	if n == 1 {
		return "attempt"
	}
	return "attempts"
}
