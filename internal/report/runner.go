package report

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
)

// ExecResult captures one run of the built artifact.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ArtifactRunner executes a built artifact once with a fixed stdin. It is
// a narrow seam so reporter tests never spawn real processes.
type ArtifactRunner interface {
	Run(ctx context.Context, path, stdin string) (*ExecResult, error)
}

type execRunner struct{}

// NewArtifactRunner returns an ArtifactRunner backed by os/exec.
func NewArtifactRunner() ArtifactRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, path, stdin string) (*ExecResult, error) {
	cmd := exec.CommandContext(ctx, path)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, eris.Wrapf(err, "report: run artifact %s", path)
	}
	return result, nil
}
