package builder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Native builds source files by invoking the configured compiler as an
// external process. It holds no state across calls; every invocation is a
// function of (source text, attempt index, archive flag) plus filesystem
// side effects.
type Native struct {
	compiler   string
	options    []string
	sourcePath string
	basePath   string
	fileExt    string
	suppress   bool
}

// NewNative creates a Native builder. basePath is the source path with
// its extension stripped; it names both the output binary and the
// numbered archive copies.
func NewNative(compiler string, options []string, sourcePath string, suppressDiagnostics bool) *Native {
	ext := filepath.Ext(sourcePath)
	return &Native{
		compiler:   compiler,
		options:    options,
		sourcePath: sourcePath,
		basePath:   sourcePath[:len(sourcePath)-len(ext)],
		fileExt:    ext,
		suppress:   suppressDiagnostics,
	}
}

// Command returns the exact argv used to invoke the compiler.
func (n *Native) Command() []string {
	args := []string{n.compiler}
	args = append(args, n.options...)
	return append(args, "-o", n.basePath, n.sourcePath)
}

// ArtifactPath returns where the built executable lands: the base name in
// the current directory, with the platform's executable suffix.
func (n *Native) ArtifactPath() string {
	ext := ""
	if runtime.GOOS == "windows" {
		ext = ".exe"
	}
	return "." + string(os.PathSeparator) + n.basePath + ext
}

// Build archives the prior source if requested, writes the new source,
// and runs the compiler synchronously. Diagnostics are always fully
// captured, even when suppressed from the console; the suppressed path
// routes stderr through a temp file that is removed on every return.
func (n *Native) Build(ctx context.Context, source string, attempt int, archivePrevious bool) (*CompileResult, error) {
	if archivePrevious {
		if err := n.archive(attempt); err != nil {
			return nil, err
		}
	}

	if err := os.WriteFile(n.sourcePath, []byte(source), 0o644); err != nil {
		return nil, eris.Wrapf(err, "builder: write %s", n.sourcePath)
	}

	argv := n.Command()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var diagnostic string
	var runErr error
	if n.suppress {
		diagnostic, runErr = n.runCaptured(cmd)
	} else {
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		runErr = cmd.Run()
		diagnostic = stderr.String()
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			zap.L().Debug("compile failed",
				zap.Int("attempt", attempt),
				zap.Int("exit_code", exitErr.ExitCode()),
			)
			return &CompileResult{Diagnostic: diagnostic, ArtifactPath: n.ArtifactPath()}, nil
		}
		return nil, eris.Wrapf(runErr, "builder: run %s", n.compiler)
	}

	return &CompileResult{Succeeded: true, Diagnostic: diagnostic, ArtifactPath: n.ArtifactPath()}, nil
}

// runCaptured runs cmd with stderr routed to a temp file, then reads it
// back. The file is removed before returning regardless of outcome.
func (n *Native) runCaptured(cmd *exec.Cmd) (string, error) {
	capture, err := os.CreateTemp(filepath.Dir(n.sourcePath), "codesmith-diag-*.txt")
	if err != nil {
		return "", eris.Wrap(err, "builder: create diagnostic capture file")
	}
	defer func() {
		capture.Close()
		os.Remove(capture.Name())
	}()

	cmd.Stderr = capture
	runErr := cmd.Run()

	data, readErr := os.ReadFile(capture.Name())
	if readErr != nil {
		if runErr != nil {
			return "", runErr
		}
		return "", eris.Wrap(readErr, "builder: read diagnostic capture file")
	}
	return string(data), runErr
}

// archive copies the current source to its numbered sibling before it is
// overwritten. The prior file must exist whenever archiving is requested;
// a missing file is a fatal inconsistency, not something to paper over.
func (n *Native) archive(attempt int) error {
	prev, err := os.ReadFile(n.sourcePath)
	if err != nil {
		return eris.Wrapf(err, "builder: archive attempt %d", attempt-1)
	}
	dst := n.basePath + strconv.Itoa(attempt-1) + n.fileExt
	if err := os.WriteFile(dst, prev, 0o644); err != nil {
		return eris.Wrapf(err, "builder: write archive %s", dst)
	}
	return nil
}
