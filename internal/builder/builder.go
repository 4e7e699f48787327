package builder

import "context"

// CompileResult is the outcome of one build invocation. It is produced
// and consumed within a single loop iteration.
type CompileResult struct {
	Succeeded    bool
	Diagnostic   string
	ArtifactPath string
}

// Builder abstracts the native build tool so the refinement controller
// can be tested against scripted results instead of a real compiler.
//
// A non-zero compiler exit is a recoverable failure reported through
// CompileResult; a returned error means the build tool itself could not
// run (missing binary, unwritable source path) and is fatal for the whole
// session — regenerating code cannot fix a broken toolchain.
type Builder interface {
	Build(ctx context.Context, source string, attempt int, archivePrevious bool) (*CompileResult, error)
	Command() []string
}
