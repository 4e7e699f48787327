package sanitize

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// LanguageProfile describes the lexical rules needed to turn raw generated
// text into a compilable source file for one target language: the fence
// tag the provider is asked to emit, the line-comment token used to
// neutralize non-code text, and a predicate marking lines that can never
// be legal in the language's grammar.
type LanguageProfile struct {
	Name        string
	DisplayName string
	FenceTag    string
	LineComment string
	FileExt     string

	// Illegal reports whether a trimmed code line must be commented out
	// because no legal program line can start that way.
	Illegal func(trimmed string) bool
}

// OpenFence returns the opening fence marker line for this language.
func (p LanguageProfile) OpenFence() string {
	return "```" + p.FenceTag
}

// Instruction returns the fixed suffix appended to the initial prompt to
// request code-only fenced output.
func (p LanguageProfile) Instruction() string {
	return fmt.Sprintf("Only output %s code. Do not give commentary.\n", p.DisplayName)
}

// CPP returns the C++ profile. Backtick-prefixed lines are markdown
// leakage, never valid C++.
func CPP() LanguageProfile {
	return LanguageProfile{
		Name:        "cpp",
		DisplayName: "C++",
		FenceTag:    "cpp",
		LineComment: "//",
		FileExt:     ".cpp",
		Illegal:     backtickPrefixed,
	}
}

// C returns the C profile.
func C() LanguageProfile {
	return LanguageProfile{
		Name:        "c",
		DisplayName: "C",
		FenceTag:    "c",
		LineComment: "//",
		FileExt:     ".c",
		Illegal:     backtickPrefixed,
	}
}

func backtickPrefixed(trimmed string) bool {
	return strings.HasPrefix(trimmed, "`")
}

// ProfileFor resolves a profile by its config name.
func ProfileFor(name string) (LanguageProfile, error) {
	switch name {
	case "", "cpp", "c++":
		return CPP(), nil
	case "c":
		return C(), nil
	default:
		return LanguageProfile{}, eris.Errorf("sanitize: unknown language %q", name)
	}
}
