package sanitize

import (
	"fmt"
	"strings"
	"time"
)

// Meta carries the provenance recorded in the generated file's header.
type Meta struct {
	PromptName     string
	Model          string
	GeneratedAt    time.Time
	GenerationTime time.Duration
}

// Result is the sanitized source plus its non-blank line count.
type Result struct {
	Source string
	LOC    int
}

// Sanitizer turns raw provider output into a compiler-safe source string.
// It is total over its input: malformed text degrades to an empty program
// (all comments) that fails the next build and triggers one more repair
// round, rather than an error.
type Sanitizer struct {
	Profile LanguageProfile
}

// New creates a Sanitizer for the given language profile.
func New(profile LanguageProfile) *Sanitizer {
	return &Sanitizer{Profile: profile}
}

// Sanitize extracts the fenced code block from raw text, neutralizes
// everything else as comments, and prefixes a provenance header.
//
// If an opening fence line is found, every line up to and including it is
// commented and the candidate code runs from the next line to the closing
// fence (exclusive); anything after the closing fence is discarded and the
// returned source holds only the fenced interior. With no opening fence
// the whole text is commented and becomes the candidate code, yielding a
// deliberately empty program. Within the candidate code, lines the
// profile marks illegal (markdown echoed inside the fence) are commented
// out as well.
func (s *Sanitizer) Sanitize(raw string, meta Meta) Result {
	p := s.Profile
	lines := strings.Split(raw, "\n")

	openIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == p.OpenFence() {
			openIdx = i
			break
		}
	}

	var code []string
	if openIdx >= 0 {
		for i := 0; i <= openIdx; i++ {
			lines[i] = commentLine(lines[i], p.LineComment)
		}
		for _, line := range lines[openIdx+1:] {
			if strings.TrimSpace(line) == "```" {
				break
			}
			code = append(code, line)
		}
	} else {
		code = make([]string, len(lines))
		for i, line := range lines {
			code[i] = commentLine(line, p.LineComment)
		}
	}

	loc := 0
	for i, line := range code {
		if p.Illegal != nil && p.Illegal(strings.TrimSpace(line)) {
			code[i] = p.LineComment + line
		}
		if strings.TrimSpace(code[i]) != "" {
			loc++
		}
	}

	return Result{
		Source: header(p, meta) + strings.Join(code, "\n"),
		LOC:    loc,
	}
}

// commentLine prefixes a line with the comment token unless it already
// carries one, so re-sanitizing commented text never double-prefixes.
func commentLine(line, token string) string {
	if strings.HasPrefix(line, token) {
		return line
	}
	return token + line
}

func header(p LanguageProfile, meta Meta) string {
	c := p.LineComment
	return fmt.Sprintf(
		"%s Generated from prompt file: %s\n%s Model used: %s\n%s Time generated: %s\n%s Generation time: %.3f seconds\n",
		c, meta.PromptName,
		c, meta.Model,
		c, meta.GeneratedAt.Format("2006-01-02 15:04:05"),
		c, meta.GenerationTime.Seconds(),
	)
}
