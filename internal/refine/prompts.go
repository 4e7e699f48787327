package refine

import (
	"fmt"

	"github.com/forgeworks/codesmith/internal/sanitize"
)

// initialPrompt appends the fixed code-only instruction to the user's
// prompt so the provider answers with a fenced block.
func initialPrompt(p sanitize.LanguageProfile, userPrompt string) string {
	return userPrompt + p.Instruction()
}

// repairPrompt embeds the full failing source and the compiler diagnostic
// verbatim. Every repair prompt is strictly larger than the last, so the
// provider never sees an identical request twice.
func repairPrompt(p sanitize.LanguageProfile, source, diagnostic string) string {
	return fmt.Sprintf(
		"The following %s code failed to compile: \n```%s\n%s\n```\nError: %s\nPlease fix the code and return it in a ```%s``` block.",
		p.DisplayName, p.FenceTag, source, diagnostic, p.FenceTag,
	)
}
