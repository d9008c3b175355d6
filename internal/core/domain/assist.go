package domain

import (
	"fmt"
	"strings"
)

// SummaryMode selects what an AI card summarises.
type SummaryMode string

// Available summary modes.
const (
	// SummarySelf replaces the card's content with a summary of itself.
	SummarySelf SummaryMode = "self"

	// SummaryInputs appends a summary of every text-like card wired into it.
	SummaryInputs SummaryMode = "inputs"
)

// IsValid returns true if the summary mode is recognised.
func (m SummaryMode) IsValid() bool {
	return m == SummarySelf || m == SummaryInputs
}

// SummaryPrompt builds the user prompt for a summary.
func SummaryPrompt(mode SummaryMode, content string, inputs []string) string {
	if mode == SummarySelf {
		return "Summarize the following content:\n" + content
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Combine, analyse and summarize the core ideas of the following %d items:", len(inputs))
	for i, in := range inputs {
		fmt.Fprintf(&b, "\n%d. %s", i+1, in)
	}
	return b.String()
}

// summarySeparator divides earlier content from an appended summary.
const summarySeparator = "\n\n---\n\n"

// ApplySummary merges a completion result into the card content.
func ApplySummary(mode SummaryMode, content, result, model string) string {
	if mode == SummarySelf {
		return result
	}
	header := fmt.Sprintf("🤖 **AI Summary (%s)**:\n", model)
	if content == "" {
		return header + result
	}
	return content + summarySeparator + header + result
}

// AssistMode is a document assistant action.
type AssistMode string

// Available assistant modes.
const (
	AssistGenerate  AssistMode = "generate"
	AssistRewrite   AssistMode = "rewrite"
	AssistExpand    AssistMode = "expand"
	AssistSummarize AssistMode = "summarize"
	AssistTranslate AssistMode = "translate"
)

// AssistModes returns every assistant mode.
func AssistModes() []AssistMode {
	return []AssistMode{AssistGenerate, AssistRewrite, AssistExpand, AssistSummarize, AssistTranslate}
}

// IsValid returns true if the assistant mode is recognised.
func (m AssistMode) IsValid() bool {
	switch m {
	case AssistGenerate, AssistRewrite, AssistExpand, AssistSummarize, AssistTranslate:
		return true
	default:
		return false
	}
}

// UserPrompt wraps text for the mode. Generate treats text as an
// instruction; the rest treat it as the source passage.
func (m AssistMode) UserPrompt(text string) string {
	if m == AssistGenerate {
		return "Instruction: " + text
	}
	return fmt.Sprintf("Source text:\n\"%s\"\n\nPlease %s it.", text, m)
}

// SaveStatus is what a UI shows next to the project name.
type SaveStatus int

// Save states.
const (
	StatusSaved SaveStatus = iota
	StatusUnsaved
	StatusSaving
)

// String returns the label shown to users.
func (s SaveStatus) String() string {
	switch s {
	case StatusUnsaved:
		return "unsaved"
	case StatusSaving:
		return "saving"
	default:
		return "saved"
	}
}
