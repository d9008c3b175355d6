package driven

// PromptStore provides access to the system prompts sent with completion
// requests. Implementations may load prompts from files or embed them.
type PromptStore interface {
	// Load returns the prompt for the given name.
	// Unknown names are an error; known names fall back to a default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names. Prompts are plain system prompts without
// format placeholders; user text travels in the user message.
const (
	// PromptNodeSummary is used when an AI card summarises itself or its inputs.
	PromptNodeSummary = "node_summary"

	// PromptDocGenerate drafts new document text from an instruction.
	PromptDocGenerate = "doc_generate"

	// PromptDocRewrite polishes selected text.
	PromptDocRewrite = "doc_rewrite"

	// PromptDocExpand elaborates selected text.
	PromptDocExpand = "doc_expand"

	// PromptDocSummarize lists the key points of selected text.
	PromptDocSummarize = "doc_summarize"

	// PromptDocTranslate translates selected text.
	PromptDocTranslate = "doc_translate"
)

// PromptNames returns every well-known prompt name.
func PromptNames() []string {
	return []string{
		PromptNodeSummary,
		PromptDocGenerate,
		PromptDocRewrite,
		PromptDocExpand,
		PromptDocSummarize,
		PromptDocTranslate,
	}
}
