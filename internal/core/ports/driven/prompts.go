package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptChatAnswer answers a question from numbered history excerpts.
	// The template expects %s (context) then %s (question).
	PromptChatAnswer = "chat_answer"
)
