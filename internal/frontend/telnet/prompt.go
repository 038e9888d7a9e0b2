package telnet

// PromptState tracks re-display discipline for the current prompt.
type PromptState int

const (
	PromptNone PromptState = iota
	PromptAtPrompt
	PromptUserInput
	PromptInterrupt
)

// PromptManager decides when a prompt needs to be (re-)emitted: once at the
// start of an Input call, and again after an out-of-band event (interrupt,
// timing mark) that would otherwise leave the user looking at a stale
// line.
//
// A PromptManager is scoped to a single Input/InputSecret call; Terminal
// creates one per call and discards it when the call returns.
type PromptManager struct {
	state  PromptState
	prompt string
}

// NewPromptManager returns a PromptManager for the given prompt text,
// starting in PromptNone.
func NewPromptManager(prompt string) *PromptManager {
	return &PromptManager{prompt: prompt}
}

// RequireHasPrompt returns the bytes that must be written to bring the
// display to PromptAtPrompt, advancing the state accordingly. It returns
// an empty string if the prompt is already displayed or has already been
// consumed by user input.
func (m *PromptManager) RequireHasPrompt() string {
	switch m.state {
	case PromptAtPrompt, PromptUserInput:
		return ""
	case PromptNone:
		m.state = PromptAtPrompt
		return m.prompt
	default: // PromptInterrupt, or any other non-displayed state
		m.state = PromptAtPrompt
		return "\n" + m.prompt
	}
}

// MarkUserData transitions to PromptUserInput: at least one user byte has
// been received since the prompt was last (re-)emitted.
func (m *PromptManager) MarkUserData() {
	m.state = PromptUserInput
}

// MarkInterrupt transitions to PromptInterrupt, forcing the next
// RequireHasPrompt call to re-emit the prompt on a fresh line.
func (m *PromptManager) MarkInterrupt() {
	m.state = PromptInterrupt
}
