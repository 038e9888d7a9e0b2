package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptManagerInitialRequireHasPrompt(t *testing.T) {
	m := NewPromptManager("> ")
	assert.Equal(t, "> ", m.RequireHasPrompt())
	assert.Equal(t, PromptAtPrompt, m.state)
}

func TestPromptManagerRequireHasPromptIsIdempotentAtPrompt(t *testing.T) {
	m := NewPromptManager("> ")
	m.RequireHasPrompt()
	assert.Equal(t, "", m.RequireHasPrompt())
}

func TestPromptManagerNoReemitAfterUserData(t *testing.T) {
	m := NewPromptManager("> ")
	m.RequireHasPrompt()
	m.MarkUserData()
	assert.Equal(t, PromptUserInput, m.state)
	assert.Equal(t, "", m.RequireHasPrompt())
}

func TestPromptManagerInterruptForcesFreshLine(t *testing.T) {
	m := NewPromptManager("> ")
	m.RequireHasPrompt()
	m.MarkUserData()
	m.MarkInterrupt()
	assert.Equal(t, PromptInterrupt, m.state)

	assert.Equal(t, "\n> ", m.RequireHasPrompt())
	assert.Equal(t, PromptAtPrompt, m.state)
}

func TestPromptManagerInterruptBeforeAnyPrompt(t *testing.T) {
	m := NewPromptManager("> ")
	m.MarkInterrupt()
	assert.Equal(t, "\n> ", m.RequireHasPrompt())
}
