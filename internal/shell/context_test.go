package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextStackGetSet(t *testing.T) {
	s := newContextStack()
	assert.Nil(t, s.Get("missing"))

	s.Set(map[string]any{"a": 1})
	assert.Equal(t, 1, s.Get("a"))
}

func TestContextStackPushInheritsThenIsolates(t *testing.T) {
	s := newContextStack()
	s.Set(map[string]any{"a": 1})

	s.Push(map[string]any{"b": 2})
	assert.Equal(t, 1, s.Get("a"), "pushed frame inherits the parent's values")
	assert.Equal(t, 2, s.Get("b"))

	s.Set(map[string]any{"a": 99})
	assert.Equal(t, 99, s.Get("a"), "mutating the pushed frame does not require a pop")
}

func TestContextStackPopDiscardsChildFrameMutations(t *testing.T) {
	s := newContextStack()
	s.Set(map[string]any{"a": 1})

	s.Push(map[string]any{"a": 2})
	assert.Equal(t, 2, s.Get("a"))

	s.Pop(nil)
	assert.Equal(t, 1, s.Get("a"), "popping restores the parent frame's value, unaffected by the child's mutation")
}

func TestContextStackPopMergesKVIntoRestoredFrame(t *testing.T) {
	s := newContextStack()
	s.Push(map[string]any{"a": 1})

	s.Pop(map[string]any{"b": 2})
	assert.Nil(t, s.Get("a"), "a was only set on the popped frame")
	assert.Equal(t, 2, s.Get("b"))
}

func TestContextStackPopAtRootKeepsRootFrame(t *testing.T) {
	s := newContextStack()
	s.Set(map[string]any{"a": 1})

	s.Pop(map[string]any{"c": 3})
	assert.Equal(t, 1, s.Get("a"), "root frame is never discarded")
	assert.Equal(t, 3, s.Get("c"))
}
