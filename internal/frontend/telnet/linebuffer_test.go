package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineBufferAppendAndPop(t *testing.T) {
	var b LineBuffer
	assert.False(t, b.HasLine())

	b.Append("hello")
	assert.False(t, b.HasLine(), "partial line without newline should not be ready")

	b.Append(" world\n")
	require.True(t, b.HasLine())

	annotations, line, ok := b.Pop()
	require.True(t, ok)
	assert.Nil(t, annotations)
	assert.Equal(t, "hello world\n", line)
	assert.False(t, b.HasLine())
}

func TestLineBufferMultipleLinesInOneAppend(t *testing.T) {
	var b LineBuffer
	b.Append("one\ntwo\nthr")

	_, line1, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, "one\n", line1)

	_, line2, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, "two\n", line2)

	assert.False(t, b.HasLine())
	b.Append("ee\n")
	_, line3, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, "three\n", line3)
}

func TestLineBufferAnnotateAttachesToInProgressLine(t *testing.T) {
	var b LineBuffer
	b.Append("partial")
	b.Annotate("marker")
	b.Append(" line\n")

	annotations, line, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, []any{"marker"}, annotations)
	assert.Equal(t, "partial line\n", line)
}

func TestLineBufferAnnotatePushesImmediatelyWhenEmpty(t *testing.T) {
	var b LineBuffer
	b.Annotate("urgent")

	require.True(t, b.HasLine())
	annotations, line, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, []any{"urgent"}, annotations)
	assert.Equal(t, "", line)
}

func TestLineBufferClear(t *testing.T) {
	var b LineBuffer
	b.Append("queued\n")
	b.Append("in progress")
	b.Clear()

	assert.False(t, b.HasLine())
	b.Append("\n")
	_, line, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, "\n", line)
}

func TestLineBufferPopEmpty(t *testing.T) {
	var b LineBuffer
	_, _, ok := b.Pop()
	assert.False(t, ok)
}
