package telnet

import "strings"

// lineEntry is one queued record: annotations attached while the line was
// in progress, plus the completed line text (including its trailing '\n'),
// or an empty line for an annotation-only record.
type lineEntry struct {
	annotations []any
	line        string
}

// LineBuffer accumulates decoded user text into logical lines, carrying
// out-of-band annotations (e.g. a pending Timing-Mark reply) alongside the
// line they were attached to — or, if no line is in progress, delivering
// them immediately as an annotation-only record.
//
// Grounded directly on the original implementation's textutil.LineBuffer;
// see Annotate for the special case this preserves.
//
// The zero value is ready to use. Not safe for concurrent use.
type LineBuffer struct {
	queue       []lineEntry
	chars       strings.Builder
	annotations []any
}

// Append scans text for newlines. Each complete line (including its
// terminating '\n') is promoted to the queue along with any annotations
// accumulated since the last promotion. A trailing partial line remains in
// the scratch buffer.
func (b *LineBuffer) Append(text string) {
	for len(text) > 0 {
		nl := strings.IndexByte(text, '\n')
		if nl == -1 {
			b.chars.WriteString(text)
			return
		}
		b.chars.WriteString(text[:nl+1])
		text = text[nl+1:]
		b.push()
	}
}

// Annotate appends a to the in-progress annotations. If no line is
// currently in progress (the scratch buffer is empty), the annotation is
// pushed immediately as a line-less record instead of waiting for the next
// newline — this is how a Timing-Mark arriving right after an
// interrupt-triggered Clear still reaches the consumer promptly.
func (b *LineBuffer) Annotate(a any) {
	b.annotations = append(b.annotations, a)
	if b.chars.Len() == 0 {
		b.push()
	}
}

func (b *LineBuffer) push() {
	b.queue = append(b.queue, lineEntry{
		annotations: b.annotations,
		line:        b.chars.String(),
	})
	b.chars.Reset()
	b.annotations = nil
}

// HasLine reports whether a completed line (or annotation-only record) is
// available to Pop.
func (b *LineBuffer) HasLine() bool {
	return len(b.queue) > 0
}

// Pop removes and returns the oldest queued record. ok is false if the
// queue was empty.
func (b *LineBuffer) Pop() (annotations []any, line string, ok bool) {
	if len(b.queue) == 0 {
		return nil, "", false
	}
	entry := b.queue[0]
	b.queue = b.queue[1:]
	return entry.annotations, entry.line, true
}

// Clear drops everything queued plus the in-progress scratch line. The
// in-progress annotations accumulator is preserved, so an annotation that
// arrives immediately after a Clear (the IP+TM sequence) still surfaces.
func (b *LineBuffer) Clear() {
	b.queue = nil
	b.chars.Reset()
}
