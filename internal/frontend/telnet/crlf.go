package telnet

import "bytes"

// crlfState is the state of the incremental CR/LF unstuffer (C1).
type crlfState int

const (
	crlfText crlfState = iota
	crlfCR
)

// CRLFTransformer implements the bidirectional CR-LF "stuffing" required on
// the Telnet data sub-stream: a bare CR is transmitted as CR NUL, and CR LF
// is the canonical end-of-line (RFC 854 §5).
//
// The zero value is ready to use. An instance is single-owner and not safe
// for concurrent use.
type CRLFTransformer struct {
	state crlfState
}

// Stuff escapes a run of outbound data: every CR becomes CR NUL, then every
// LF becomes CR LF. Order matters — CR is escaped first so that the CRs
// introduced by the LF step are not themselves escaped.
func Stuff(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b == crByte {
			out = append(out, crByte, nulByte)
		} else {
			out = append(out, b)
		}
	}

	stuffed := make([]byte, 0, len(out)+len(out)/4)
	for _, b := range out {
		if b == lfByte {
			stuffed = append(stuffed, crByte, lfByte)
		} else {
			stuffed = append(stuffed, b)
		}
	}
	return stuffed
}

// UnstuffNext consumes data left to right and returns the normalised output
// chunks produced from it. State (a trailing bare CR) is preserved across
// calls so a split between CR and its following byte is always resumable.
func (t *CRLFTransformer) UnstuffNext(data []byte) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		var consumed int
		var chunk []byte
		switch t.state {
		case crlfText:
			consumed, chunk = t.unstuffText(data)
		case crlfCR:
			consumed, chunk = t.unstuffCR(data)
		}
		data = data[consumed:]
		if chunk != nil {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

func (t *CRLFTransformer) unstuffText(data []byte) (int, []byte) {
	i := bytes.IndexByte(data, crByte)
	if i == -1 {
		return len(data), data
	}
	t.state = crlfCR
	return i + 1, data[:i]
}

func (t *CRLFTransformer) unstuffCR(data []byte) (int, []byte) {
	b := data[0]
	switch b {
	case lfByte:
		t.state = crlfText
		return 1, []byte{lfByte}
	case nulByte:
		t.state = crlfText
		return 1, []byte{crByte}
	default:
		t.state = crlfText
		return 0, []byte{crByte}
	}
}

