package telnet

import (
	"bytes"
	"fmt"
)

// WriteItem is the closed union of outbound semantic items the
// StreamStuffer understands: UserDataItem and OptionNegotiationUpdate (the
// parser's own negotiation type doubles as its outbound counterpart, since
// a reply is structurally identical to the update that provoked it).
type WriteItem interface {
	writeItem()
}

// UserDataItem is outbound text for the data channel.
type UserDataItem struct {
	Data string
}

func (UserDataItem) writeItem() {}

func (OptionNegotiationUpdate) writeItem() {}

// StreamStuffer is the inverse of the Tokenizer+StreamParser pair: it turns
// semantic outbound items into wire bytes.
//
// The zero value is ready to use. Not safe for concurrent use.
type StreamStuffer struct{}

// Stuff serialises a single WriteItem to wire bytes.
//
// A UserDataItem containing any byte >= 0x80 causes Stuff to return
// ErrEncoding; the core never silently mangles outbound text.
func (StreamStuffer) Stuff(item WriteItem) ([]byte, error) {
	switch v := item.(type) {
	case UserDataItem:
		return stuffUserData(v.Data)
	case OptionNegotiationUpdate:
		return stuffNegotiation(v), nil
	default:
		return nil, fmt.Errorf("telnet: unknown write item %T", item)
	}
}

func stuffUserData(s string) ([]byte, error) {
	raw := []byte(s)
	for _, b := range raw {
		if b >= 0x80 {
			return nil, fmt.Errorf("%w: byte 0x%02x in outbound user data", ErrEncoding, b)
		}
	}
	stuffed := Stuff(raw)
	// IAC-stuff: a no-op for pure ASCII, but required for correctness
	// should non-ASCII control bytes ever reach this path unexpectedly.
	return bytes.ReplaceAll(stuffed, []byte{IAC}, []byte{IAC, IAC}), nil
}

func stuffNegotiation(n OptionNegotiationUpdate) []byte {
	var verb byte
	switch {
	case n.Host == HostLocal && n.State:
		verb = WILL
	case n.Host == HostLocal && !n.State:
		verb = WONT
	case n.Host == HostPeer && n.State:
		verb = DO
	default:
		verb = DONT
	}
	return []byte{IAC, verb, n.Raw}
}
