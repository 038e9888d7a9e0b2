package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func tokenizeAndParse(data []byte) []StreamUpdate {
	tz := &Tokenizer{}
	p := NewStreamParser()
	return p.Parse(tz.Tokenize(data))
}

func TestParseSimpleLine(t *testing.T) {
	updates := tokenizeAndParse([]byte("abc\r\n"))
	require.Len(t, updates, 1)
	assert.Equal(t, UserDataUpdate{Data: "abc\n"}, updates[0])
}

func TestParseCommandPassthrough(t *testing.T) {
	updates := tokenizeAndParse([]byte{'a', 'b', 'c', IAC, NOP})
	require.Len(t, updates, 2)
	assert.Equal(t, UserDataUpdate{Data: "abc"}, updates[0])
	assert.Equal(t, CommandUpdate{Code: NOP, Raw: NOP}, updates[1])
}

func TestParseEscapedIACDropped(t *testing.T) {
	// A literal 0xFF on the wire (IAC IAC) re-enters the data path as a
	// single byte, which is never valid 7-bit ASCII and is silently dropped.
	updates := tokenizeAndParse([]byte{'a', IAC, IAC, 'b'})
	require.Len(t, updates, 2)
	assert.Equal(t, UserDataUpdate{Data: "a"}, updates[0])
	assert.Equal(t, UserDataUpdate{Data: "b"}, updates[1])
}

// P4: option negotiation symmetry.
func TestPropertyOptionSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		option := byte(rapid.IntRange(0, 255).Draw(t, "option"))

		cases := []struct {
			verb  byte
			host  NegotiationHost
			state bool
		}{
			{WILL, HostPeer, true},
			{WONT, HostPeer, false},
			{DO, HostLocal, true},
			{DONT, HostLocal, false},
		}
		for _, c := range cases {
			updates := tokenizeAndParse([]byte{IAC, c.verb, option})
			if len(updates) != 1 {
				t.Fatalf("verb %d: expected 1 update, got %d: %#v", c.verb, len(updates), updates)
			}
			got, ok := updates[0].(OptionNegotiationUpdate)
			if !ok {
				t.Fatalf("verb %d: expected OptionNegotiationUpdate, got %T", c.verb, updates[0])
			}
			if got.Option != option || got.Host != c.host || got.State != c.state {
				t.Fatalf("verb %d: got %+v, want option=%d host=%v state=%v", c.verb, got, option, c.host, c.state)
			}
		}
	})
}

// P5: subnegotiation swallow — arbitrary interior bytes, exactly one
// OptionSubnegotiationUpdate, no user-data updates in between.
func TestPropertySubnegotiationSwallow(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		option := byte(rapid.IntRange(0, 255).Draw(t, "option"))
		n := rapid.IntRange(0, 12).Draw(t, "n")
		interior := make([]byte, n)
		for i := range interior {
			interior[i] = byte(rapid.IntRange(0, 255).Draw(t, "interior"))
			// Avoid accidentally encoding a real IAC SE inside the payload,
			// which would legitimately end the subnegotiation early.
			if interior[i] == IAC {
				interior[i] = 'x'
			}
		}

		data := []byte{IAC, SB, option}
		data = append(data, interior...)
		data = append(data, IAC, SE)

		updates := tokenizeAndParse(data)
		require.Len(t, updates, 1)
		got, ok := updates[0].(OptionSubnegotiationUpdate)
		require.True(t, ok, "expected OptionSubnegotiationUpdate, got %T", updates[0])
		assert.Equal(t, option, got.Option)
	})
}

func TestParseNestedSubnegotiationOverride(t *testing.T) {
	// IAC SB X ... IAC SB Y ... IAC SE: the second SB overrides the first,
	// and exactly one OptionSubnegotiationUpdate for Y is emitted.
	data := []byte{IAC, SB, 10, 1, 2, IAC, SB, 20, 3, 4, IAC, SE}
	updates := tokenizeAndParse(data)
	require.Len(t, updates, 1)
	assert.Equal(t, OptionSubnegotiationUpdate{Option: 20, Raw: 20}, updates[0])
}

func TestParseNoUserDataInsideSubnegotiation(t *testing.T) {
	data := []byte{IAC, SB, 5, 'h', 'i', IAC, SE}
	updates := tokenizeAndParse(data)
	require.Len(t, updates, 1)
	_, ok := updates[0].(OptionSubnegotiationUpdate)
	assert.True(t, ok)
}

func TestAcceptRefuse(t *testing.T) {
	n := OptionNegotiationUpdate{Option: 5, Raw: 5, Host: HostPeer, State: true}
	assert.Equal(t, n, n.Accept())
	r := n.Refuse()
	assert.Equal(t, OptionNegotiationUpdate{Option: 5, Raw: 5, Host: HostPeer, State: false}, r)
}
