package telnet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStuffUserData(t *testing.T) {
	var s StreamStuffer
	out, err := s.Stuff(UserDataItem{Data: "hi\n"})
	require.NoError(t, err)
	assert.Equal(t, []byte("hi\r\n"), out)
}

func TestStuffUserDataRejectsNonASCII(t *testing.T) {
	var s StreamStuffer
	_, err := s.Stuff(UserDataItem{Data: "h\xc3\xa9"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncoding))
}

func TestStuffNegotiationVerbs(t *testing.T) {
	var s StreamStuffer
	cases := []struct {
		n    OptionNegotiationUpdate
		want []byte
	}{
		{OptionNegotiationUpdate{Option: 1, Raw: 1, Host: HostLocal, State: true}, []byte{IAC, WILL, 1}},
		{OptionNegotiationUpdate{Option: 1, Raw: 1, Host: HostLocal, State: false}, []byte{IAC, WONT, 1}},
		{OptionNegotiationUpdate{Option: 42, Raw: 42, Host: HostPeer, State: true}, []byte{IAC, DO, 42}},
		{OptionNegotiationUpdate{Option: 42, Raw: 42, Host: HostPeer, State: false}, []byte{IAC, DONT, 42}},
	}
	for _, c := range cases {
		out, err := s.Stuff(c.n)
		require.NoError(t, err)
		assert.Equal(t, c.want, out)
	}
}

// P3: stuffer output never contains an unpaired 0xFF for ASCII input (the
// IAC-stuff step is the identity on pure ASCII, since 0xFF is never ASCII).
func TestPropertyStufferNeverEmitsUnpairedIAC(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[\x20-\x7e\n\r]{0,40}`).Draw(t, "s")
		var stuffer StreamStuffer
		out, err := stuffer.Stuff(UserDataItem{Data: s})
		if err != nil {
			t.Fatalf("unexpected error for ASCII input: %v", err)
		}
		for i, b := range out {
			if b == IAC {
				if i+1 >= len(out) || out[i+1] != IAC {
					t.Fatalf("unpaired IAC at offset %d in %v", i, out)
				}
			}
		}
	})
}
