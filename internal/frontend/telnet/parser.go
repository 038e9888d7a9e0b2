package telnet

// NegotiationHost identifies which side a negotiated option takes effect
// on: LOCAL is this server (WILL/WONT sent by us, DO/DONT received from the
// peer), PEER is the remote (WILL/WONT received from it, DO/DONT sent by us).
type NegotiationHost int

const (
	HostLocal NegotiationHost = iota
	HostPeer
)

// StreamUpdate is the output of the StreamParser: a closed union of
// UserDataUpdate, OptionNegotiationUpdate, OptionSubnegotiationUpdate, and
// CommandUpdate.
type StreamUpdate interface {
	streamUpdate()
}

// UserDataUpdate is decoded 7-bit ASCII text with CRLF normalisation
// already applied.
type UserDataUpdate struct {
	Data string
}

func (UserDataUpdate) streamUpdate() {}

// OptionNegotiationUpdate reports a WILL/WONT/DO/DONT exchange.
type OptionNegotiationUpdate struct {
	Option byte
	Raw    byte
	Host   NegotiationHost
	State  bool
}

func (OptionNegotiationUpdate) streamUpdate() {}

// Accept returns a copy of this negotiation with identical fields — the
// canonical "I agree" reply.
func (n OptionNegotiationUpdate) Accept() OptionNegotiationUpdate {
	return n
}

// Refuse returns a copy of this negotiation with State inverted — the
// canonical "I decline" reply (WONT/DONT).
func (n OptionNegotiationUpdate) Refuse() OptionNegotiationUpdate {
	n.State = !n.State
	return n
}

// OptionSubnegotiationUpdate is emitted when a subnegotiation closes (IAC
// SE). Payload bytes between SB and SE are discarded in this revision.
type OptionSubnegotiationUpdate struct {
	Option byte
	Raw    byte
}

func (OptionSubnegotiationUpdate) streamUpdate() {}

// CommandUpdate is an unhandled command byte passed through to the
// consumer (e.g. IP, which Terminal handles specially).
type CommandUpdate struct {
	Code byte
	Raw  byte
}

func (CommandUpdate) streamUpdate() {}

type parserMode int

const (
	parserModeUser parserMode = iota
	parserModeSubnegotiation
)

// StreamParser consumes Tokens and produces StreamUpdates. It tracks
// subnegotiation framing and owns the incremental CRLF-unstuff + ASCII
// decode pipeline for the data channel.
//
// The zero value is ready to use. Not safe for concurrent use.
type StreamParser struct {
	mode    parserMode
	pending byte

	crlf *CRLFTransformer
}

// NewStreamParser returns a ready-to-use StreamParser.
func NewStreamParser() *StreamParser {
	return &StreamParser{crlf: &CRLFTransformer{}}
}

// Parse consumes a batch of Tokens (typically produced by one Tokenize
// call) and returns the StreamUpdates they yield, in order.
func (p *StreamParser) Parse(tokens []Token) []StreamUpdate {
	var updates []StreamUpdate
	for _, tok := range tokens {
		updates = append(updates, p.parseOne(tok)...)
	}
	return updates
}

func (p *StreamParser) parseOne(tok Token) []StreamUpdate {
	switch t := tok.(type) {
	case StreamDataToken:
		return p.parseStreamData(t.Data)
	case CommandToken:
		return p.parseCommand(t.Code)
	case OptionToken:
		return p.parseOption(t.Verb, t.Option)
	default:
		return nil
	}
}

func (p *StreamParser) parseStreamData(data []byte) []StreamUpdate {
	if p.mode == parserModeSubnegotiation {
		return nil
	}
	return p.decodeUserData(data)
}

// decodeUserData runs data through the CRLF unstuffer, then the 7-bit ASCII
// decoder (bytes >= 0x80 are silently dropped), emitting one UserDataUpdate
// per non-empty decoded chunk.
func (p *StreamParser) decodeUserData(data []byte) []StreamUpdate {
	var updates []StreamUpdate
	for _, chunk := range p.crlf.UnstuffNext(data) {
		decoded := decodeASCII(chunk)
		if len(decoded) > 0 {
			updates = append(updates, UserDataUpdate{Data: decoded})
		}
	}
	return updates
}

// decodeASCII passes through 7-bit bytes verbatim and silently drops any
// byte with the high bit set.
func decodeASCII(data []byte) string {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b < 0x80 {
			out = append(out, b)
		}
	}
	return string(out)
}

func (p *StreamParser) parseCommand(code byte) []StreamUpdate {
	switch code {
	case IAC:
		// Literal 0xFF re-enters the data path as a single byte, which the
		// ASCII decoder then silently drops (it is never valid ASCII).
		return p.parseStreamData([]byte{IAC})
	case SE:
		if p.mode == parserModeSubnegotiation {
			option := p.pending
			p.pending = 0
			p.mode = parserModeUser
			return []StreamUpdate{OptionSubnegotiationUpdate{Option: option, Raw: option}}
		}
		return []StreamUpdate{CommandUpdate{Code: code, Raw: code}}
	default:
		return []StreamUpdate{CommandUpdate{Code: code, Raw: code}}
	}
}

func (p *StreamParser) parseOption(verb, option byte) []StreamUpdate {
	if verb == SB {
		// An SB while already inside a subnegotiation overrides the
		// pending option and emits only one OptionSubnegotiationUpdate at
		// the eventual SE (see design notes: Open Question on nested SB).
		p.pending = option
		p.mode = parserModeSubnegotiation
		return nil
	}

	switch verb {
	case WILL:
		return []StreamUpdate{OptionNegotiationUpdate{Option: option, Raw: option, Host: HostPeer, State: true}}
	case WONT:
		return []StreamUpdate{OptionNegotiationUpdate{Option: option, Raw: option, Host: HostPeer, State: false}}
	case DO:
		return []StreamUpdate{OptionNegotiationUpdate{Option: option, Raw: option, Host: HostLocal, State: true}}
	case DONT:
		return []StreamUpdate{OptionNegotiationUpdate{Option: option, Raw: option, Host: HostLocal, State: false}}
	default:
		return nil
	}
}
