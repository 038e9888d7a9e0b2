package telnet

// EchoState is the local (server-side ECHO) three-state negotiation state.
type EchoState int

const (
	EchoOff EchoState = iota
	EchoRequested
	EchoOn
)

// EchoFSM tracks the server-echo (option 1) negotiation: when the server
// wants to suppress client-side echo for password entry, it announces
// WILL ECHO. See SPEC_FULL.md §4.6 for the full transition table.
//
// The zero value (EchoOff) is ready to use. Not safe for concurrent use.
type EchoFSM struct {
	state EchoState
}

// State returns the current local echo state.
func (e *EchoFSM) State() EchoState {
	return e.state
}

// LocalRequest drives the local side of the negotiation: on(true) begins
// requesting the server announce WILL ECHO; on(false) requests WONT ECHO.
// It returns the OptionNegotiationUpdate to send, or ok=false for a no-op.
func (e *EchoFSM) LocalRequest(on bool) (reply OptionNegotiationUpdate, ok bool) {
	switch e.state {
	case EchoOff:
		if on {
			e.state = EchoRequested
			return echoReply(HostLocal, true), true
		}
		return OptionNegotiationUpdate{}, false
	case EchoRequested:
		if !on {
			return echoReply(HostLocal, false), true
		}
		return OptionNegotiationUpdate{}, false
	case EchoOn:
		if !on {
			e.state = EchoOff
			return echoReply(HostLocal, false), true
		}
		return OptionNegotiationUpdate{}, false
	default:
		return OptionNegotiationUpdate{}, false
	}
}

// PeerNegotiation handles an incoming OptionNegotiationUpdate for the ECHO
// option from the peer (callers should check Option == OptEcho before
// calling). HostPeer updates (WILL/WONT ECHO) are answered without touching
// the state; HostLocal updates (DO/DONT ECHO) drive the local state. It
// returns the reply to send, or ok=false if no reply is needed.
func (e *EchoFSM) PeerNegotiation(n OptionNegotiationUpdate) (reply OptionNegotiationUpdate, ok bool) {
	if n.Host == HostPeer {
		// Client-side echo is never something we want the client doing
		// while we're driving server-side echo; always refuse.
		if n.State {
			return n.Refuse(), true
		}
		return OptionNegotiationUpdate{}, false
	}

	// n.Host == HostLocal: the peer is telling us whether it wants us
	// (the server) to echo — DO ECHO / DONT ECHO.
	switch e.state {
	case EchoOff:
		if n.State {
			return n.Refuse(), true
		}
		return OptionNegotiationUpdate{}, false
	case EchoRequested:
		if n.State {
			e.state = EchoOn
		} else {
			e.state = EchoOff
		}
		return OptionNegotiationUpdate{}, false
	case EchoOn:
		if !n.State {
			e.state = EchoOff
			return n.Accept(), true
		}
		return OptionNegotiationUpdate{}, false
	default:
		return OptionNegotiationUpdate{}, false
	}
}

func echoReply(host NegotiationHost, state bool) OptionNegotiationUpdate {
	return OptionNegotiationUpdate{Option: OptEcho, Raw: OptEcho, Host: host, State: state}
}
