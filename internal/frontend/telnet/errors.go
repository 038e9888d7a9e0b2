package telnet

import "errors"

// ErrConnectionClosed is returned by Terminal.Input/InputSecret when the
// peer closes the connection (EOF) before a line is available. The core
// never retries I/O; the caller is expected to log and tear the connection
// down.
var ErrConnectionClosed = errors.New("telnet: connection closed by peer")

// ErrEncoding is returned when outbound UserData contains a byte outside
// 7-bit ASCII. Fatal for the Write/WriteDrain call that produced it.
var ErrEncoding = errors.New("telnet: outbound data is not 7-bit ASCII")

// ErrProtocol is reserved for future strict validation of malformed
// subnegotiations. The current parser is "garbage in, garbage out" and
// never returns this error; it is exported so callers may type-assert
// against it without a breaking change if stricter validation is added.
var ErrProtocol = errors.New("telnet: protocol violation")

// ErrTransport wraps an underlying socket I/O failure that is neither a
// clean EOF nor an encoding problem.
var ErrTransport = errors.New("telnet: transport error")
