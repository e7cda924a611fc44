package sim

// An EndpointAddress is a string that identifies a sender or receiver for
// a Channel.
type EndpointAddress string

// A Datagram is a piece of information that is transferred between
// endpoints. The payload is an immutable byte sequence; ownership transfers
// to the channel on send and the sender retains no reference afterwards.
type Datagram struct {
	ID       string
	Src, Dst EndpointAddress
	Payload  []byte
}

// Clone returns a copy of the datagram with a fresh ID and its own copy of
// the payload bytes.
func (d Datagram) Clone() Datagram {
	cloned := d
	cloned.ID = GetIDGenerator().Generate()
	cloned.Payload = append([]byte(nil), d.Payload...)

	return cloned
}

// A SendError happens when a channel cannot deliver a datagram, for
// example when the destination is unreachable or an endpoint is closed.
type SendError struct {
	msg string
}

// NewSendError creates a SendError.
func NewSendError(msg string) *SendError {
	e := new(SendError)
	e.msg = msg
	return e
}

// Error returns the reason for the send failure.
func (e *SendError) Error() string {
	return e.msg
}

// A ReceiveHandler is invoked by a channel when a datagram arrives at the
// endpoint the handler is registered for. The handler is given the datagram
// (carrying the payload and the sending endpoint) and the virtual time of
// delivery. Handlers must not block; the scheduling model is cooperative
// and single-threaded.
type ReceiveHandler func(d Datagram, now VTimeInSec)

// A Channel abstracts datagram delivery between endpoints. The core only
// requires this narrow contract; radio modeling, medium access and
// addressing live behind it.
type Channel interface {
	Named

	// Send hands a datagram to the channel for delivery to d.Dst. A non-nil
	// SendError reports that the channel rejected the datagram.
	Send(d Datagram) *SendError

	// RegisterReceiveHandler associates the handler with the endpoint.
	// There is exactly one handler per endpoint; re-registration replaces
	// the prior handler.
	RegisterReceiveHandler(endpoint EndpointAddress, h ReceiveHandler)

	// CloseEndpoint closes an endpoint. Subsequent sends from or to the
	// endpoint fail. Closing an unknown or already-closed endpoint is a
	// no-op.
	CloseEndpoint(endpoint EndpointAddress)
}
