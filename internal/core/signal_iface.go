package core

// Frame is an encoded outbound message, ready for the wire.
type Frame []byte

// SignalConnection abstracts the per-client messaging transport.
// Owned by the adapter; the adapter must Close() it. TrySend must never
// block: a connection that cannot keep up reports an error instead.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
