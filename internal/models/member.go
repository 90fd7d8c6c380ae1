package models

// Address identifies an account. It is supplied by the hosting environment
// and treated as an opaque key.
type Address string

// String returns the address as a plain string.
func (a Address) String() string {
	return string(a)
}

// Member is an address registered in the safe.
// Members may withdraw funds and add other members.
type Member struct {
	// Address is the member's identity.
	Address Address

	// AddedAt is the Unix timestamp when the member was first registered.
	// Founding members share the construction time.
	AddedAt int64
}

// State is the persisted state a safe is restored from.
type State struct {
	// Members is the full registry, in no particular order.
	Members []Member

	// Balance is the net of all journaled deposits and withdrawals.
	Balance uint64

	// LastSeq is the sequence number of the newest journaled event (0 if none).
	LastSeq int64
}
