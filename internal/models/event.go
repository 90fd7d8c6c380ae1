package models

// EventKind names the type of a safe notification.
type EventKind string

const (
	// EventDeposit is emitted for every value transfer into the safe.
	EventDeposit EventKind = "deposit"
	// EventWithdrawal is emitted for every successful withdraw or withdraw-all.
	EventWithdrawal EventKind = "withdrawal"
	// EventMemberAdded is emitted for every successful add-member call.
	EventMemberAdded EventKind = "member_added"
)

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	switch k {
	case EventDeposit, EventWithdrawal, EventMemberAdded:
		return true
	}
	return false
}

// Event is an immutable record of a committed safe operation.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Seq is the event's position in the journal, assigned on append.
	// Events are emitted in ascending Seq order.
	Seq int64

	// Kind is the type of operation that produced the event.
	Kind EventKind

	// Address is the sender of a deposit, the receiver of a withdrawal,
	// or the member that was added.
	Address Address

	// Amount is the transferred value. Always zero for EventMemberAdded.
	Amount uint64

	// Time is the Unix timestamp when the operation was included.
	Time int64
}
