package safe

import "errors"

var (
	// ErrUnauthorized is returned when a non-member calls a member-only operation.
	ErrUnauthorized = errors.New("only family members")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrTransferRejected is returned when the receiving party refuses a payout.
	ErrTransferRejected = errors.New("transfer rejected")
	// ErrBalanceOverflow is returned when a deposit would overflow the balance.
	ErrBalanceOverflow = errors.New("balance overflow")
	// ErrNoMembers is returned when a safe is constructed without founders.
	ErrNoMembers = errors.New("at least one founding member is required")
)
