package safe

import (
	"context"
	"log/slog"

	"github.com/mmynk/familysafe/internal/models"
)

// Ledger is the durable journal behind a Safe.
// This abstraction lets the safe run in memory for tests or on top of a
// database in production without changing its logic.
type Ledger interface {
	// LoadState returns the journaled registry and balance.
	// An empty Members slice means the ledger has never been seeded.
	LoadState(ctx context.Context) (models.State, error)

	// Begin opens a transaction. Nothing written through it is visible
	// until Commit.
	Begin(ctx context.Context) (LedgerTx, error)
}

// LedgerTx is a single ledger transaction.
type LedgerTx interface {
	// AppendEvent journals ev and assigns ev.Seq.
	AppendEvent(ctx context.Context, ev *models.Event) error

	// AddMember records a member. Adding an existing member is a no-op.
	AddMember(ctx context.Context, member models.Member) error

	Commit() error

	// Rollback discards the transaction. It is safe to call after Commit.
	Rollback() error
}

// Transferer moves value out of the safe to a receiver.
// It is supplied by the hosting environment.
type Transferer interface {
	// Transfer pays amount to the receiver. A non-nil error means the
	// receiving party rejected the payout and nothing was moved.
	Transfer(ctx context.Context, receiver models.Address, amount uint64) error
}

// TransferFunc adapts a function to the Transferer interface.
type TransferFunc func(ctx context.Context, receiver models.Address, amount uint64) error

// Transfer calls f(ctx, receiver, amount).
func (f TransferFunc) Transfer(ctx context.Context, receiver models.Address, amount uint64) error {
	return f(ctx, receiver, amount)
}

// acceptAll is the default transferer: every payout succeeds.
var acceptAll = TransferFunc(func(ctx context.Context, receiver models.Address, amount uint64) error {
	slog.DebugContext(ctx, "Payout accepted without transferer", "receiver", receiver, "amount", amount)
	return nil
})

// memoryLedger keeps nothing: state lives only in the Safe.
type memoryLedger struct {
	seq int64
}

func (l *memoryLedger) LoadState(context.Context) (models.State, error) {
	return models.State{}, nil
}

func (l *memoryLedger) Begin(context.Context) (LedgerTx, error) {
	return &memoryTx{ledger: l, seq: l.seq}, nil
}

type memoryTx struct {
	ledger *memoryLedger
	seq    int64
}

func (tx *memoryTx) AppendEvent(_ context.Context, ev *models.Event) error {
	tx.seq++
	ev.Seq = tx.seq
	return nil
}

func (tx *memoryTx) AddMember(context.Context, models.Member) error {
	return nil
}

func (tx *memoryTx) Commit() error {
	tx.ledger.seq = tx.seq
	return nil
}

func (tx *memoryTx) Rollback() error {
	return nil
}
