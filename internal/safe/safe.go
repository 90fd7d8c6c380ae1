// Package safe implements the family safe: a shared balance guarded by a
// registry of trusted members.
//
// Anyone may deposit. Only members may withdraw or add new members, and any
// single member may do so on their own. Members are never removed.
//
// All operations are serialized by one mutex and either commit completely or
// leave the safe untouched. A mutating operation journals its event through
// the Ledger, performs any payout through the Transferer, commits the ledger
// transaction, and only then updates in-memory state and notifies observers.
package safe

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/familysafe/internal/models"
)

// Snapshot is the safe state observers see after a commit.
type Snapshot struct {
	Balance uint64
	Members int
}

// Observer is called after every committed operation, in commit order.
// Observers run while the safe is locked and must not call back into it.
type Observer func(ev models.Event, snap Snapshot)

// Option configures a Safe.
type Option func(*Safe)

// WithLedger journals every operation to l and restores state from it.
func WithLedger(l Ledger) Option {
	return func(s *Safe) { s.ledger = l }
}

// WithTransferer sets the mechanism that pays withdrawals out.
func WithTransferer(t Transferer) Option {
	return func(s *Safe) { s.transferer = t }
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Safe) { s.now = now }
}

// WithObserver registers o to be notified of every committed event.
func WithObserver(o Observer) Option {
	return func(s *Safe) { s.observers = append(s.observers, o) }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Safe) { s.logger = l }
}

// Safe is a membership-gated custodial balance.
type Safe struct {
	mu      sync.Mutex
	members map[models.Address]struct{}
	balance uint64

	ledger     Ledger
	transferer Transferer
	now        func() time.Time
	observers  []Observer
	logger     *slog.Logger
}

// New returns a safe backed by the configured ledger.
//
// If the ledger already holds members, the journaled registry and balance are
// restored and founders is ignored. Otherwise the registry is seeded with
// founders, which must not be empty. Duplicate founders are harmless.
func New(ctx context.Context, founders []models.Address, opts ...Option) (*Safe, error) {
	s := &Safe{
		members:    make(map[models.Address]struct{}),
		ledger:     &memoryLedger{},
		transferer: acceptAll,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := s.ledger.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load safe state: %w", err)
	}

	if len(state.Members) > 0 {
		for _, m := range state.Members {
			s.members[m.Address] = struct{}{}
		}
		s.balance = state.Balance
		s.logger.Info("Safe restored",
			"members", len(s.members),
			"balance", s.balance,
			"last_seq", state.LastSeq,
		)
		return s, nil
	}

	if len(founders) == 0 {
		return nil, ErrNoMembers
	}
	if err := s.seed(ctx, founders); err != nil {
		return nil, err
	}
	s.logger.Info("Safe created", "members", len(s.members))
	return s, nil
}

// seed writes the founding members in a single transaction.
func (s *Safe) seed(ctx context.Context, founders []models.Address) error {
	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	addedAt := s.now().Unix()
	for _, addr := range founders {
		if err := tx.AddMember(ctx, models.Member{Address: addr, AddedAt: addedAt}); err != nil {
			return fmt.Errorf("failed to record founding member: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit founding members: %w", err)
	}

	for _, addr := range founders {
		s.members[addr] = struct{}{}
	}
	return nil
}

// AcceptDeposit records amount transferred into the safe by sender.
// Deposits are open to everyone, and zero-value deposits are still recorded.
func (s *Safe) AcceptDeposit(ctx context.Context, sender models.Address, amount uint64) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount > math.MaxUint64-s.balance {
		return models.Event{}, ErrBalanceOverflow
	}

	ev := s.newEvent(models.EventDeposit, sender, amount)
	if err := s.commit(ctx, &ev, nil); err != nil {
		return models.Event{}, err
	}

	s.balance += amount
	s.notify(ev)
	return ev, nil
}

// Withdraw pays amount to receiver on behalf of caller.
// The receiver may be any address, not only the caller.
func (s *Safe) Withdraw(ctx context.Context, caller, receiver models.Address, amount uint64) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isMember(caller) {
		return models.Event{}, ErrUnauthorized
	}
	if amount > s.balance {
		return models.Event{}, ErrInsufficientFunds
	}
	return s.payout(ctx, receiver, amount)
}

// WithdrawAll pays the whole balance to receiver on behalf of caller.
// An empty safe still succeeds and emits a zero-amount withdrawal.
func (s *Safe) WithdrawAll(ctx context.Context, caller, receiver models.Address) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isMember(caller) {
		return models.Event{}, ErrUnauthorized
	}
	return s.payout(ctx, receiver, s.balance)
}

// payout must be called with s.mu held and amount <= s.balance.
func (s *Safe) payout(ctx context.Context, receiver models.Address, amount uint64) (models.Event, error) {
	ev := s.newEvent(models.EventWithdrawal, receiver, amount)
	err := s.commit(ctx, &ev, func(context.Context, LedgerTx) error {
		// The transfer alone honors the caller's cancellation
		if err := s.transferer.Transfer(ctx, receiver, amount); err != nil {
			return fmt.Errorf("%w: %v", ErrTransferRejected, err)
		}
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}

	s.balance -= amount
	s.notify(ev)
	return ev, nil
}

// AddFamilyMember registers member on behalf of caller.
// Adding an existing member succeeds and emits the event again.
func (s *Safe) AddFamilyMember(ctx context.Context, caller, member models.Address) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isMember(caller) {
		return models.Event{}, ErrUnauthorized
	}

	ev := s.newEvent(models.EventMemberAdded, member, 0)
	err := s.commit(ctx, &ev, func(ledgerCtx context.Context, tx LedgerTx) error {
		if err := tx.AddMember(ledgerCtx, models.Member{Address: member, AddedAt: ev.Time}); err != nil {
			return fmt.Errorf("failed to record member: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}

	s.members[member] = struct{}{}
	s.notify(ev)
	return ev, nil
}

// IsFamilyMember reports whether addr is in the registry.
func (s *Safe) IsFamilyMember(addr models.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isMember(addr)
}

// Balance returns the current balance.
func (s *Safe) Balance() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Members returns the registry sorted by address.
func (s *Safe) Members() []models.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Address, 0, len(s.members))
	for addr := range s.members {
		out = append(out, addr)
	}
	slices.Sort(out)
	return out
}

// Snapshot returns the current balance and member count.
func (s *Safe) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Safe) isMember(addr models.Address) bool {
	_, ok := s.members[addr]
	return ok
}

func (s *Safe) snapshot() Snapshot {
	return Snapshot{Balance: s.balance, Members: len(s.members)}
}

func (s *Safe) newEvent(kind models.EventKind, addr models.Address, amount uint64) models.Event {
	return models.Event{
		ID:      uuid.New().String(),
		Kind:    kind,
		Address: addr,
		Amount:  amount,
		Time:    s.now().Unix(),
	}
}

// commit journals ev, runs effect inside the same ledger transaction, and
// commits. Any error leaves the ledger unchanged.
//
// The ledger transaction ignores cancellation of ctx: once a payout has left,
// a disconnecting caller must not be able to abort the journal entry for it.
func (s *Safe) commit(ctx context.Context, ev *models.Event, effect func(ledgerCtx context.Context, tx LedgerTx) error) error {
	ledgerCtx := context.WithoutCancel(ctx)

	tx, err := s.ledger.Begin(ledgerCtx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.AppendEvent(ledgerCtx, ev); err != nil {
		return fmt.Errorf("failed to journal %s event: %w", ev.Kind, err)
	}
	if effect != nil {
		if err := effect(ledgerCtx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		if ev.Kind == models.EventWithdrawal {
			// The payout already left; the journal no longer matches reality.
			s.logger.Error("Ledger commit failed after payout",
				"event_id", ev.ID,
				"receiver", ev.Address,
				"amount", ev.Amount,
				"error", err,
			)
		}
		return fmt.Errorf("failed to commit %s event: %w", ev.Kind, err)
	}
	return nil
}

func (s *Safe) notify(ev models.Event) {
	snap := s.snapshot()
	for _, o := range s.observers {
		o(ev, snap)
	}
}
