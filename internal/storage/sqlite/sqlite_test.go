package sqlite

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/safe"
	"github.com/mmynk/familysafe/internal/storage"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "familysafe-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, dbPath
}

func appendEvents(t *testing.T, store *SQLiteStore, events ...*models.Event) {
	t.Helper()
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Rollback()

	for _, ev := range events {
		if err := tx.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	t.Run("LoadState on empty database", func(t *testing.T) {
		state, err := store.LoadState(ctx)
		if err != nil {
			t.Fatalf("LoadState failed: %v", err)
		}
		if len(state.Members) != 0 || state.Balance != 0 || state.LastSeq != 0 {
			t.Errorf("expected empty state, got %+v", state)
		}
	})

	t.Run("AppendEvent assigns increasing sequence numbers", func(t *testing.T) {
		first := &models.Event{ID: "ev-1", Kind: models.EventDeposit, Address: "0xD", Amount: 100, Time: 1}
		second := &models.Event{ID: "ev-2", Kind: models.EventWithdrawal, Address: "0xB", Amount: 40, Time: 2}
		appendEvents(t, store, first, second)

		if first.Seq == 0 {
			t.Error("Expected first event Seq to be assigned")
		}
		if second.Seq <= first.Seq {
			t.Errorf("Seq not increasing: %d then %d", first.Seq, second.Seq)
		}
	})

	t.Run("ListEvents returns events in journal order", func(t *testing.T) {
		events, err := store.ListEvents(ctx, 0, 0)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("Expected 2 events, got %d", len(events))
		}
		if events[0].ID != "ev-1" || events[0].Kind != models.EventDeposit || events[0].Amount != 100 {
			t.Errorf("Unexpected first event: %+v", events[0])
		}
		if events[1].Address != "0xB" || events[1].Time != 2 {
			t.Errorf("Unexpected second event: %+v", events[1])
		}
	})

	t.Run("ListEvents pages by sequence", func(t *testing.T) {
		all, err := store.ListEvents(ctx, 0, 0)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}

		page, err := store.ListEvents(ctx, 0, 1)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(page) != 1 || page[0].Seq != all[0].Seq {
			t.Errorf("First page mismatch: %+v", page)
		}

		rest, err := store.ListEvents(ctx, page[0].Seq, 10)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(rest) != 1 || rest[0].Seq != all[1].Seq {
			t.Errorf("Second page mismatch: %+v", rest)
		}
	})

	t.Run("Rolled back events are discarded", func(t *testing.T) {
		tx, err := store.Begin(ctx)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		ev := &models.Event{ID: "ev-rollback", Kind: models.EventDeposit, Address: "0xD", Amount: 5, Time: 3}
		if err := tx.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Fatalf("Rollback failed: %v", err)
		}

		events, err := store.ListEvents(ctx, 0, 0)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(events) != 2 {
			t.Errorf("Expected 2 events after rollback, got %d", len(events))
		}
	})

	t.Run("Rollback after Commit is a no-op", func(t *testing.T) {
		tx, err := store.Begin(ctx)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Errorf("Rollback after Commit returned %v", err)
		}
	})

	t.Run("AddMember is idempotent", func(t *testing.T) {
		tx, err := store.Begin(ctx)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		for _, m := range []models.Member{
			{Address: "0xB", AddedAt: 10},
			{Address: "0xA", AddedAt: 10},
			{Address: "0xB", AddedAt: 20},
		} {
			if err := tx.AddMember(ctx, m); err != nil {
				t.Fatalf("AddMember failed: %v", err)
			}
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		members, err := store.ListMembers(ctx)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("Expected 2 members, got %d", len(members))
		}
		if members[0].Address != "0xA" || members[1].Address != "0xB" {
			t.Errorf("Members not sorted: %+v", members)
		}
		if members[1].AddedAt != 10 {
			t.Errorf("Repeat add changed AddedAt to %d", members[1].AddedAt)
		}
	})

	t.Run("LoadState replays balance", func(t *testing.T) {
		state, err := store.LoadState(ctx)
		if err != nil {
			t.Fatalf("LoadState failed: %v", err)
		}
		if state.Balance != 60 {
			t.Errorf("Balance = %d, want 60", state.Balance)
		}
		if len(state.Members) != 2 {
			t.Errorf("Members = %d, want 2", len(state.Members))
		}
		if state.LastSeq == 0 {
			t.Error("Expected LastSeq to be set")
		}
	})
}

func TestAmountsAboveInt64(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	big := uint64(math.MaxUint64)
	appendEvents(t, store, &models.Event{ID: "ev-big", Kind: models.EventDeposit, Address: "0xD", Amount: big, Time: 1})

	events, err := store.ListEvents(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if events[0].Amount != big {
		t.Errorf("Amount = %d, want %d", events[0].Amount, big)
	}
}

func TestLoadState_CorruptJournal(t *testing.T) {
	store, _ := newTestStore(t)
	appendEvents(t, store, &models.Event{ID: "ev-1", Kind: models.EventWithdrawal, Address: "0xB", Amount: 1, Time: 1})

	if _, err := store.LoadState(context.Background()); err == nil {
		t.Error("Expected error for journal with negative balance")
	}
}

func TestAccounts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateAccount and GetAccountByAddress", func(t *testing.T) {
		account := models.NewAccount("0xA11CE", "Alice", "hash")
		if err := store.CreateAccount(ctx, account); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}

		got, err := store.GetAccountByAddress(ctx, "0xA11CE")
		if err != nil {
			t.Fatalf("GetAccountByAddress failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected account, got nil")
		}
		if *got != *account {
			t.Errorf("Account mismatch: got %+v, want %+v", got, account)
		}
	})

	t.Run("CreateAccount rejects duplicate address", func(t *testing.T) {
		err := store.CreateAccount(ctx, models.NewAccount("0xA11CE", "Impostor", "other"))
		if !errors.Is(err, storage.ErrAccountExists) {
			t.Errorf("Expected ErrAccountExists, got %v", err)
		}
	})

	t.Run("GetAccountByAddress returns nil for unknown address", func(t *testing.T) {
		got, err := store.GetAccountByAddress(ctx, "0xNOBODY")
		if err != nil {
			t.Fatalf("GetAccountByAddress failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil account, got %+v", got)
		}
	})
}

// TestSafeRestart runs a safe on the store, reopens the database, and checks
// that the registry and balance survive.
func TestSafeRestart(t *testing.T) {
	store, dbPath := newTestStore(t)
	ctx := context.Background()
	clock := safe.WithClock(func() time.Time { return time.Unix(1700000000, 0) })

	s, err := safe.New(ctx, []models.Address{"0xA", "0xB"}, safe.WithLedger(store), clock)
	if err != nil {
		t.Fatalf("safe.New failed: %v", err)
	}
	if _, err := s.AcceptDeposit(ctx, "0xD", 100); err != nil {
		t.Fatalf("AcceptDeposit failed: %v", err)
	}
	if _, err := s.AddFamilyMember(ctx, "0xA", "0xC"); err != nil {
		t.Fatalf("AddFamilyMember failed: %v", err)
	}
	if _, err := s.Withdraw(ctx, "0xC", "0xE", 30); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	restored, err := safe.New(ctx, []models.Address{"0xIGNORED"}, safe.WithLedger(reopened), clock)
	if err != nil {
		t.Fatalf("safe.New on reopened store failed: %v", err)
	}

	if restored.Balance() != 70 {
		t.Errorf("Balance() = %d, want 70", restored.Balance())
	}
	for _, m := range []models.Address{"0xA", "0xB", "0xC"} {
		if !restored.IsFamilyMember(m) {
			t.Errorf("IsFamilyMember(%s) = false after restart", m)
		}
	}
	if restored.IsFamilyMember("0xIGNORED") {
		t.Error("founders must be ignored when the ledger is already seeded")
	}

	events, err := reopened.ListEvents(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("Expected 3 journaled events, got %d", len(events))
	}
}

// TestWithdraw_CallerCancelsAfterPayout cancels the request context once the
// transfer has gone out. The withdrawal must still be journaled and debited.
func TestWithdraw_CallerCancelsAfterPayout(t *testing.T) {
	store, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var paid uint64
	transfer := safe.TransferFunc(func(_ context.Context, _ models.Address, amount uint64) error {
		paid += amount
		cancel()
		return nil
	})

	s, err := safe.New(context.Background(), []models.Address{"0xA"},
		safe.WithLedger(store),
		safe.WithTransferer(transfer),
	)
	if err != nil {
		t.Fatalf("safe.New failed: %v", err)
	}
	if _, err := s.AcceptDeposit(context.Background(), "0xD", 100); err != nil {
		t.Fatalf("AcceptDeposit failed: %v", err)
	}

	if _, err := s.Withdraw(ctx, "0xA", "0xE", 60); err != nil {
		t.Fatalf("Withdraw failed after payout: %v", err)
	}

	if paid != 60 {
		t.Errorf("paid = %d, want 60", paid)
	}
	if s.Balance() != 40 {
		t.Errorf("Balance() = %d, want 40", s.Balance())
	}

	state, err := store.LoadState(context.Background())
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if state.Balance != 40 {
		t.Errorf("journaled balance = %d, want 40", state.Balance)
	}
}

func TestAppendEvent_UnknownKind(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Rollback()

	if err := tx.AppendEvent(ctx, &models.Event{ID: "ev-x", Kind: "refund", Address: "0xA"}); err == nil {
		t.Error("expected error for unknown event kind")
	}
}
