// Package calculator derives safe balances from the event journal.
package calculator

import (
	"fmt"
	"math"
	"sort"

	"github.com/mmynk/familysafe/internal/models"
)

// AddressFlow represents the value one address moved through the safe.
type AddressFlow struct {
	Address   models.Address
	Deposited uint64 // Total this address sent into the safe
	Withdrawn uint64 // Total paid out to this address
}

// Summary aggregates a journal of events.
type Summary struct {
	Balance        uint64
	TotalDeposited uint64
	TotalWithdrawn uint64
	Deposits       int
	Withdrawals    int
	MembersAdded   int
	Flows          []AddressFlow // Sorted by address
}

// NetBalance replays events in order and returns sum(deposits) - sum(withdrawals).
// It fails if the running balance would go negative or overflow, which means
// the journal is corrupt or out of order.
func NetBalance(events []*models.Event) (uint64, error) {
	var balance uint64
	for _, ev := range events {
		switch ev.Kind {
		case models.EventDeposit:
			if ev.Amount > math.MaxUint64-balance {
				return 0, fmt.Errorf("event %d: balance overflow", ev.Seq)
			}
			balance += ev.Amount
		case models.EventWithdrawal:
			if ev.Amount > balance {
				return 0, fmt.Errorf("event %d: withdrawal of %d exceeds balance %d", ev.Seq, ev.Amount, balance)
			}
			balance -= ev.Amount
		case models.EventMemberAdded:
			// no value moved
		default:
			return 0, fmt.Errorf("event %d: unknown kind %q", ev.Seq, ev.Kind)
		}
	}
	return balance, nil
}

// Summarize computes totals and per-address flows for events.
// Totals saturate at math.MaxUint64 rather than wrapping.
func Summarize(events []*models.Event) (Summary, error) {
	balance, err := NetBalance(events)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Balance: balance}
	flows := make(map[models.Address]*AddressFlow)
	flowFor := func(addr models.Address) *AddressFlow {
		f, ok := flows[addr]
		if !ok {
			f = &AddressFlow{Address: addr}
			flows[addr] = f
		}
		return f
	}

	for _, ev := range events {
		switch ev.Kind {
		case models.EventDeposit:
			summary.Deposits++
			summary.TotalDeposited = addSaturating(summary.TotalDeposited, ev.Amount)
			f := flowFor(ev.Address)
			f.Deposited = addSaturating(f.Deposited, ev.Amount)
		case models.EventWithdrawal:
			summary.Withdrawals++
			summary.TotalWithdrawn = addSaturating(summary.TotalWithdrawn, ev.Amount)
			f := flowFor(ev.Address)
			f.Withdrawn = addSaturating(f.Withdrawn, ev.Amount)
		case models.EventMemberAdded:
			summary.MembersAdded++
		}
	}

	summary.Flows = make([]AddressFlow, 0, len(flows))
	for _, f := range flows {
		summary.Flows = append(summary.Flows, *f)
	}
	sort.Slice(summary.Flows, func(i, j int) bool {
		return summary.Flows[i].Address < summary.Flows[j].Address
	})

	return summary, nil
}

func addSaturating(a, b uint64) uint64 {
	if b > math.MaxUint64-a {
		return math.MaxUint64
	}
	return a + b
}
