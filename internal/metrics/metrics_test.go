package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/safe"
)

func TestObserve(t *testing.T) {
	m := New()

	m.Observe(models.Event{Kind: models.EventDeposit, Amount: 100}, safe.Snapshot{Balance: 100, Members: 3})
	m.Observe(models.Event{Kind: models.EventDeposit, Amount: 0}, safe.Snapshot{Balance: 100, Members: 3})
	m.Observe(models.Event{Kind: models.EventWithdrawal, Amount: 40}, safe.Snapshot{Balance: 60, Members: 3})
	m.Observe(models.Event{Kind: models.EventMemberAdded}, safe.Snapshot{Balance: 60, Members: 4})

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"deposit events", testutil.ToFloat64(m.events.WithLabelValues("deposit")), 2},
		{"withdrawal events", testutil.ToFloat64(m.events.WithLabelValues("withdrawal")), 1},
		{"member events", testutil.ToFloat64(m.events.WithLabelValues("member_added")), 1},
		{"value in", testutil.ToFloat64(m.value.WithLabelValues("in")), 100},
		{"value out", testutil.ToFloat64(m.value.WithLabelValues("out")), 40},
		{"balance", testutil.ToFloat64(m.balance), 60},
		{"members", testutil.ToFloat64(m.members), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestRejected(t *testing.T) {
	m := New()
	m.Rejected("unauthorized")
	m.Rejected("unauthorized")
	m.Rejected("insufficient_funds")

	if got := testutil.ToFloat64(m.rejections.WithLabelValues("unauthorized")); got != 2 {
		t.Errorf("unauthorized = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.rejections.WithLabelValues("insufficient_funds")); got != 1 {
		t.Errorf("insufficient_funds = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.Set(safe.Snapshot{Balance: 42, Members: 2})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"familysafe_balance 42", "familysafe_members 2"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
