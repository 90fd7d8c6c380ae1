package payout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhook_Accepted(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, server.Client(), time.Second)
	if err := hook.Transfer(context.Background(), "0xB0B", 18446744073709551615); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if got.Receiver != "0xB0B" {
		t.Errorf("receiver = %q, want 0xB0B", got.Receiver)
	}
	if got.Amount != "18446744073709551615" {
		t.Errorf("amount = %q, want full uint64 as string", got.Amount)
	}
	if got.Requested == 0 {
		t.Error("expected requested_at to be set")
	}
}

func TestWebhook_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "receiver cannot accept funds", http.StatusConflict)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, server.Client(), time.Second)
	err := hook.Transfer(context.Background(), "0xB0B", 5)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("error = %v, want ErrRejected", err)
	}
}

func TestWebhook_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	hook := NewWebhook(server.URL, server.Client(), 50*time.Millisecond)
	if err := hook.Transfer(context.Background(), "0xB0B", 5); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestWebhook_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	hook := NewWebhook(url, nil, time.Second)
	if err := hook.Transfer(context.Background(), "0xB0B", 5); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}

func TestLog(t *testing.T) {
	if err := (Log{}).Transfer(context.Background(), "0xB0B", 0); err != nil {
		t.Errorf("Log.Transfer returned %v", err)
	}
}
