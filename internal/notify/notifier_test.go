package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xela07ax/slaguard-prototype/internal/domain"
)

func TestRenderSubject(t *testing.T) {
	evt, order := testEvent()
	got := renderSubject(evt, order)
	want := "SLA Alert: SLA_BREACH for hosting"
	if got != want {
		t.Fatalf("subject = %q, want %q", got, want)
	}
}

func TestRenderBodyContainsAllFields(t *testing.T) {
	evt, order := testEvent()
	evt.Timestamp = time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)
	order.Status = domain.StatusBreached

	body := renderBody(evt, order)
	for _, fragment := range []string{
		"Order ID: ord-1",
		"User: ravi",
		"Service: hosting",
		"Type: SLA_BREACH",
		"Details: uptime 95.0% < 99.0%",
		"Time: 2026-02-03 10:30:00",
		"Current Status: BREACHED",
	} {
		if !strings.Contains(body, fragment) {
			t.Errorf("body missing %q:\n%s", fragment, body)
		}
	}
}

func TestWebhookNotifierDeliver(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	evt, order := testEvent()
	order.Status = domain.StatusBreached

	n := NewWebhookNotifier(srv.URL)
	if err := n.Deliver(context.Background(), evt, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OrderID != "ord-1" || got.Kind != "SLA_BREACH" || got.Status != "BREACHED" {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

func TestWebhookNotifierRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	evt, order := testEvent()
	n := NewWebhookNotifier(srv.URL)
	if err := n.Deliver(context.Background(), evt, order); err == nil {
		t.Fatal("expected error on 502 response")
	}
}
