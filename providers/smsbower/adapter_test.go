package smsbower

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pyhub/pyhub-go/providers"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(providers.ProviderConfig{
		APIKey:       "test_key",
		BaseURL:      srv.URL,
		PollInterval: time.Millisecond,
	})
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func TestName(t *testing.T) {
	adapter := New(providers.ProviderConfig{APIKey: "k"})
	if adapter.Name() != "smsbower" {
		t.Errorf("Name() = %s, want smsbower", adapter.Name())
	}
}

func TestGetPricesV2(t *testing.T) {
	var action string
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		action = r.URL.Query().Get("action")
		_, _ = w.Write([]byte(`{"0": {"tg": {"10.5": 100, "15.0": 50}}}`))
	})

	entries, err := adapter.GetPricesV2(context.Background(), &providers.PriceFilter{Service: "tg"})
	if err != nil {
		t.Fatalf("GetPricesV2() error: %v", err)
	}
	if action != "getPricesV2" {
		t.Errorf("action = %s, want getPricesV2", action)
	}
	if len(entries) != 1 || entries[0].Country != 0 {
		t.Fatalf("entries = %+v, want one entry for country 0", entries)
	}

	price := entries[0].Services["tg"]
	if price.MinPrice != 10.5 || price.MaxPrice != 15.0 {
		t.Errorf("bounds = %v..%v, want 10.5..15", price.MinPrice, price.MaxPrice)
	}
	if price.Count != 150 {
		t.Errorf("Count = %d, want 150", price.Count)
	}
	if len(price.Cost) != 2 {
		t.Errorf("Cost = %v, want the full ladder", price.Cost)
	}
}

func TestGetPricesV3(t *testing.T) {
	adapter := newTestAdapter(t, respond(
		`{"0": {"tg": {"prov1": {"price": 12.0, "count": 10}, "prov2": {"price": 15.0, "count": 5}}}}`))

	entries, err := adapter.GetPricesV3(context.Background(), &providers.PriceFilter{Service: "tg"})
	if err != nil {
		t.Fatalf("GetPricesV3() error: %v", err)
	}

	price := entries[0].Services["tg"]
	if price.MinPrice != 12.0 || price.MaxPrice != 15.0 {
		t.Errorf("bounds = %v..%v, want 12..15", price.MinPrice, price.MaxPrice)
	}
	if price.Count != 15 {
		t.Errorf("Count = %d, want 15", price.Count)
	}
	if len(price.Cost) != 2 || price.Cost[0] != 12.0 || price.Cost[1] != 15.0 {
		t.Errorf("Cost = %v, want [12 15]", price.Cost)
	}
}

// GetPrices rides on V2; the default listing must carry the price ladder.
func TestGetPrices_UsesV2(t *testing.T) {
	var action string
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		action = r.URL.Query().Get("action")
		_, _ = w.Write([]byte(`{"0": {"tg": {"10.5": 100}}}`))
	})

	if _, err := adapter.GetPrices(context.Background(), nil); err != nil {
		t.Fatalf("GetPrices() error: %v", err)
	}
	if action != "getPricesV2" {
		t.Errorf("action = %s, want getPricesV2", action)
	}
}

func TestReactivateNumber_Unsupported(t *testing.T) {
	requests := 0
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, err := adapter.ReactivateNumber(context.Background(), "12345")
	if got := providers.GetErrorType(err); got != providers.ErrorTypeUnsupportedOperation {
		t.Errorf("error type = %s, want %s", got, providers.ErrorTypeUnsupportedOperation)
	}
	if requests != 0 {
		t.Errorf("unsupported reactivation reached the network: %d requests", requests)
	}
}

// SMSBower reports expiry with its own tag; it must normalize to a terminal
// timed-out state and fail the poll.
func TestGetSMS_ExpiredStatus(t *testing.T) {
	adapter := newTestAdapter(t, respond("STATUS_EXPIRED"))

	_, err := adapter.GetSMS(context.Background(), "12345", &providers.PollOptions{Timeout: time.Second})
	if !providers.IsActivationFailedError(err) {
		t.Errorf("expected activation-failed for STATUS_EXPIRED, got %v", err)
	}
}
