package smshub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pyhub/pyhub-go/providers"
)

func TestName(t *testing.T) {
	adapter := New(providers.ProviderConfig{APIKey: "k"})
	if adapter.Name() != "smshub" {
		t.Errorf("Name() = %s, want smshub", adapter.Name())
	}
}

func TestDefaultBaseURL(t *testing.T) {
	adapter := New(providers.ProviderConfig{APIKey: "k"})
	if adapter.BaseURL() != defaultBaseURL {
		t.Errorf("BaseURL() = %s, want %s", adapter.BaseURL(), defaultBaseURL)
	}
}

func TestBaseURLOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ACCESS_BALANCE:5.00"))
	}))
	t.Cleanup(srv.Close)

	adapter := New(providers.ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	balance, err := adapter.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("GetBalance() error: %v", err)
	}
	if balance.Amount != 5.00 {
		t.Errorf("Amount = %v, want 5", balance.Amount)
	}
}
