package providers

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Provider is the unified interface every SMS-rental vendor adapter implements.
// All adapters translate these five operations into their vendor's HTTP
// protocol and translate the vendor's responses back into the normalized
// types in this package.
type Provider interface {
	// Name returns the canonical provider name (e.g. "smshub", "smsbower")
	Name() string

	// GetBalance fetches the current account balance
	GetBalance(ctx context.Context) (*Balance, error)

	// GetPrices lists per-country, per-service prices. The filter is applied
	// with identical semantics on every adapter regardless of what the vendor
	// supports server-side.
	GetPrices(ctx context.Context, filter *PriceFilter) ([]PriceEntry, error)

	// GetNumber rents a number for the given canonical service code
	GetNumber(ctx context.Context, service string, country int) (*Activation, error)

	// GetSMS polls the vendor until a code arrives, the poll budget elapses
	// (nil, nil, not an error), or the vendor declares the activation dead.
	GetSMS(ctx context.Context, activationID string, opts *PollOptions) (*SmsCode, error)

	// ReactivateNumber re-requests SMS delivery for a previously used number
	ReactivateNumber(ctx context.Context, activationID string) (*Activation, error)
}

// StatusSetter is implemented by adapters whose vendor exposes the
// setStatus action (all of the SMS-Activate-compatible ones do).
type StatusSetter interface {
	// SetStatus reports an activation state change to the vendor.
	// Well-known values: 1 = ready, 3 = request another SMS, 6 = complete,
	// 8 = cancel.
	SetStatus(ctx context.Context, activationID string, status int) error

	// GetNewSMS asks the vendor to resend an SMS for the activation and
	// polls for the new code.
	GetNewSMS(ctx context.Context, activationID string, opts *PollOptions) (*SmsCode, error)
}

// PriceFilter narrows a GetPrices result. Zero values mean "no filter".
type PriceFilter struct {
	// Service is a canonical service code (e.g. "tg")
	Service string

	// Country filters to a single vendor country id; nil keeps all countries
	Country *int
}

// PollOptions bounds the GetSMS poll loop.
type PollOptions struct {
	// Timeout is the total poll budget. Zero means a single status check.
	Timeout time.Duration

	// Interval between status checks. Zero falls back to the adapter's
	// configured default.
	Interval time.Duration
}

// ProviderConfig holds common configuration for adapters. It is built once
// at client creation and never mutated afterwards.
type ProviderConfig struct {
	// APIKey for authentication
	APIKey string

	// BaseURL override for the vendor endpoint (optional)
	BaseURL string

	// Timeout for a single HTTP request
	Timeout time.Duration

	// PollInterval is the default delay between GetSMS status checks
	PollInterval time.Duration

	// HTTPClient is the injected transport, used as-is: the caller keeps
	// ownership of its retry and timeout policy. When nil the adapter builds
	// its own resty client with Timeout applied and retries disabled.
	HTTPClient *resty.Client

	// Logger for request-level debug output. When nil a no-op logger is used.
	Logger *zap.Logger
}

// DefaultProviderConfig returns a sensible default configuration
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Timeout:      30 * time.Second,
		PollInterval: 5 * time.Second,
	}
}
