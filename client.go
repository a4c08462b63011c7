package pyhub

import (
	"context"

	"github.com/pyhub/pyhub-go/providers"
)

// Client is the vendor-agnostic facade returned by GetClient. It holds one
// adapter and forwards each operation unchanged; its only independent job is
// presenting a stable method set regardless of which vendor is active. No
// caching and no retries beyond the adapter's own GetSMS poll loop.
type Client struct {
	adapter providers.Provider
}

// ProviderName returns the canonical name of the backing vendor
func (c *Client) ProviderName() string {
	return c.adapter.Name()
}

// GetBalance fetches the current account balance
func (c *Client) GetBalance(ctx context.Context) (*providers.Balance, error) {
	return c.adapter.GetBalance(ctx)
}

// GetPrices lists per-country, per-service prices
func (c *Client) GetPrices(ctx context.Context, filter *providers.PriceFilter) ([]providers.PriceEntry, error) {
	return c.adapter.GetPrices(ctx, filter)
}

// GetNumber rents a number for the given canonical service code
func (c *Client) GetNumber(ctx context.Context, service string, country int) (*providers.Activation, error) {
	return c.adapter.GetNumber(ctx, service, country)
}

// GetSMS polls for an SMS code. A nil result with nil error means no code
// arrived within the poll budget.
func (c *Client) GetSMS(ctx context.Context, activationID string, opts *providers.PollOptions) (*providers.SmsCode, error) {
	return c.adapter.GetSMS(ctx, activationID, opts)
}

// ReactivateNumber re-requests SMS delivery for a previously used number
func (c *Client) ReactivateNumber(ctx context.Context, activationID string) (*providers.Activation, error) {
	return c.adapter.ReactivateNumber(ctx, activationID)
}

// SetStatus reports an activation state change to the vendor. Fails with an
// unsupported-operation error when the vendor has no setStatus action.
func (c *Client) SetStatus(ctx context.Context, activationID string, status int) error {
	setter, ok := c.adapter.(providers.StatusSetter)
	if !ok {
		return providers.NewProviderError(c.adapter.Name(),
			providers.ErrorTypeUnsupportedOperation, "vendor has no setStatus action", "", nil)
	}
	return setter.SetStatus(ctx, activationID, status)
}

// GetNewSMS asks the vendor to resend an SMS and polls for the new code
func (c *Client) GetNewSMS(ctx context.Context, activationID string, opts *providers.PollOptions) (*providers.SmsCode, error) {
	setter, ok := c.adapter.(providers.StatusSetter)
	if !ok {
		return nil, providers.NewProviderError(c.adapter.Name(),
			providers.ErrorTypeUnsupportedOperation, "vendor has no SMS resend action", "", nil)
	}
	return setter.GetNewSMS(ctx, activationID, opts)
}
