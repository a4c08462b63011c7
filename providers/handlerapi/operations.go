package handlerapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pyhub/pyhub-go/providers"
)

// GetBalance fetches the account balance. Envelope: ACCESS_BALANCE:123.45
func (c *Client) GetBalance(ctx context.Context) (*providers.Balance, error) {
	body, err := c.Request(ctx, "getBalance", nil)
	if err != nil {
		return nil, err
	}

	tag, amountText, found := strings.Cut(body, ":")
	if !found || tag != "ACCESS_BALANCE" {
		return nil, c.ProtocolError("unexpected balance response", body, nil)
	}
	amount, err := strconv.ParseFloat(amountText, 64)
	if err != nil {
		return nil, c.ProtocolError("unparseable balance amount", body, err)
	}

	return &providers.Balance{Amount: amount, Currency: providers.DefaultCurrency}, nil
}

// GetNumber rents a number. Envelope: ACCESS_NUMBER:ID:PHONE
func (c *Client) GetNumber(ctx context.Context, service string, country int) (*providers.Activation, error) {
	return c.GetNumberWithOperator(ctx, service, country, "")
}

// operatorCountry is the only country id where the vendors honor a mobile
// operator selection; anywhere else the request is downgraded to "any".
const operatorCountry = 73

// GetNumberWithOperator rents a number from a specific mobile operator.
// An empty operator omits the parameter entirely.
func (c *Client) GetNumberWithOperator(ctx context.Context, service string, country int, operator string) (*providers.Activation, error) {
	vendorCode, err := c.VendorService(service)
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"service": vendorCode,
		"country": strconv.Itoa(country),
	}
	if operator != "" {
		if country != operatorCountry {
			operator = "any"
		}
		params["operator"] = operator
	}

	body, err := c.Request(ctx, "getNumber", params)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(body, ":")
	if len(parts) < 3 || parts[0] != "ACCESS_NUMBER" {
		return nil, c.ProtocolError("unexpected getNumber response", body, nil)
	}

	activation := &providers.Activation{
		ActivationID: parts[1],
		PhoneNumber:  parts[2],
		Service:      service,
		Country:      country,
		Status:       providers.StatusPending,
	}
	if err := validate.Struct(activation); err != nil {
		return nil, c.ProtocolError("incomplete getNumber response", body, err)
	}
	return activation, nil
}

// GetStatus performs one getStatus call and normalizes the vendor tag
// through the adapter's status table. The second return value carries the
// SMS code when the status is completed (STATUS_OK:CODE) and the previous
// code on a retry tag (STATUS_WAIT_RETRY:CODE).
func (c *Client) GetStatus(ctx context.Context, activationID string) (providers.ActivationStatus, string, error) {
	body, err := c.Request(ctx, "getStatus", map[string]string{"id": activationID})
	if err != nil {
		return "", "", err
	}

	tag, detail, _ := strings.Cut(body, ":")
	status, known := c.settings.StatusTable[tag]
	if !known {
		return "", "", c.ProtocolError("unrecognized activation status "+tag, body, nil)
	}
	return status, detail, nil
}

// GetSMS polls getStatus until a code arrives, the poll budget elapses, or
// the vendor declares the activation dead. A nil result with a nil error
// means "no code observed within the budget" and is a legitimate outcome,
// not a failure. A code delivered once is cached, so calling GetSMS on an
// already-completed activation returns it without another network call.
func (c *Client) GetSMS(ctx context.Context, activationID string, opts *providers.PollOptions) (*providers.SmsCode, error) {
	if cached, ok := c.codes.Load(activationID); ok {
		return cached.(*providers.SmsCode), nil
	}

	var timeout, interval time.Duration
	if opts != nil {
		timeout = opts.Timeout
		interval = opts.Interval
	}
	if interval <= 0 {
		interval = c.cfg.PollInterval
	}

	start := time.Now()
	for {
		status, code, err := c.GetStatus(ctx, activationID)
		if err != nil {
			return nil, err
		}

		switch status {
		case providers.StatusCompleted:
			sms := &providers.SmsCode{
				ActivationID: activationID,
				Code:         code,
				ReceivedAt:   time.Now().UTC(),
			}
			if err := validate.Struct(sms); err != nil {
				return nil, c.ProtocolError("completed activation without a code", code, err)
			}
			c.codes.Store(activationID, sms)
			return sms, nil
		case providers.StatusCancelled, providers.StatusTimedOut:
			return nil, providers.NewProviderError(
				c.settings.Provider, providers.ErrorTypeActivationFailed,
				fmt.Sprintf("activation %s is %s", activationID, status),
				string(status), nil,
			)
		}

		// Pending or retry-sent: poll again if the budget allows another round.
		if time.Since(start)+interval > timeout {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// SetStatus reports an activation state change. The vendor acknowledges
// with an ACCESS_* tag.
func (c *Client) SetStatus(ctx context.Context, activationID string, status int) error {
	body, err := c.Request(ctx, "setStatus", map[string]string{
		"id":     activationID,
		"status": strconv.Itoa(status),
	})
	if err != nil {
		return err
	}
	if !strings.HasPrefix(body, "ACCESS_") {
		return c.ProtocolError("unexpected setStatus response", body, nil)
	}
	return nil
}

// GetNewSMS asks the vendor to resend an SMS for the activation and polls
// for the new code. The cached code is dropped first so the poll observes
// the fresh delivery.
func (c *Client) GetNewSMS(ctx context.Context, activationID string, opts *providers.PollOptions) (*providers.SmsCode, error) {
	if err := c.SetStatus(ctx, activationID, StatusValueResendSMS); err != nil {
		return nil, err
	}
	c.codes.Delete(activationID)
	return c.GetSMS(ctx, activationID, opts)
}

// ReactivateNumber re-requests SMS delivery for a previously used number via
// getExtraActivation, then reports readiness the way the vendors expect.
func (c *Client) ReactivateNumber(ctx context.Context, activationID string) (*providers.Activation, error) {
	if !c.settings.SupportsReactivation {
		return nil, providers.NewProviderError(
			c.settings.Provider, providers.ErrorTypeUnsupportedOperation,
			c.settings.Provider+" has no reactivation endpoint", "", nil,
		)
	}

	body, err := c.Request(ctx, "getExtraActivation", map[string]string{"activationId": activationID})
	if err != nil {
		return nil, err
	}

	parts := strings.Split(body, ":")
	if len(parts) < 3 || parts[0] != "ACCESS_NUMBER" {
		return nil, c.ProtocolError("unexpected getExtraActivation response", body, nil)
	}

	activation := &providers.Activation{
		ActivationID: parts[1],
		PhoneNumber:  parts[2],
		Status:       providers.StatusPending,
	}
	if err := validate.Struct(activation); err != nil {
		return nil, c.ProtocolError("incomplete getExtraActivation response", body, err)
	}

	// The reactivated id must be acknowledged as ready before the vendor
	// routes SMS to it again.
	if err := c.SetStatus(ctx, activation.ActivationID, StatusValueReady); err != nil {
		return nil, err
	}
	c.codes.Delete(activation.ActivationID)
	return activation, nil
}
