// Package handlerapi implements the SMS-Activate-compatible "handler_api"
// dialect shared by every supported vendor: query-string requests carrying
// api_key and action, plain-text envelopes for account/number operations and
// JSON payloads for price listings. Vendor adapters embed Client and override
// only what their vendor does differently.
package handlerapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pyhub/pyhub-go/providers"
)

var validate = validator.New()

// Settings is the per-vendor wiring of the shared protocol core.
type Settings struct {
	// Provider is the canonical vendor name used in errors and logs
	Provider string

	// DefaultBaseURL is the vendor endpoint used when the caller does not
	// override it
	DefaultBaseURL string

	// StatusTable maps vendor status tags to normalized statuses. Nil keeps
	// DefaultStatusTable().
	StatusTable map[string]providers.ActivationStatus

	// ServiceCodes maps canonical service codes to vendor codes. Nil keeps
	// DefaultServiceCodes().
	ServiceCodes map[string]string

	// SupportsReactivation gates the getExtraActivation action. Vendors
	// without it fail ReactivateNumber with an unsupported-operation error.
	SupportsReactivation bool
}

// Client speaks the handler_api dialect for one vendor. Safe for concurrent
// use when the underlying transport is; no call mutates shared state outside
// the delivered-code cache.
type Client struct {
	settings Settings
	cfg      providers.ProviderConfig
	baseURL  string
	http     *resty.Client
	logger   *zap.Logger

	// codes caches delivered SMS codes by activation id so a poll on an
	// already-completed activation answers without a network call
	codes sync.Map
}

// New builds a protocol client for one vendor. No network calls happen here.
func New(settings Settings, cfg providers.ProviderConfig) *Client {
	defaults := providers.DefaultProviderConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	if settings.StatusTable == nil {
		settings.StatusTable = DefaultStatusTable()
	}
	if settings.ServiceCodes == nil {
		settings.ServiceCodes = DefaultServiceCodes()
	}

	baseURL := settings.DefaultBaseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	// An injected transport is used as-is; the caller owns its retry and
	// timeout policy and may share it across clients.
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resty.New()
		httpClient.SetTimeout(cfg.Timeout)
		httpClient.SetRetryCount(0)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		settings: settings,
		cfg:      cfg,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		logger:   logger,
	}
}

// Name returns the canonical provider name
func (c *Client) Name() string {
	return c.settings.Provider
}

// BaseURL returns the resolved vendor endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request issues one handler_api action and returns the trimmed response
// body. Recognized vendor error codes are already translated into the
// normalized taxonomy; callers only parse success envelopes.
func (c *Client) Request(ctx context.Context, action string, params map[string]string) (string, error) {
	requestID := uuid.NewString()
	c.logger.Debug("vendor request",
		zap.String("provider", c.settings.Provider),
		zap.String("action", action),
		zap.String("request_id", requestID),
		zap.Any("params", params),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.cfg.APIKey).
		SetQueryParam("action", action).
		SetQueryParams(params).
		Get(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%s: %s request failed: %w", c.settings.Provider, action, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", providers.NewProviderError(
			c.settings.Provider, providers.ErrorTypeProtocol,
			fmt.Sprintf("%s returned HTTP %d", action, resp.StatusCode()),
			resp.String(), nil,
		)
	}

	body := strings.TrimSpace(resp.String())
	c.logger.Debug("vendor response",
		zap.String("provider", c.settings.Provider),
		zap.String("action", action),
		zap.String("request_id", requestID),
		zap.Int("bytes", len(body)),
	)

	if err := c.classifyError(body); err != nil {
		return "", err
	}
	return body, nil
}

// classifyError maps a recognized vendor error code to the taxonomy. The
// code is the token before the first colon; anything after it is detail
// (e.g. BANNED:2026-09-01).
func (c *Client) classifyError(body string) error {
	code, _, _ := strings.Cut(body, ":")
	errType, known := errorCodes[code]
	if !known {
		return nil
	}
	return providers.NewProviderError(c.settings.Provider, errType, "vendor returned "+code, body, nil)
}

// ProtocolError builds the catch-all error for unrecognized payload shapes.
func (c *Client) ProtocolError(message, raw string, err error) error {
	return providers.NewProviderError(c.settings.Provider, providers.ErrorTypeProtocol, message, raw, err)
}

// VendorService translates a canonical service code through the vendor table.
func (c *Client) VendorService(service string) (string, error) {
	code, ok := c.settings.ServiceCodes[service]
	if !ok {
		return "", providers.NewProviderError(
			c.settings.Provider, providers.ErrorTypeUnsupportedService,
			fmt.Sprintf("no %s mapping for service %q", c.settings.Provider, service),
			"", nil,
		)
	}
	return code, nil
}

// CanonicalService reverses the vendor table for response payloads. Vendor
// codes without a mapping pass through unchanged; for these vendors the
// tables are near-identity and an unknown code is still meaningful to the
// caller.
func (c *Client) CanonicalService(vendorCode string) string {
	for canonical, vendor := range c.settings.ServiceCodes {
		if vendor == vendorCode {
			return canonical
		}
	}
	return vendorCode
}
