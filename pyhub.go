// Package pyhub is a unification layer over SMS-number-rental vendor APIs.
// It exposes one client surface (balance, prices, number rental, SMS-code
// polling, reactivation) regardless of which vendor backs it; GetClient
// picks the vendor adapter from a provider name or a base URL.
package pyhub

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pyhub/pyhub-go/providers"
	"github.com/pyhub/pyhub-go/providers/herosms"
	"github.com/pyhub/pyhub-go/providers/smsactivate"
	"github.com/pyhub/pyhub-go/providers/smsbower"
	"github.com/pyhub/pyhub-go/providers/smshub"
)

// Options configures GetClient. Exactly one of Provider or BaseURL must
// resolve to a known vendor; when both are set they must agree.
type Options struct {
	// Provider is a vendor name: smshub, herosms, smsactivate (sms-activate)
	// or smsbower. Matching is case-insensitive and ignores dashes and
	// underscores; "hero" and "bower" are accepted aliases.
	Provider string

	// BaseURL selects the vendor by endpoint pattern and overrides the
	// adapter's default endpoint.
	BaseURL string

	// APIKey authenticates every vendor call
	APIKey string

	// Timeout for a single HTTP request (default 30s)
	Timeout time.Duration

	// PollInterval between GetSMS status checks (default 5s)
	PollInterval time.Duration

	// HTTPClient is an optional injected transport
	HTTPClient *resty.Client

	// Logger is an optional structured logger for request-level debug output
	Logger *zap.Logger
}

// adapterBuilder constructs one vendor's adapter from common configuration.
type adapterBuilder func(cfg providers.ProviderConfig) providers.Provider

var adapterBuilders = map[string]adapterBuilder{
	"smshub":      func(cfg providers.ProviderConfig) providers.Provider { return smshub.New(cfg) },
	"herosms":     func(cfg providers.ProviderConfig) providers.Provider { return herosms.New(cfg) },
	"smsactivate": func(cfg providers.ProviderConfig) providers.Provider { return smsactivate.New(cfg) },
	"smsbower":    func(cfg providers.ProviderConfig) providers.Provider { return smsbower.New(cfg) },
}

// nameAliases folds alternate spellings onto canonical provider names.
var nameAliases = map[string]string{
	"hero":  "herosms",
	"bower": "smsbower",
}

// urlPattern binds a hostname/path substring to a provider. Patterns are
// evaluated as an explicit ordered list, longest first, so dispatch is
// deterministic.
type urlPattern struct {
	pattern  string
	provider string
}

var urlPatterns = []urlPattern{
	{"hero-sms.com", "herosms"},
	{"sms-activate", "smsactivate"},
	{"smshub.org", "smshub"},
	{"smsbower", "smsbower"},
}

func init() {
	sort.SliceStable(urlPatterns, func(i, j int) bool {
		return len(urlPatterns[i].pattern) > len(urlPatterns[j].pattern)
	})
}

// GetClient resolves the vendor from opts and returns a client backed by
// that vendor's adapter. Construction performs no network I/O.
func GetClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, providers.NewProviderError("", providers.ErrorTypeConfiguration,
			"api key is required", "", nil)
	}

	byName := ""
	if opts.Provider != "" {
		name, err := resolveName(opts.Provider)
		if err != nil {
			return nil, err
		}
		byName = name
	}

	byURL := ""
	if opts.BaseURL != "" {
		name, err := resolveBaseURL(opts.BaseURL)
		if err != nil {
			// A URL matching no known vendor is only an error when it is the
			// sole selector; next to an explicit provider name it is just an
			// endpoint override.
			if byName == "" {
				return nil, err
			}
		} else {
			byURL = name
		}
	}

	var provider string
	switch {
	case byName != "" && byURL != "" && byName != byURL:
		return nil, providers.NewProviderError("", providers.ErrorTypeConfiguration,
			fmt.Sprintf("provider %q contradicts base URL (%s)", opts.Provider, byURL), "", nil)
	case byName != "":
		provider = byName
	case byURL != "":
		provider = byURL
	default:
		return nil, providers.NewProviderError("", providers.ErrorTypeConfiguration,
			"either a provider name or a base URL is required", "", nil)
	}

	adapter := adapterBuilders[provider](providers.ProviderConfig{
		APIKey:       opts.APIKey,
		BaseURL:      opts.BaseURL,
		Timeout:      opts.Timeout,
		PollInterval: opts.PollInterval,
		HTTPClient:   opts.HTTPClient,
		Logger:       opts.Logger,
	})
	return &Client{adapter: adapter}, nil
}

// resolveName matches a provider name against the fixed vendor set.
func resolveName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "", "_", "").Replace(normalized)
	if canonical, ok := nameAliases[normalized]; ok {
		normalized = canonical
	}

	if _, ok := adapterBuilders[normalized]; !ok {
		return "", providers.NewProviderError("", providers.ErrorTypeUnknownProvider,
			fmt.Sprintf("provider %q is not supported (available: %s)", name, strings.Join(SupportedProviders(), ", ")),
			"", nil)
	}
	return normalized, nil
}

// resolveBaseURL matches an endpoint against the known vendor patterns. An
// unmatched URL is an error; there is no fallback vendor.
func resolveBaseURL(baseURL string) (string, error) {
	lowered := strings.ToLower(baseURL)
	for _, entry := range urlPatterns {
		if strings.Contains(lowered, entry.pattern) {
			return entry.provider, nil
		}
	}
	return "", providers.NewProviderError("", providers.ErrorTypeUnknownProvider,
		fmt.Sprintf("base URL %q matches no supported provider", baseURL), "", nil)
}

// ProviderForURL returns the canonical name of the vendor whose endpoint
// pattern matches baseURL, or false when none does.
func ProviderForURL(baseURL string) (string, bool) {
	name, err := resolveBaseURL(baseURL)
	return name, err == nil
}

// SupportedProviders returns the canonical vendor names, sorted.
func SupportedProviders() []string {
	names := make([]string, 0, len(adapterBuilders))
	for name := range adapterBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
