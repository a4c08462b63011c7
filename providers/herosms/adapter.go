// Package herosms implements the HeroSMS adapter. HeroSMS is SMS-Activate
// protocol compatible but its getPrices data is sparse; price listings come
// from getTopCountriesByService instead, which carries country mapping and
// the full free-price ladder.
package herosms

import (
	"context"

	"github.com/pyhub/pyhub-go/providers"
	"github.com/pyhub/pyhub-go/providers/handlerapi"
)

const defaultBaseURL = "https://hero-sms.com/stubs/handler_api.php"

// Adapter translates the unified operations into HeroSMS HTTP calls.
type Adapter struct {
	*handlerapi.Client
}

// New creates a HeroSMS adapter. No network calls happen at construction.
func New(cfg providers.ProviderConfig) *Adapter {
	return &Adapter{
		Client: handlerapi.New(handlerapi.Settings{
			Provider:             "herosms",
			DefaultBaseURL:       defaultBaseURL,
			SupportsReactivation: true,
		}, cfg),
	}
}

// GetPrices lists prices through getTopCountriesByService. The country
// filter is applied client-side; HeroSMS does not accept it on this action.
func (a *Adapter) GetPrices(ctx context.Context, filter *providers.PriceFilter) ([]providers.PriceEntry, error) {
	service := ""
	if filter != nil {
		service = filter.Service
	}

	entries, err := a.GetTopCountriesByService(ctx, service, true)
	if err != nil {
		return nil, err
	}
	return providers.FilterPrices(entries, filter), nil
}
