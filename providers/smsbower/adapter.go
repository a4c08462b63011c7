// Package smsbower implements the SMSBower adapter. SMSBower extends the
// handler_api dialect with getPricesV2/getPricesV3 (multi-price listings)
// and an expiry status tag, and it exposes no reactivation endpoint.
package smsbower

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/pyhub/pyhub-go/providers"
	"github.com/pyhub/pyhub-go/providers/handlerapi"
)

const defaultBaseURL = "https://smsbower.page/stubs/handler_api.php"

// Adapter translates the unified operations into SMSBower HTTP calls.
type Adapter struct {
	*handlerapi.Client
}

// New creates an SMSBower adapter. No network calls happen at construction.
func New(cfg providers.ProviderConfig) *Adapter {
	statuses := handlerapi.DefaultStatusTable()
	statuses["STATUS_EXPIRED"] = providers.StatusTimedOut

	return &Adapter{
		Client: handlerapi.New(handlerapi.Settings{
			Provider:       "smsbower",
			DefaultBaseURL: defaultBaseURL,
			StatusTable:    statuses,
		}, cfg),
	}
}

// GetPrices lists prices through getPricesV2, which reports the full
// price-to-availability ladder per service.
func (a *Adapter) GetPrices(ctx context.Context, filter *providers.PriceFilter) ([]providers.PriceEntry, error) {
	entries, err := a.GetPricesV2(ctx, filter)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetPricesV2 fetches the V2 listing: {"country": {"service": {"price": count}}}.
func (a *Adapter) GetPricesV2(ctx context.Context, filter *providers.PriceFilter) ([]providers.PriceEntry, error) {
	body, err := a.requestPrices(ctx, "getPricesV2", filter)
	if err != nil {
		return nil, err
	}

	var payload map[string]map[string]map[string]float64
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, a.ProtocolError("unparseable getPricesV2 payload", body, err)
	}

	entries, err := pivot(a, body, payload, func(ladder map[string]float64) ([]float64, int) {
		prices := make([]float64, 0, len(ladder))
		total := 0
		for priceKey, count := range ladder {
			price, err := strconv.ParseFloat(priceKey, 64)
			if err != nil {
				continue
			}
			prices = append(prices, price)
			total += int(count)
		}
		return prices, total
	})
	if err != nil {
		return nil, err
	}
	return providers.FilterPrices(entries, filter), nil
}

// v3Offer is one upstream offer in a getPricesV3 listing.
type v3Offer struct {
	Price float64 `json:"price"`
	Count int     `json:"count"`
}

// GetPricesV3 fetches the V3 listing, which breaks prices down per upstream
// provider: {"country": {"service": {"upstream": {"price": p, "count": n}}}}.
func (a *Adapter) GetPricesV3(ctx context.Context, filter *providers.PriceFilter) ([]providers.PriceEntry, error) {
	body, err := a.requestPrices(ctx, "getPricesV3", filter)
	if err != nil {
		return nil, err
	}

	var payload map[string]map[string]map[string]v3Offer
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, a.ProtocolError("unparseable getPricesV3 payload", body, err)
	}

	entries, err := pivot(a, body, payload, func(offers map[string]v3Offer) ([]float64, int) {
		prices := make([]float64, 0, len(offers))
		total := 0
		for _, offer := range offers {
			prices = append(prices, offer.Price)
			total += offer.Count
		}
		return prices, total
	})
	if err != nil {
		return nil, err
	}
	return providers.FilterPrices(entries, filter), nil
}

// requestPrices issues a price action with the server-side filter params
// SMSBower accepts.
func (a *Adapter) requestPrices(ctx context.Context, action string, filter *providers.PriceFilter) (string, error) {
	params := map[string]string{}
	if filter != nil {
		if filter.Service != "" {
			vendorCode, err := a.VendorService(filter.Service)
			if err != nil {
				return "", err
			}
			params["service"] = vendorCode
		}
		if filter.Country != nil {
			params["country"] = strconv.Itoa(*filter.Country)
		}
	}
	return a.Request(ctx, action, params)
}

// pivot folds a country -> service -> ladder payload into normalized
// entries; flatten turns one vendor ladder shape into sorted prices and a
// total count.
func pivot[T any](a *Adapter, body string, payload map[string]map[string]T, flatten func(T) ([]float64, int)) ([]providers.PriceEntry, error) {
	entries := make([]providers.PriceEntry, 0, len(payload))
	for countryKey, services := range payload {
		country, err := strconv.Atoi(countryKey)
		if err != nil {
			return nil, a.ProtocolError("non-numeric country id "+countryKey, body, err)
		}

		serviceMap := make(map[string]providers.ServicePrice, len(services))
		for vendorCode, ladder := range services {
			prices, total := flatten(ladder)
			if len(prices) == 0 {
				continue
			}
			sort.Float64s(prices)
			canonical := a.CanonicalService(vendorCode)
			serviceMap[canonical] = providers.ServicePrice{
				Service:  canonical,
				Cost:     prices,
				MinPrice: prices[0],
				MaxPrice: prices[len(prices)-1],
				Count:    total,
			}
		}
		if len(serviceMap) > 0 {
			entries = append(entries, providers.PriceEntry{Country: country, Services: serviceMap})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Country < entries[j].Country })
	return entries, nil
}
