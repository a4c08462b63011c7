package handlerapi

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pyhub/pyhub-go/providers"
)

// rawServicePrice is the vendor-side price record for one service. Vendors
// disagree on the price field name (cost vs price); freePriceMap, when
// present, carries the full price-to-availability ladder.
type rawServicePrice struct {
	Cost         float64            `json:"cost"`
	Price        float64            `json:"price"`
	Count        int                `json:"count"`
	FreePriceMap map[string]float64 `json:"freePriceMap"`
}

// topCountryEntry is one row of a getTopCountriesByService payload.
type topCountryEntry struct {
	Country      *int               `json:"country"`
	Price        float64            `json:"price"`
	Cost         float64            `json:"cost"`
	Count        int                `json:"count"`
	FreePriceMap map[string]float64 `json:"freePriceMap"`
}

// GetPrices lists prices via the standard getPrices action. Known filter
// fields are passed server-side; the result is re-filtered client-side so
// every adapter exposes the same semantics.
func (c *Client) GetPrices(ctx context.Context, filter *providers.PriceFilter) ([]providers.PriceEntry, error) {
	params := map[string]string{}
	if filter != nil {
		if filter.Service != "" {
			vendorCode, err := c.VendorService(filter.Service)
			if err != nil {
				return nil, err
			}
			params["service"] = vendorCode
		}
		if filter.Country != nil {
			params["country"] = strconv.Itoa(*filter.Country)
		}
	}

	body, err := c.Request(ctx, "getPrices", params)
	if err != nil {
		return nil, err
	}

	entries, err := c.parseStandardPrices(body)
	if err != nil {
		return nil, err
	}
	return providers.FilterPrices(entries, filter), nil
}

// parseStandardPrices decodes the {"country": {"service": {...}}} payload.
// Some vendors wrap it in a single-element array.
func (c *Client) parseStandardPrices(body string) ([]providers.PriceEntry, error) {
	payload := map[string]map[string]rawServicePrice{}
	if strings.HasPrefix(body, "[") {
		var wrapped []map[string]map[string]rawServicePrice
		if err := json.Unmarshal([]byte(body), &wrapped); err != nil {
			return nil, c.ProtocolError("unparseable getPrices payload", body, err)
		}
		if len(wrapped) > 0 {
			payload = wrapped[0]
		}
	} else if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, c.ProtocolError("unparseable getPrices payload", body, err)
	}

	entries := make([]providers.PriceEntry, 0, len(payload))
	for countryKey, services := range payload {
		country, err := strconv.Atoi(countryKey)
		if err != nil {
			return nil, c.ProtocolError("non-numeric country id "+countryKey, body, err)
		}

		serviceMap := make(map[string]providers.ServicePrice, len(services))
		for vendorCode, raw := range services {
			base := raw.Cost
			if base == 0 {
				base = raw.Price
			}
			canonical := c.CanonicalService(vendorCode)
			serviceMap[canonical] = buildServicePrice(canonical, base, raw.Count, raw.FreePriceMap)
		}
		if len(serviceMap) > 0 {
			entries = append(entries, providers.PriceEntry{Country: country, Services: serviceMap})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Country < entries[j].Country })
	return entries, nil
}

// GetTopCountriesByService pivots the getTopCountriesByService payload into
// []PriceEntry. Vendors list rows per service keyed either by index or as an
// array.
func (c *Client) GetTopCountriesByService(ctx context.Context, service string, freePrice bool) ([]providers.PriceEntry, error) {
	params := map[string]string{}
	vendorCode := ""
	if service != "" {
		var err error
		vendorCode, err = c.VendorService(service)
		if err != nil {
			return nil, err
		}
		params["service"] = vendorCode
	}
	if freePrice {
		params["freePrice"] = "true"
	}

	body, err := c.Request(ctx, "getTopCountriesByService", params)
	if err != nil {
		return nil, err
	}

	countries := map[int]map[string]providers.ServicePrice{}
	addEntry := func(canonical string, row topCountryEntry) {
		if row.Country == nil {
			return
		}
		base := row.Price
		if base == 0 {
			base = row.Cost
		}
		if countries[*row.Country] == nil {
			countries[*row.Country] = map[string]providers.ServicePrice{}
		}
		countries[*row.Country][canonical] = buildServicePrice(canonical, base, row.Count, row.FreePriceMap)
	}

	if service != "" {
		// Single-service request: rows arrive as a bare array, keyed by
		// index, or nested under the service code.
		raw := json.RawMessage(body)
		if strings.HasPrefix(body, "{") {
			var payload map[string]json.RawMessage
			if err := json.Unmarshal([]byte(body), &payload); err != nil {
				return nil, c.ProtocolError("unparseable getTopCountriesByService payload", body, err)
			}
			if nested, ok := payload[vendorCode]; ok {
				raw = nested
			}
		}
		rows, err := decodeTopRows(raw)
		if err != nil {
			return nil, c.ProtocolError("unparseable getTopCountriesByService rows", body, err)
		}
		for _, row := range rows {
			addEntry(service, row)
		}
	} else {
		// All-services request: a service-keyed object, or an array of such
		// objects.
		var groups []map[string]json.RawMessage
		if strings.HasPrefix(body, "[") {
			if err := json.Unmarshal([]byte(body), &groups); err != nil {
				return nil, c.ProtocolError("unparseable getTopCountriesByService payload", body, err)
			}
		} else {
			var payload map[string]json.RawMessage
			if err := json.Unmarshal([]byte(body), &payload); err != nil {
				return nil, c.ProtocolError("unparseable getTopCountriesByService payload", body, err)
			}
			groups = append(groups, payload)
		}
		for _, group := range groups {
			for svcCode, raw := range group {
				rows, err := decodeTopRows(raw)
				if err != nil {
					return nil, c.ProtocolError("unparseable getTopCountriesByService rows", body, err)
				}
				canonical := c.CanonicalService(svcCode)
				for _, row := range rows {
					addEntry(canonical, row)
				}
			}
		}
	}

	entries := make([]providers.PriceEntry, 0, len(countries))
	for country, services := range countries {
		entries = append(entries, providers.PriceEntry{Country: country, Services: services})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Country < entries[j].Country })
	return entries, nil
}

// decodeTopRows accepts both row encodings: a JSON array or an
// index-keyed object.
func decodeTopRows(raw json.RawMessage) ([]topCountryEntry, error) {
	var asList []topCountryEntry
	if err := json.Unmarshal(raw, &asList); err == nil {
		return asList, nil
	}

	var asMap map[string]topCountryEntry
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, err
	}
	rows := make([]topCountryEntry, 0, len(asMap))
	for _, row := range asMap {
		rows = append(rows, row)
	}
	return rows, nil
}

// buildServicePrice folds a base price, a count, and an optional free-price
// ladder into the normalized shape.
func buildServicePrice(service string, base float64, count int, freePriceMap map[string]float64) providers.ServicePrice {
	ladder := []float64{base}
	if len(freePriceMap) > 0 {
		ladder = ladder[:0]
		for priceKey := range freePriceMap {
			if price, err := strconv.ParseFloat(priceKey, 64); err == nil {
				ladder = append(ladder, price)
			}
		}
		sort.Float64s(ladder)
		if len(ladder) == 0 {
			ladder = []float64{base}
		}
	}

	return providers.ServicePrice{
		Service:  service,
		Cost:     ladder,
		MinPrice: ladder[0],
		MaxPrice: ladder[len(ladder)-1],
		Count:    count,
	}
}
