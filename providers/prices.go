package providers

// FilterPrices applies a PriceFilter client-side. Every adapter runs its
// results through this regardless of what its vendor filtered server-side,
// so filter semantics are identical across providers.
func FilterPrices(entries []PriceEntry, filter *PriceFilter) []PriceEntry {
	if filter == nil || (filter.Service == "" && filter.Country == nil) {
		return entries
	}

	out := make([]PriceEntry, 0, len(entries))
	for _, entry := range entries {
		if filter.Country != nil && entry.Country != *filter.Country {
			continue
		}
		services := entry.Services
		if filter.Service != "" {
			price, ok := entry.Services[filter.Service]
			if !ok {
				continue
			}
			services = map[string]ServicePrice{filter.Service: price}
		}
		out = append(out, PriceEntry{Country: entry.Country, Services: services})
	}
	return out
}
