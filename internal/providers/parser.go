package providers

import "strings"

// ProviderRef names one entry of a "name[:alias]|name[:alias]" list. The alias
// selects which API key environment variable the provider reads.
type ProviderRef struct {
	Raw      string
	Name     string
	KeyAlias string
}

// ParseProviderList keeps list order and drops blank and repeated entries. An
// empty list means the mock provider.
func ParseProviderList(raw string) []ProviderRef {
	var out []ProviderRef
	seen := map[string]bool{}
	for _, entry := range strings.Split(raw, "|") {
		entry = strings.TrimSpace(entry)
		if entry == "" || seen[entry] {
			continue
		}
		seen[entry] = true
		name, alias, _ := strings.Cut(entry, ":")
		out = append(out, ProviderRef{
			Raw:      entry,
			Name:     strings.ToLower(strings.TrimSpace(name)),
			KeyAlias: strings.TrimSpace(alias),
		})
	}
	if len(out) == 0 {
		return []ProviderRef{{Raw: "mock", Name: "mock"}}
	}
	return out
}
