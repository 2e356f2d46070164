package gateway

import (
	"errors"
	"strings"
)

var ErrProviderNotSupported = errors.New("provider is not supported")

type Registry struct {
	providers   map[string]Provider
	defaultCode string
}

// NewRegistry registers providers by code. The first one is the default used for new donations.
func NewRegistry(providers ...Provider) *Registry {
	items := make(map[string]Provider, len(providers))
	defaultCode := ""
	for _, p := range providers {
		items[p.Code()] = p
		if defaultCode == "" {
			defaultCode = p.Code()
		}
	}
	return &Registry{providers: items, defaultCode: defaultCode}
}

func (r *Registry) Get(code string) (Provider, error) {
	provider, ok := r.providers[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrProviderNotSupported
	}
	return provider, nil
}

func (r *Registry) Default() (Provider, error) {
	return r.Get(r.defaultCode)
}
