package ai

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/logger"
)

var (
	ErrInvalidModelFormat = errors.New("invalid model format, expected provider:model")
	ErrProviderNotFound   = errors.New("provider not found")
)

type ProviderRegistry struct {
	providers      map[string]Provider
	providersMutex sync.RWMutex
	logger         logger.Logger
}

func NewProviderRegistry(log logger.Logger) *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]Provider),
		logger:    log,
	}
}

// NewProviderRegistryFromConfig registers every configured provider that has
// an API key.
func NewProviderRegistryFromConfig(cfg config.AIConfig, httpClient *http.Client, log logger.Logger) *ProviderRegistry {
	r := NewProviderRegistry(log)
	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := cfg.Providers[name]
		apiKey := p.GetAPIKey()
		if apiKey == "" {
			log.WithField("provider", name).Warn("Provider has no API key, skipping")
			continue
		}
		switch p.Type {
		case "", ProviderOpenai:
			r.RegisterProvider(name, NewOpenAICompatibleClient(name, p.BaseURL, apiKey, log, httpClient))
		default:
			log.WithFields(logger.Fields{
				"provider": name,
				"type":     p.Type,
			}).Warn("Unsupported provider type, skipping")
		}
	}
	return r
}

func (r *ProviderRegistry) RegisterProvider(name string, provider Provider) {
	r.providersMutex.Lock()
	defer r.providersMutex.Unlock()
	r.providers[name] = provider
}

func (r *ProviderRegistry) GetProvider(name string) (Provider, error) {
	r.providersMutex.RLock()
	defer r.providersMutex.RUnlock()

	if provider, ok := r.providers[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
}

func (r *ProviderRegistry) Providers() []string {
	r.providersMutex.RLock()
	defer r.providersMutex.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveModel returns the provider and bare model name for a provider:model spec.
func (r *ProviderRegistry) ResolveModel(modelSpec string) (Provider, string, error) {
	providerName, modelName, err := ParseModelSpec(modelSpec)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrInvalidModelFormat, modelSpec)
	}

	provider, err := r.GetProvider(providerName)
	if err != nil {
		return nil, "", err
	}
	return provider, modelName, nil
}
