package provider

import (
	"fmt"
	"log/slog"

	"polyprompt/model"
)

// Registry maps each constructed identity to its provider. It is built once by
// BuildRegistry and never written afterwards, so concurrent reads are safe.
// Readiness is not cached: every lookup re-checks IsConfigured.
type Registry struct {
	providers map[model.Identity]model.Provider
	order     []model.Identity
	defaultID model.Identity
	logger    *slog.Logger
}

// GetProvider returns the provider for id if it is registered and configured,
// otherwise a *model.NotAvailableError naming id.
func (r *Registry) GetProvider(id model.Identity) (model.Provider, error) {
	p, ok := r.providers[id]
	if !ok || !p.IsConfigured() {
		return nil, &model.NotAvailableError{Identity: id}
	}
	return p, nil
}

// GetDefaultProvider returns the default provider when it is configured.
// Otherwise it falls back to the first configured provider in registration
// order; callers must not depend on which one that is.
func (r *Registry) GetDefaultProvider() (model.Provider, error) {
	id, err := r.DefaultAvailableIdentity()
	if err != nil {
		return nil, err
	}
	return r.providers[id], nil
}

// DefaultAvailableIdentity resolves the identity GetDefaultProvider would
// answer with.
func (r *Registry) DefaultAvailableIdentity() (model.Identity, error) {
	if _, err := r.GetProvider(r.defaultID); err == nil {
		return r.defaultID, nil
	}

	for _, id := range r.order {
		if r.providers[id].IsConfigured() {
			r.logger.Debug("[Registry] default provider unavailable, falling back",
				"default", r.defaultID, "fallback", id)
			return id, nil
		}
	}
	return "", model.ErrNoProvidersConfigured
}

// GetAllProviders returns every configured provider in registration order.
func (r *Registry) GetAllProviders() []model.Provider {
	var out []model.Provider
	for _, id := range r.order {
		if p := r.providers[id]; p.IsConfigured() {
			out = append(out, p)
		}
	}
	return out
}

// GetAvailableProviders returns the identities of the configured providers.
func (r *Registry) GetAvailableProviders() []model.Identity {
	var out []model.Identity
	for _, id := range r.order {
		if r.providers[id].IsConfigured() {
			out = append(out, id)
		}
	}
	return out
}

// GetAvailableProviderNames returns "Name (model)" labels for the configured
// providers.
func (r *Registry) GetAvailableProviderNames() []string {
	var out []string
	for _, p := range r.GetAllProviders() {
		out = append(out, Label(p))
	}
	return out
}

func (r *Registry) DefaultIdentity() model.Identity {
	return r.defaultID
}

// Registered returns every constructed identity, configured or not.
func (r *Registry) Registered() []model.Identity {
	return append([]model.Identity(nil), r.order...)
}

// Lookup returns the constructed provider for id without the readiness check.
func (r *Registry) Lookup(id model.Identity) (model.Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// Label formats a provider as "Name (model)".
func Label(p model.Provider) string {
	return fmt.Sprintf("%s (%s)", p.GetName(), p.GetModel())
}
