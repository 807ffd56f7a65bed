package provider

import (
	"fmt"
	"log/slog"

	"polyprompt/config"
	"polyprompt/model"
)

// InitializeRegistry creates every provider instance for the application.
//
// This is the single entry point for provider initialization. It handles:
//   - Binding each identity to its settings block in cfg
//   - Creating all providers through NewProvider
//   - Graceful degradation (logs warnings but doesn't fail)
//
// Providers are built even without credentials; IsConfigured decides later
// whether they are usable.
//
// Example:
//
//	reg := provider.InitializeRegistry(cfg, logger)
//	names := reg.GetAvailableProviderNames()
func InitializeRegistry(cfg *config.Config, logger *slog.Logger) *Registry {
	builders := make(map[model.Identity]Builder, len(model.AllIdentities))
	for _, id := range model.AllIdentities {
		settings := cfg.Settings(id)
		builders[id] = func() (model.Provider, error) {
			return NewProvider(id, settings, logger)
		}
	}
	return BuildRegistry(cfg.DefaultIdentity(), builders, logger)
}

// BuildRegistry runs every builder in model.AllIdentities order and keeps the
// providers that construct. A builder that errors, panics or returns nil is
// logged at warn level and its identity left out; the others are unaffected.
// Builders for identities outside the closed set are ignored.
func BuildRegistry(defaultID model.Identity, builders map[model.Identity]Builder, logger *slog.Logger) *Registry {
	logger = config.OrDiscard(logger)

	r := &Registry{
		providers: make(map[model.Identity]model.Provider, len(builders)),
		defaultID: defaultID,
		logger:    logger,
	}

	for _, id := range model.AllIdentities {
		build, ok := builders[id]
		if !ok || build == nil {
			continue
		}

		p, err := safeBuild(build)
		if err == nil && p == nil {
			err = fmt.Errorf("builder returned no provider")
		}
		if err != nil {
			logger.Warn("[Registry] failed to initialize provider", "provider", id, "error", err)
			continue
		}

		r.providers[id] = p
		r.order = append(r.order, id)
		logger.Debug("[Registry] initialized provider",
			"provider", id, "model", p.GetModel(), "configured", p.IsConfigured())
	}

	return r
}

func safeBuild(build Builder) (p model.Provider, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = fmt.Errorf("panic during construction: %v", rec)
		}
	}()
	return build()
}
