package provider

import (
	"context"
	"fmt"
	"time"

	"polyprompt/model"
)

// PingResult is the outcome of checking one provider's connectivity.
type PingResult struct {
	Identity model.Identity
	Name     string
	Valid    bool
	Latency  time.Duration
	Err      error
}

// PingProviders checks every registered provider in order. Unconfigured
// providers are reported invalid without a network call; providers that
// cannot ping are reported valid on configuration alone.
func (r *Registry) PingProviders(ctx context.Context) []PingResult {
	results := make([]PingResult, 0, len(r.order))
	for _, id := range r.order {
		p := r.providers[id]
		res := PingResult{Identity: id, Name: p.GetName()}

		if !p.IsConfigured() {
			res.Err = &model.NotAvailableError{Identity: id}
			results = append(results, res)
			continue
		}

		pinger, ok := p.(model.Pinger)
		if !ok {
			res.Valid = true
			results = append(results, res)
			continue
		}

		start := time.Now()
		if err := pinger.Ping(ctx); err != nil {
			res.Err = fmt.Errorf("connection failed: %w", err)
		} else {
			res.Valid = true
			r.logger.Debug("[Registry] provider ping successful", "provider", id)
		}
		res.Latency = time.Since(start)
		results = append(results, res)
	}
	return results
}
