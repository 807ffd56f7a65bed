package dispatch

import (
	"context"
	"time"

	"polyprompt/model"
)

// Comparison is one provider's result within CompareProviders.
type Comparison struct {
	Identity model.Identity
	Name     string
	Model    string
	Response string
	Elapsed  time.Duration
	Err      error
}

// CompareProviders sends text to each identity in turn. An empty ids list
// means every configured provider. A failing provider is recorded in its own
// entry and does not stop the others.
func (s *Service) CompareProviders(ctx context.Context, ids []model.Identity, text string) []Comparison {
	log := s.begin("CompareProviders", "providers", ids)

	if len(ids) == 0 {
		ids = s.providers.GetAvailableProviders()
	}

	results := make([]Comparison, 0, len(ids))
	for _, id := range ids {
		c := Comparison{Identity: id, Name: string(id)}

		p, err := s.providers.GetProvider(id)
		if err != nil {
			c.Err = s.failed(log, "provider lookup failed", err, "provider", id)
			results = append(results, c)
			continue
		}
		c.Name, c.Model = p.GetName(), p.GetModel()

		start := time.Now()
		c.Response, c.Err = s.send(ctx, log, p, text)
		c.Elapsed = time.Since(start)
		results = append(results, c)
	}
	return results
}
