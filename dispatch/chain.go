package dispatch

import (
	"context"
	"fmt"

	"polyprompt/model"
)

const analysisTemplate = `Analyze the following AI response and provide:
1. A summary of the key points
2. Additional insights or alternative perspectives
3. Suggestions for improvement

Original question: %s

AI response: %s`

// AnalysisPrompt builds the prompt the second provider of a chain receives.
func AnalysisPrompt(question, answer string) string {
	return fmt.Sprintf(analysisTemplate, question, answer)
}

// ProcessIntegratedApproach chains the first two configured providers: the
// first answers text, the second analyzes that answer. With fewer than two
// configured providers it behaves like ProcessWithDefaultProvider. A failure
// in either step fails the call.
func (s *Service) ProcessIntegratedApproach(ctx context.Context, text string) (string, error) {
	log := s.begin("ProcessIntegratedApproach")

	ids := s.providers.GetAvailableProviders()
	if len(ids) < 2 {
		log.Info("[Dispatch] fewer than two providers configured, using default", "configured", len(ids))
		return s.ProcessWithDefaultProvider(ctx, text)
	}

	first, err := s.providers.GetProvider(ids[0])
	if err != nil {
		return "", s.failed(log, "provider lookup failed", err)
	}
	second, err := s.providers.GetProvider(ids[1])
	if err != nil {
		return "", s.failed(log, "provider lookup failed", err)
	}

	answer, err := s.send(ctx, log, first, text)
	if err != nil {
		return "", err
	}
	analysis, err := s.send(ctx, log, second, AnalysisPrompt(text, answer))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("=== %s (%s) Response ===\n%s\n\n=== %s (%s) Analysis ===\n%s",
		first.GetName(), first.GetModel(), answer,
		second.GetName(), second.GetModel(), analysis), nil
}
