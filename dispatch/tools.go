package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"polyprompt/model"
)

// ErrNoToolGateway is returned by ProcessWithTools when the service was built
// without a ToolCaller.
var ErrNoToolGateway = errors.New("no tool gateway configured")

const toolPlanTemplate = `Analyze the following user request and decide which tools are needed to complete it.

User request: %s

Available tools:
- filesystem_read: read a file
- filesystem_write: write a file
- web_search: search the web
- calculator: evaluate an expression
- database_query: query a database

Reply with the names of the tools to use and a short explanation. If no tool is needed, reply "no tools needed".`

const toolAnswerTemplate = `Using the information below, give the user a complete answer.

Original request: %s
AI analysis: %s
Tool results: %s

Provide a complete and helpful answer.`

// plannedTools are the tools ProcessWithTools will run when the plan names them.
var plannedTools = []struct {
	name  string
	label string
}{
	{"calculator", "Calculation result"},
	{"web_search", "Search result"},
}

// ProcessWithTools answers text with provider id in three steps: the provider
// plans which tools it needs, the planned calculator and web_search tools run
// on the original request, and the provider writes the final answer from the
// tool results.
func (s *Service) ProcessWithTools(ctx context.Context, id model.Identity, text string) (string, error) {
	log := s.begin("ProcessWithTools", "provider", id)

	if s.tools == nil {
		return "", s.failed(log, "tool processing unavailable", ErrNoToolGateway)
	}

	p, err := s.providers.GetProvider(id)
	if err != nil {
		return "", s.failed(log, "provider lookup failed", err)
	}

	plan, err := s.send(ctx, log, p, fmt.Sprintf(toolPlanTemplate, text))
	if err != nil {
		return "", err
	}

	var results []string
	if !strings.Contains(strings.ToLower(plan), "no tools needed") {
		for _, t := range plannedTools {
			if !strings.Contains(plan, t.name) {
				continue
			}
			log.Info("[Dispatch] calling tool", "tool", t.name)
			results = append(results, t.label+": "+s.tools.CallTool(ctx, t.name, text))
		}
	}

	return s.send(ctx, log, p, fmt.Sprintf(toolAnswerTemplate, text, plan, strings.Join(results, "; ")))
}
