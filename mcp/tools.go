package mcp

import (
	"context"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// paramsArg is the single free-text argument every simulated tool takes.
const paramsArg = "params"

// simulatedTool is one canned tool. run only sees non-blank params.
type simulatedTool struct {
	name        string
	description string
	missing     string
	run         func(params string) string
}

// simulatedTools is the fixed tool table, in listing order. None of them
// touch the filesystem, network or a database.
var simulatedTools = []simulatedTool{
	{
		name:        "filesystem_read",
		description: "Read the contents of a file",
		missing:     "Error: please provide a file path",
		run: func(p string) string {
			return fmt.Sprintf("Simulated read of file: %s\nContent: this is simulated file content...", p)
		},
	},
	{
		name:        "filesystem_write",
		description: "Write content to a file",
		missing:     "Error: please provide a file path and content",
		run: func(p string) string {
			return fmt.Sprintf("Simulated write to file succeeded: %s", p)
		},
	},
	{
		name:        "web_search",
		description: "Search the web",
		missing:     "Error: please provide search keywords",
		run: func(p string) string {
			return fmt.Sprintf("Simulated web search results for '%s':\n1. Related result 1\n2. Related result 2\n3. Related result 3", p)
		},
	},
	{
		name:        "calculator",
		description: "Evaluate an arithmetic expression",
		missing:     "Error: please provide an expression",
		run: func(p string) string {
			if strings.Contains(p, "+") {
				return fmt.Sprintf("Calculated %s = 42 (simulated result)", p)
			}
			return fmt.Sprintf("Simulated result of '%s': 123.456", p)
		},
	},
	{
		name:        "database_query",
		description: "Run a SQL query",
		missing:     "Error: please provide a SQL query",
		run: func(p string) string {
			return fmt.Sprintf("Simulated database query results for '%s':\nFound 5 records\nRecord 1: [sample data]\nRecord 2: [sample data]", p)
		},
	},
}

func (t simulatedTool) definition() mcptypes.Tool {
	return mcptypes.NewTool(t.name,
		mcptypes.WithDescription(t.description),
		mcptypes.WithString(paramsArg,
			mcptypes.Description("Free-text parameters for the tool"),
		),
	)
}

func (t simulatedTool) handle(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
	params := req.GetString(paramsArg, "")
	if strings.TrimSpace(params) == "" {
		return mcptypes.NewToolResultText(t.missing), nil
	}
	return mcptypes.NewToolResultText(t.run(params)), nil
}

func registerTools(s *server.MCPServer) {
	for _, t := range simulatedTools {
		s.AddTool(t.definition(), t.handle)
	}
}
