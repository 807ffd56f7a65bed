package mcp

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"polyprompt/config"
)

// Gateway runs tools by name. It talks to the in-process tool server through
// an MCP client, so the same code path would serve an external server.
type Gateway struct {
	client *client.Client
	logger *slog.Logger

	mu    sync.RWMutex
	tools []mcptypes.Tool
}

// NewGateway starts an in-process tool server, initializes a client against
// it and caches the advertised tools.
func NewGateway(ctx context.Context, logger *slog.Logger) (*Gateway, error) {
	logger = config.OrDiscard(logger)

	c, err := client.NewInProcessClient(NewServer())
	if err != nil {
		return nil, fmt.Errorf("failed to create tool client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start tool client: %w", err)
	}

	initReq := mcptypes.InitializeRequest{
		Params: mcptypes.InitializeParams{
			ProtocolVersion: mcptypes.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcptypes.ClientCapabilities{},
			ClientInfo: mcptypes.Implementation{
				Name:    "polyprompt",
				Version: serverVersion,
			},
		},
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize tool server: %w", err)
	}

	g := &Gateway{client: c, logger: logger}
	if _, err := g.refresh(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return g, nil
}

func (g *Gateway) refresh(ctx context.Context) ([]mcptypes.Tool, error) {
	res, err := g.client.ListTools(ctx, mcptypes.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	tools := inTableOrder(res.Tools)

	g.mu.Lock()
	g.tools = tools
	g.mu.Unlock()

	g.logger.Debug("[MCP] tools loaded", "count", len(tools))
	return tools, nil
}

// inTableOrder sorts listed tools into simulatedTools order. The server lists
// by name; names it does not know go last.
func inTableOrder(tools []mcptypes.Tool) []mcptypes.Tool {
	rank := make(map[string]int, len(simulatedTools))
	for i, t := range simulatedTools {
		rank[t.name] = i
	}
	pos := func(name string) int {
		if i, ok := rank[name]; ok {
			return i
		}
		return len(simulatedTools)
	}

	sorted := append([]mcptypes.Tool(nil), tools...)
	slices.SortStableFunc(sorted, func(a, b mcptypes.Tool) int {
		return cmp.Compare(pos(a.Name), pos(b.Name))
	})
	return sorted
}

// Tools returns the cached tool definitions.
func (g *Gateway) Tools() []mcptypes.Tool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]mcptypes.Tool(nil), g.tools...)
}

// ListAvailableTools returns the tool names in simulatedTools order.
func (g *Gateway) ListAvailableTools(ctx context.Context) []string {
	tools := g.Tools()
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}

// ToolInfos returns name and description of every tool.
func (g *Gateway) ToolInfos() []ToolInfo {
	tools := g.Tools()
	infos := make([]ToolInfo, len(tools))
	for i, t := range tools {
		infos[i] = ToolInfo{Name: t.Name, Description: t.Description}
	}
	return infos
}

func (g *Gateway) known(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, t := range g.tools {
		if t.Name == name {
			return true
		}
	}
	return false
}

// CallTool runs name with params and returns its text output. It never fails:
// unknown tools and call errors come back as text.
func (g *Gateway) CallTool(ctx context.Context, name, params string) string {
	g.logger.Info("[MCP] calling tool", "tool", name, "params", params)

	if !g.known(name) {
		g.logger.Warn("[MCP] unknown tool", "tool", name)
		return "Unknown tool: " + name
	}

	res, err := g.client.CallTool(ctx, mcptypes.CallToolRequest{
		Params: mcptypes.CallToolParams{
			Name:      name,
			Arguments: map[string]any{paramsArg: params},
		},
	})
	if err != nil {
		g.logger.Error("[MCP] tool call failed", "tool", name, "error", err)
		return fmt.Sprintf("Error calling MCP tool %s: %v", name, err)
	}

	g.logger.Info("[MCP] tool completed", "tool", name)
	return resultText(res)
}

func (g *Gateway) Close() error {
	return g.client.Close()
}

// resultText joins the text content blocks of res.
func resultText(res *mcptypes.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcptypes.TextContent:
			parts = append(parts, tc.Text)
		case *mcptypes.TextContent:
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
