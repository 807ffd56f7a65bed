package mcp

import (
	"context"
	"strings"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g, err := NewGateway(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func TestListAvailableTools(t *testing.T) {
	g := newTestGateway(t)

	names := g.ListAvailableTools(context.Background())
	assert.Equal(t, []string{
		"filesystem_read",
		"filesystem_write",
		"web_search",
		"calculator",
		"database_query",
	}, names)

	for _, info := range g.ToolInfos() {
		assert.NotEmpty(t, info.Description, info.Name)
	}
}

func TestCallTool(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	tests := []struct {
		tool   string
		params string
		want   string
	}{
		{"filesystem_read", "/tmp/a.txt", "Simulated read of file: /tmp/a.txt"},
		{"filesystem_write", "/tmp/b.txt hello", "Simulated write to file succeeded: /tmp/b.txt hello"},
		{"web_search", "golang", "Simulated web search results for 'golang'"},
		{"calculator", "1+1", "Calculated 1+1 = 42 (simulated result)"},
		{"calculator", "sqrt(2)", "Simulated result of 'sqrt(2)': 123.456"},
		{"database_query", "SELECT 1", "Found 5 records"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.params, func(t *testing.T) {
			assert.Contains(t, g.CallTool(ctx, tt.tool, tt.params), tt.want)
		})
	}
}

func TestCallToolMissingParams(t *testing.T) {
	g := newTestGateway(t)

	seen := map[string]bool{}
	for _, name := range g.ListAvailableTools(context.Background()) {
		got := g.CallTool(context.Background(), name, "   ")
		assert.True(t, strings.HasPrefix(got, "Error: please provide"), "%s: %q", name, got)
		assert.False(t, seen[got], "%s repeats another tool's message", name)
		seen[got] = true
	}
}

func TestCallUnknownTool(t *testing.T) {
	g := newTestGateway(t)
	assert.Equal(t, "Unknown tool: teleport", g.CallTool(context.Background(), "teleport", "mars"))
	assert.Equal(t, "Error: please provide an expression", g.CallTool(context.Background(), "calculator", ""))
}

func TestInTableOrder(t *testing.T) {
	listed := []mcptypes.Tool{
		{Name: "web_search"},
		{Name: "zzz_extra"},
		{Name: "calculator"},
		{Name: "filesystem_read"},
	}

	var names []string
	for _, tool := range inTableOrder(listed) {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"filesystem_read", "web_search", "calculator", "zzz_extra"}, names)
}
