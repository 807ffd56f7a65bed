package mcp

// ToolInfo describes one tool offered by the gateway.
type ToolInfo struct {
	Name        string
	Description string
}
