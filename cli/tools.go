package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"polyprompt/mcp"
)

func newToolsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and run the simulated tools",
	}
	cmd.AddCommand(
		newToolsListCommand(a),
		newToolsCallCommand(a),
		newToolsServeCommand(a),
		newToolsAskCommand(a),
	)
	return cmd
}

// gateway starts the tool gateway without touching the providers.
func (a *app) gateway(cmd *cobra.Command) (*mcp.Gateway, error) {
	if a.tools != nil {
		return a.tools, nil
	}
	if err := a.loadConfig(); err != nil {
		return nil, err
	}
	g, err := mcp.NewGateway(cmd.Context(), a.logger)
	if err != nil {
		return nil, err
	}
	a.tools = g
	return g, nil
}

func newToolsListCommand(a *app) *cobra.Command {
	var schema string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.gateway(cmd)
			if err != nil {
				return err
			}

			if schema != "" {
				id, err := parseProvider(schema)
				if err != nil {
					return err
				}
				defs, err := mcp.ToolSchemas(id, g.Tools())
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(defs, "", "  ")
				if err != nil {
					return err
				}
				a.println(string(out))
				return nil
			}

			rows := [][]string{{"TOOL", "DESCRIPTION"}}
			for _, t := range g.ToolInfos() {
				rows = append(rows, []string{t.Name, t.Description})
			}
			a.printf("%s", table(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "", "print tool definitions in a provider's request format")
	return cmd
}

func newToolsCallCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [params...]",
		Short: "Run one tool",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.gateway(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			a.println(g.CallTool(ctx, args[0], strings.Join(args[1:], " ")))
			return nil
		},
	}
}

func newToolsServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Expose the tools as an MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			return mcp.ServeStdio(cmd.Context(), a.in, a.out, a.logger)
		},
	}
}

func newToolsAskCommand(a *app) *cobra.Command {
	var (
		providerName string
		opts         outputOptions
	)

	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Let a provider plan tool use, run the tools and answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.promptText(args)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.setupProviders(ctx); err != nil {
				return err
			}

			id := a.registry.DefaultIdentity()
			if providerName != "" {
				if id, err = parseProvider(providerName); err != nil {
					return err
				}
			}

			reply, err := a.service.ProcessWithTools(ctx, id, text)
			if err != nil {
				return err
			}
			a.emit(opts, reply)
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "provider to use (default provider when empty)")
	addOutputFlags(cmd, &opts)
	return cmd
}
