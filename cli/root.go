// Package cli implements the polyprompt command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the command line with ctx and releases everything the command
// opened.
func Execute(ctx context.Context, version string) error {
	a := newApp()
	defer a.close()
	return newRootCommand(a, version).ExecuteContext(ctx)
}

func newRootCommand(a *app, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "polyprompt",
		Short:         "Send prompts to Claude, OpenAI, Azure OpenAI, Gemini and Ollama",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "settings file (default ~/.config/polyprompt/settings.toml)")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	flags.StringVar(&a.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (overrides settings)")
	flags.DurationVar(&a.timeout, "timeout", 0, "abort requests after this long (0 disables)")

	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.AddCommand(
		newAskCommand(a),
		newChatCommand(a),
		newChainCommand(a),
		newCompareCommand(a),
		newProvidersCommand(a),
		newModelsCommand(a),
		newToolsCommand(a),
		newInitCommand(a),
		newConfigCommand(a),
		newCredentialsCommand(a),
	)
	return root
}
