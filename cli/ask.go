package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"polyprompt/model"
)

func addOutputFlags(cmd *cobra.Command, opts *outputOptions) {
	cmd.Flags().BoolVar(&opts.render, "render", false, "render the reply as markdown")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the reply to the clipboard")
}

// promptText joins args, or reads stdin when there are none.
func (a *app) promptText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(a.in)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("empty prompt")
	}
	return text, nil
}

func newAskCommand(a *app) *cobra.Command {
	var (
		providerName string
		stream       bool
		opts         outputOptions
	)

	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Send one prompt to a provider",
		Long: "Send one prompt to a provider. Without --provider the default provider\n" +
			"answers, falling back to any configured one. The prompt is read from\n" +
			"stdin when no arguments are given.",
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

			if stream {
				id, err := a.targetIdentity(providerName)
				if err != nil {
					return err
				}
				return a.streamReply(a.service.ProcessWithProviderStream(ctx, id, text), opts)
			}

			var reply string
			if providerName == "" {
				reply, err = a.service.ProcessWithDefaultProvider(ctx, text)
			} else {
				id, perr := parseProvider(providerName)
				if perr != nil {
					return perr
				}
				reply, err = a.service.ProcessWithProvider(ctx, id, text)
			}
			if err != nil {
				return err
			}

			a.emit(opts, reply)
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "provider to ask (claude, openai, azure-openai, gemini, ollama)")
	cmd.Flags().BoolVarP(&stream, "stream", "s", false, "print the reply as it arrives")
	addOutputFlags(cmd, &opts)
	return cmd
}

// targetIdentity picks the provider identity for a command: the named provider,
// or the one GetDefaultProvider resolves to when name is empty.
func (a *app) targetIdentity(name string) (model.Identity, error) {
	if name != "" {
		return parseProvider(name)
	}
	return a.registry.DefaultAvailableIdentity()
}

// streamReply prints chunks as they arrive. Rendering needs the whole text,
// so with --render the reply is rendered once the stream ends.
func (a *app) streamReply(s model.Stream, opts outputOptions) error {
	var full strings.Builder
	for chunk, err := range s {
		if err != nil {
			if full.Len() > 0 {
				a.println()
			}
			return err
		}
		full.WriteString(chunk)
		if !opts.render {
			a.printf("%s", chunk)
		}
	}

	if opts.render {
		a.printf("%s", renderMarkdown(full.String(), renderWidth))
	} else {
		a.println()
	}
	if opts.copy {
		a.copyToClipboard(full.String())
	}
	return nil
}
