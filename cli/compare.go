package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"polyprompt/model"
)

func newCompareCommand(a *app) *cobra.Command {
	var (
		names []string
		opts  outputOptions
	)

	cmd := &cobra.Command{
		Use:   "compare [prompt...]",
		Short: "Send the same prompt to several providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.promptText(args)
			if err != nil {
				return err
			}

			var ids []model.Identity
			for _, name := range names {
				id, err := parseProvider(name)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.setupProviders(ctx); err != nil {
				return err
			}

			results := a.service.CompareProviders(ctx, ids, text)
			if len(results) == 0 {
				return model.ErrNoProvidersConfigured
			}

			var all strings.Builder
			failed := 0
			for i, r := range results {
				if i > 0 {
					a.println()
				}

				title := r.Name
				if r.Model != "" {
					title = fmt.Sprintf("%s (%s)", r.Name, r.Model)
				}
				a.println(header(title))

				if r.Err != nil {
					failed++
					a.println(ErrorStyle.Render("Error: " + r.Err.Error()))
					continue
				}
				a.emit(outputOptions{render: opts.render}, r.Response)
				a.println(DimStyle.Render(fmt.Sprintf("(%s)", r.Elapsed.Round(time.Millisecond))))
				fmt.Fprintf(&all, "=== %s ===\n%s\n\n", title, r.Response)
			}

			if opts.copy && all.Len() > 0 {
				a.copyToClipboard(strings.TrimSpace(all.String()))
			}
			if failed == len(results) {
				return fmt.Errorf("all %d providers failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&names, "providers", "p", nil, "providers to compare (default: every configured provider)")
	addOutputFlags(cmd, &opts)
	return cmd
}
