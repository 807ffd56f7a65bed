package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"polyprompt/model"
)

func newProvidersCommand(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List providers and whether they are configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.setupProviders(ctx); err != nil {
				return err
			}

			if check {
				return a.printPingResults(ctx)
			}

			rows := [][]string{{"PROVIDER", "NAME", "MODEL", "STATUS"}}
			for _, id := range model.AllIdentities {
				p, ok := a.registry.Lookup(id)
				if !ok {
					rows = append(rows, []string{string(id), "-", "-", ErrorStyle.Render("failed to initialize")})
					continue
				}

				status := DimStyle.Render("not configured")
				if p.IsConfigured() {
					status = SuccessStyle.Render("ready")
				}
				if id == a.registry.DefaultIdentity() {
					status += " (default)"
				}
				rows = append(rows, []string{string(id), p.GetName(), p.GetModel(), status})
			}

			a.printf("%s", table(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "contact every configured provider")
	return cmd
}

func (a *app) printPingResults(ctx context.Context) error {
	rows := [][]string{{"PROVIDER", "STATUS", "LATENCY", "DETAIL"}}
	healthy := 0
	for _, r := range a.registry.PingProviders(ctx) {
		status, detail := ErrorStyle.Render("failed"), ""
		if r.Valid {
			status = SuccessStyle.Render("ok")
			healthy++
		}
		if r.Err != nil {
			detail = r.Err.Error()
		}

		latency := "-"
		if r.Latency > 0 {
			latency = strconv.FormatInt(r.Latency.Milliseconds(), 10) + "ms"
		}
		rows = append(rows, []string{r.Name, status, latency, detail})
	}

	a.printf("%s", table(rows))
	if healthy == 0 {
		return fmt.Errorf("no provider is reachable")
	}
	return nil
}

func newModelsCommand(a *app) *cobra.Command {
	var providerName string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models a provider offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.setupProviders(ctx); err != nil {
				return err
			}

			ids := a.registry.GetAvailableProviders()
			if providerName != "" {
				id, err := parseProvider(providerName)
				if err != nil {
					return err
				}
				ids = []model.Identity{id}
			}
			if len(ids) == 0 {
				return model.ErrNoProvidersConfigured
			}

			for i, id := range ids {
				p, err := a.registry.GetProvider(id)
				if err != nil {
					return err
				}
				lister, ok := p.(model.ModelLister)
				if !ok {
					return fmt.Errorf("%s cannot list models", p.GetName())
				}

				models, err := lister.ListModels(ctx)
				if err != nil {
					return err
				}

				if i > 0 {
					a.println()
				}
				a.println(header(p.GetName()))
				for _, m := range models {
					marker := "  "
					if m.Name == p.GetModel() {
						marker = "* "
					}
					a.println(marker + m.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "provider to query (default: every configured provider)")
	return cmd
}
