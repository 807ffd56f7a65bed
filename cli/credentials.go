package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCredentialsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage API keys kept in the credential store",
		Long: "Manage API keys kept outside settings.toml. The store is selected by\n" +
			"[credentials] method in the settings file (plaintext or ssh_key).",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <provider> [api-key]",
			Short: "Store an API key (read from stdin when omitted)",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProvider(args[0])
				if err != nil {
					return err
				}

				key := ""
				if len(args) == 2 {
					key = args[1]
				} else {
					line, err := bufio.NewReader(a.in).ReadString('\n')
					if err != nil && line == "" {
						return fmt.Errorf("failed to read API key: %w", err)
					}
					key = strings.TrimSpace(line)
				}
				if key == "" {
					return fmt.Errorf("empty API key")
				}

				if err := a.loadConfig(); err != nil {
					return err
				}
				if err := a.cfg.UpdateProviderCredential(string(id), key); err != nil {
					return err
				}
				a.println(SuccessStyle.Render("Stored API key for " + string(id)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <provider>",
			Short: "Remove a stored API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProvider(args[0])
				if err != nil {
					return err
				}
				if err := a.loadConfig(); err != nil {
					return err
				}
				if err := a.cfg.UpdateProviderCredential(string(id), ""); err != nil {
					return err
				}
				a.println(SuccessStyle.Render("Removed API key for " + string(id)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List providers with a stored API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.loadConfig(); err != nil {
					return err
				}
				store, err := a.cfg.CredentialStore()
				if err != nil {
					return err
				}
				for _, k := range store.Keys() {
					a.println(k + "  " + maskKey(store.Get(k)))
				}
				return nil
			},
		},
	)
	return cmd
}
