package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"polyprompt/config"
	"polyprompt/model"
)

func newInitCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.settingsPath()
			if err := config.WriteConfigTemplate(path, force); err != nil {
				return err
			}
			a.println(SuccessStyle.Render("Wrote " + path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing settings file")
	return cmd
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change the settings file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings file location",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				a.println(a.settingsPath())
			},
		},
		&cobra.Command{
			Use:   "set-default <provider>",
			Short: "Change default_provider in the settings file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProvider(args[0])
				if err != nil {
					return err
				}
				path := a.settingsPath()
				if !config.FileExists(path) {
					if err := config.WriteConfigTemplate(path, false); err != nil {
						return err
					}
				}
				if err := config.SetDefaultProvider(path, string(id)); err != nil {
					return err
				}
				a.println(SuccessStyle.Render(fmt.Sprintf("Default provider set to %s", id)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration with keys masked",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.loadConfig(); err != nil {
					return err
				}
				a.printf("%s", describeConfig(a.cfg))
				return nil
			},
		},
	)
	return cmd
}

func describeConfig(cfg *config.Config) string {
	rows := [][]string{{"PROVIDER", "MODEL", "MAX TOKENS", "API KEY", "ENDPOINT"}}
	for _, id := range model.AllIdentities {
		s := cfg.Settings(id)
		endpoint := s.BaseURL
		switch {
		case s.Endpoint != "":
			endpoint = s.Endpoint
		case s.Host != "":
			endpoint = s.Host
		}
		modelName := s.Model
		if s.DeploymentName != "" {
			modelName = s.DeploymentName
		}
		rows = append(rows, []string{string(id), modelName, fmt.Sprint(s.MaxTokens), maskKey(s.APIKey), endpoint})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "default_provider: %s\n", cfg.DefaultProvider)
	fmt.Fprintf(&sb, "data_directory:   %s\n", cfg.DataDir())
	fmt.Fprintf(&sb, "log level:        %s\n", cfg.Logging.Level)
	fmt.Fprintf(&sb, "credentials:      %s\n\n", cfg.Credentials.Method)
	sb.WriteString(table(rows))
	return sb.String()
}

// maskKey keeps the last four characters of long keys.
func maskKey(key string) string {
	switch {
	case key == "":
		return "-"
	case len(key) <= 8:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}
