package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/xmrest/internal/config"
	"github.com/fivetwenty-io/xmrest/internal/constants"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long:  "Show the resolved configuration and where it is read from",
	}

	cmd.AddCommand(a.newConfigShowCommand())
	cmd.AddCommand(a.newConfigPathCommand())

	return cmd
}

func (a *app) newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Long:  "Display the configuration after merging defaults, config file, environment and flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *a.config
			if shown.AuthHeaderValue != "" {
				shown.AuthHeaderValue = constants.MaskedSecret
			}

			return a.renderer(cmd.OutOrStdout()).properties(shown, configRows(&shown))
		},
	}
}

func (a *app) newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.viper.ConfigFileUsed()
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}

				path = defaultPath + " (not found)"
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}
}

func configRows(cfg *config.Config) [][2]string {
	authValue := cfg.AuthHeaderValue
	if authValue == "" {
		authValue = constants.NotAvailable
	}

	rows := [][2]string{
		{"Base URL", cfg.BaseURL},
		{"API Version", strconv.Itoa(cfg.APIVersion)},
		{"Auth Header", cfg.AuthHeaderName},
		{"Auth Value", authValue},
		{"Page Parameter", cfg.PageParameter},
		{"Timeout", cfg.Timeout.String()},
		{"Retries", strconv.Itoa(cfg.RetryMax)},
		{"Concurrency", strconv.Itoa(cfg.Concurrency)},
		{"User Agent", cfg.UserAgent},
		{"Output", cfg.Output},
		{"Log Level", cfg.Log.Level},
		{"Log Format", cfg.Log.Format},
	}

	names := make([]string, 0, len(cfg.Headers))
	for name := range cfg.Headers {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		rows = append(rows, [2]string{"Header " + name, cfg.Headers[name]})
	}

	return rows
}
