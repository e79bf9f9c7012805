package commands

import (
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the xmrest CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			output, _ := cmd.Flags().GetString("output")

			return renderer{format: output, out: cmd.OutOrStdout()}.properties(
				VersionInfo{Version: info.Version, Commit: info.Commit, Built: info.Date},
				[][2]string{
					{"Version", info.Version},
					{"Commit", info.Commit},
					{"Built", info.Date},
				},
			)
		},
	}
}
