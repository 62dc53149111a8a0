package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/italia/vocabtools/config"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the vocabtools configuration",
	}
	cmd.AddCommand(a.configInitCommand())
	return cmd
}

func (a *app) configInitCommand() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to a TOML file",
		Long: `Write the configuration in effect (built-in defaults merged with the
user, project and --config layers) so that it can be edited.`,
		RunE: a.action("Config creation", func(cmd *cobra.Command) (string, error) {
			if _, err := os.Stat(output); err == nil && !force {
				return "", &OutputExistsError{Path: output}
			}
			if err := a.cfg.SaveToFile(output); err != nil {
				return "", err
			}
			return "Created: " + output, nil
		}),
	}

	cmd.Flags().StringVar(&output, "output", config.ProjectConfigFile, "Output path for the configuration file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
