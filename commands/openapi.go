package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) openapiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Create OpenAPI schemas",
	}

	var jsonld, frame, output string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create the OpenAPI schema of a framed vocabulary (not implemented)",
		RunE: a.action("OpenAPI creation", func(cmd *cobra.Command) (string, error) {
			if err := requireFiles(cmd, "jsonld", "frame"); err != nil {
				return "", err
			}
			return "", fmt.Errorf("openapi create: %w", ErrNotImplemented)
		}),
	}
	create.Flags().StringVar(&jsonld, "jsonld", "", "Path to the framed JSON-LD file")
	create.Flags().StringVar(&frame, "frame", "", "Path to the JSON-LD frame file")
	create.Flags().StringVar(&output, "output", "", "Output path for the OpenAPI schema")
	for _, flag := range []string{"jsonld", "frame", "output"} {
		_ = create.MarkFlagRequired(flag)
	}

	cmd.AddCommand(create)
	return cmd
}
