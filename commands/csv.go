package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/italia/vocabtools/datapackage"
	"github.com/italia/vocabtools/tabular"
	"github.com/italia/vocabtools/types"
)

func (a *app) csvCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Create and validate CSV files",
	}
	cmd.AddCommand(a.csvCreateCommand(), a.csvValidateCommand())
	return cmd
}

func (a *app) csvCreateCommand() *cobra.Command {
	var (
		jsonld, descriptor, output string
		force                      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write the CSV of a framed JSON-LD file",
		Long: `Write the CSV of a framed JSON-LD file using the schema and dialect of
the data package resource. The CSV path defaults to the resource path;
--output rewrites the resource path in the descriptor.`,
		RunE: a.action("CSV creation", func(cmd *cobra.Command) (string, error) {
			if err := requireFiles(cmd, "jsonld", "datapackage"); err != nil {
				return "", err
			}

			doc, err := types.ReadDocument(jsonld)
			if err != nil {
				return "", err
			}
			validator, err := tabular.LoadValidator(descriptor, &tabular.ValidatorOptions{Logger: a.logger, Loader: a.loader})
			if err != nil {
				return "", err
			}
			resource, ctx, err := validator.CheckDescriptor()
			if err != nil {
				return "", err
			}

			dir := filepath.Dir(descriptor)
			target := filepath.Join(dir, filepath.FromSlash(resource.Path))
			if output != "" {
				target = output
			}
			if _, err := os.Stat(target); err == nil && !force {
				return "", &OutputExistsError{Path: target}
			}

			frame := types.NewFrame(map[string]interface{}{"@context": ctx}, resource.Schema.FieldNames())
			tab := tabular.New(doc, frame, &tabular.Options{
				Ignore: a.cfg.Tabular.IgnorePredicates,
				Logger: a.logger,
				Loader: a.loader,
			})
			if err := tab.Load(); err != nil {
				return "", err
			}
			if resource.Dialect != nil {
				if err := tab.SetDialect(resource.Dialect); err != nil {
					return "", err
				}
			}
			if err := tab.SetSchema(resource.Schema); err != nil {
				return "", err
			}

			pkg := validator.Package()
			if output != "" {
				if err := pointResource(pkg, dir, target); err != nil {
					return "", err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Creating CSV from %s\n", jsonld)
			if err := tab.ToCSV(target); err != nil {
				return "", err
			}
			if output != "" {
				if err := datapackage.Save(descriptor, pkg); err != nil {
					return "", err
				}
			}
			return "Created: " + target, nil
		}),
	}

	cmd.Flags().StringVar(&jsonld, "jsonld", "", "Path to the framed JSON-LD file")
	cmd.Flags().StringVar(&descriptor, "datapackage", "", "Path to the datapackage descriptor")
	cmd.Flags().StringVar(&output, "output", "", "Output path for the CSV file (default: the resource path)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing CSV file")
	for _, flag := range []string{"jsonld", "datapackage"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

// pointResource points the resource of pkg to target, stored relative to
// the descriptor directory, and checks that the descriptor stays valid.
func pointResource(pkg *datapackage.Package, dir, target string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return err
	}
	pkg.Resources[0].Path = filepath.ToSlash(rel)
	if err := datapackage.Validate(pkg); err != nil {
		return fmt.Errorf("--output must be inside %s: %w", absDir, err)
	}
	return nil
}

func (a *app) csvValidateCommand() *cobra.Command {
	var (
		ttl, descriptor, uri string
		minTriples           int
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the CSV of a data package is a subset of its vocabulary",
		Long: `Read the CSV of a data package, turn it into RDF through the
x-jsonld-context of its schema and check that every triple belongs to the
original vocabulary.`,
		RunE: a.action("CSV roundtrip validation", func(cmd *cobra.Command) (string, error) {
			if err := requireFiles(cmd, "ttl", "datapackage"); err != nil {
				return "", err
			}
			if !cmd.Flags().Changed("min-triples") {
				minTriples = a.cfg.Tabular.MinTriples
			}

			v, err := a.loadVocabulary(ttl, uri)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Validating CSV roundtrip for %s\n", descriptor)

			validator, err := tabular.LoadValidator(descriptor, &tabular.ValidatorOptions{
				Logger:   a.logger,
				Loader:   a.loader,
				NewIndex: a.newIndex(),
			})
			if err != nil {
				return "", err
			}
			if err := validator.Load(); err != nil {
				return "", err
			}
			stats, err := validator.Validate(v.Graph(), minTriples)
			a.metrics.ObserveRoundtrip(stats)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("CSV roundtrip validation passed (%d rows, %d triples)", stats.CSVRows, stats.CSVTriples), nil
		}),
	}

	cmd.Flags().StringVar(&ttl, "ttl", "", "Path to the original RDF vocabulary file in Turtle format")
	cmd.Flags().StringVar(&descriptor, "datapackage", "", "Path to the datapackage descriptor with the CSV and its context")
	cmd.Flags().StringVar(&uri, "vocabulary-uri", "", "URI of the vocabulary (ConceptScheme) to validate")
	cmd.Flags().IntVar(&minTriples, "min-triples", 1, "Least number of triples the CSV must produce")
	for _, flag := range []string{"ttl", "datapackage", "vocabulary-uri"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}
