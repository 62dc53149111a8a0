package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/italia/vocabtools/datapackage"
	"github.com/italia/vocabtools/projector"
	"github.com/italia/vocabtools/tabular"
	"github.com/italia/vocabtools/types"
	"github.com/italia/vocabtools/vocabulary"
)

func (a *app) datapackageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datapackage",
		Short: "Create and validate Frictionless data package descriptors",
	}
	cmd.AddCommand(a.datapackageCreateCommand(), a.datapackageValidateCommand())
	return cmd
}

func (a *app) datapackageCreateCommand() *cobra.Command {
	var ttl, frame, uri, output, lang, jsonldType, keyBase string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the data package descriptor of a vocabulary",
		Long: `Create the data package descriptor of a vocabulary. Package metadata
comes from the concept scheme; the single CSV resource is typed from the
frame, whose context is embedded as x-jsonld-context.`,
		RunE: a.action("Datapackage creation", func(cmd *cobra.Command) (string, error) {
			if err := requireFiles(cmd, "ttl", "frame"); err != nil {
				return "", err
			}
			if jsonldType != "" {
				return "", fmt.Errorf("--jsonld-type: %w", ErrNotImplemented)
			}

			v, err := a.loadVocabulary(ttl, uri)
			if err != nil {
				return "", err
			}
			meta, err := v.Metadata()
			if err != nil {
				return "", err
			}
			if lang == "" {
				if _, err := meta.Language(); errors.Is(err, vocabulary.ErrMissingLanguage) {
					lang = a.cfg.Vocabulary.DefaultLanguage
				}
			}

			f, err := types.ReadFrame(frame)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Creating datapackage metadata for %s\n", uri)
			callbacks := []projector.Callback{projector.SelectFields(f)}
			if keyBase != "" {
				callbacks = append(callbacks, projector.AddKeyField(keyBase))
			}
			doc, err := v.Project(f, a.cfg.Framing.BatchSize, callbacks...)
			if err != nil {
				return "", err
			}
			a.metrics.ObserveFraming(doc.Statistics)

			// the projected context carries the detached key term
			columns := types.NewFrame(map[string]interface{}{"@context": doc.Context}, f.ContextOrder())
			tab := tabular.New(doc, columns, &tabular.Options{
				Ignore: a.cfg.Tabular.IgnorePredicates,
				Logger: a.logger,
				Loader: a.loader,
			})
			if err := tab.Load(); err != nil {
				return "", err
			}
			if err := tab.SetDialect(a.cfg.CSVDialect()); err != nil {
				return "", err
			}

			name := meta.Name()
			resource := datapackage.NewResource(name, name+".csv", tab.InferSchema(), tab.Dialect())
			pkg, err := (&datapackage.Builder{Language: lang, Logger: a.logger}).Build(meta, resource)
			if err != nil {
				return "", err
			}
			if err := datapackage.Save(output, pkg); err != nil {
				return "", err
			}
			a.logger.Debug("datapackage created",
				slog.String("resource", name),
				slog.Int("fields", len(resource.Schema.Fields)))
			return "Created: " + output, nil
		}),
	}

	cmd.Flags().StringVar(&ttl, "ttl", "", "Path to the RDF vocabulary file in Turtle format")
	cmd.Flags().StringVar(&frame, "frame", "", "Path to the JSON-LD frame file (.yamlld or .jsonld)")
	cmd.Flags().StringVar(&uri, "vocabulary-uri", "", "URI of the vocabulary (ConceptScheme) to extract")
	cmd.Flags().StringVar(&output, "output", "", "Output path for the datapackage descriptor")
	cmd.Flags().StringVar(&lang, "lang", "", "Language of titles, descriptions and keywords (default: the vocabulary language)")
	cmd.Flags().StringVar(&keyBase, "key-base-uri", "", "Add a key field holding the identifier relative to this URI")
	cmd.Flags().StringVar(&jsonldType, "jsonld-type", "", "Value of x-jsonld-type (not implemented)")
	for _, flag := range []string{"ttl", "frame", "vocabulary-uri", "output"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

func (a *app) datapackageValidateCommand() *cobra.Command {
	var (
		path     string
		checkCSV bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a data package descriptor and its CSV",
		Long: `Validate a data package descriptor: schema compliance, dialect,
x-jsonld-context presence and, unless --check-csv=false, the CSV content
against the table schema.`,
		RunE: a.action("Datapackage validation", func(cmd *cobra.Command) (string, error) {
			if err := requireFiles(cmd, "datapackage"); err != nil {
				return "", err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Validating datapackage: %s\n", path)

			validator, err := tabular.LoadValidator(path, &tabular.ValidatorOptions{Logger: a.logger, Loader: a.loader})
			if err != nil {
				return "", err
			}
			if checkCSV {
				err = validator.Load()
			} else {
				_, _, err = validator.CheckDescriptor()
			}
			if err != nil {
				return "", err
			}
			return "Datapackage validation passed", nil
		}),
	}

	cmd.Flags().StringVar(&path, "datapackage", "", "Path to the datapackage descriptor (YAML or JSON)")
	cmd.Flags().BoolVar(&checkCSV, "check-csv", true, "Validate the CSV content")
	_ = cmd.MarkFlagRequired("datapackage")
	return cmd
}
