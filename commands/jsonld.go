package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/italia/vocabtools/graph"
	"github.com/italia/vocabtools/projector"
	"github.com/italia/vocabtools/types"
	"github.com/italia/vocabtools/vocabulary"
)

func (a *app) jsonldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsonld",
		Short: "Create and validate framed JSON-LD",
	}
	cmd.AddCommand(a.jsonldCreateCommand(), a.jsonldValidateCommand())
	return cmd
}

func (a *app) jsonldCreateCommand() *cobra.Command {
	var (
		ttl, frame, uri, output, keyBase string
		frameOnly                        bool
		batchSize                        int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Frame a Turtle vocabulary into a .yamlld file",
		RunE: a.action("JSON-LD creation", func(cmd *cobra.Command) (string, error) {
			if err := requireFiles(cmd, "ttl", "frame"); err != nil {
				return "", err
			}
			if !cmd.Flags().Changed("batch-size") {
				batchSize = a.cfg.Framing.BatchSize
			}

			v, err := a.loadVocabulary(ttl, uri)
			if err != nil {
				return "", err
			}
			f, err := types.ReadFrame(frame)
			if err != nil {
				return "", err
			}

			var callbacks []projector.Callback
			if frameOnly {
				warn(cmd, "--frame-only is set: only the fields of the frame context are kept")
				callbacks = append(callbacks, projector.SelectFields(f))
			}
			if keyBase != "" {
				callbacks = append(callbacks, projector.AddKeyField(keyBase))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Framing vocabulary %s from %s\n", uri, ttl)
			doc, err := v.Project(f, batchSize, callbacks...)
			if err != nil {
				return "", err
			}
			a.metrics.ObserveFraming(doc.Statistics)
			a.logger.Debug("framed JSON-LD created", slog.Int("items", len(doc.Graph)))

			if err := types.WriteDocument(output, doc); err != nil {
				return "", err
			}
			return "Created: " + output, nil
		}),
	}

	cmd.Flags().StringVar(&ttl, "ttl", "", "Path to the RDF vocabulary file in Turtle format")
	cmd.Flags().StringVar(&frame, "frame", "", "Path to the JSON-LD frame file (.yamlld or .jsonld)")
	cmd.Flags().StringVar(&uri, "vocabulary-uri", "", "URI of the vocabulary (ConceptScheme) to extract")
	cmd.Flags().StringVar(&output, "output", "", "Output path for the framed JSON-LD file")
	cmd.Flags().BoolVar(&frameOnly, "frame-only", false, "Only keep the fields defined in the frame context")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Number of items framed at once; 0 frames all items together")
	cmd.Flags().StringVar(&keyBase, "key-base-uri", "", "Add a key field holding the identifier relative to this URI")
	for _, flag := range []string{"ttl", "frame", "vocabulary-uri", "output"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

func (a *app) jsonldValidateCommand() *cobra.Command {
	var ttl, jsonld, uri string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a framed JSON-LD file is a subset of its vocabulary",
		RunE: a.action("JSON-LD validation", func(cmd *cobra.Command) (string, error) {
			if err := requireFiles(cmd, "ttl", "jsonld"); err != nil {
				return "", err
			}
			v, err := a.loadVocabulary(ttl, uri)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Validating JSON-LD %s against %s\n", jsonld, ttl)

			doc, err := types.ReadDocument(jsonld)
			if err != nil {
				return "", err
			}
			framed, err := graph.FromJSONLD(doc.JSONLD(), graph.DatasetOptions(a.loader))
			if err != nil {
				return "", err
			}
			a.logger.Debug("graphs loaded",
				slog.Int("original_triples", v.Graph().Len()),
				slog.Int("framed_triples", framed.Len()))

			idx, err := a.newIndex()()
			if err != nil {
				return "", err
			}
			defer idx.Close()
			if err := graph.CheckSubset(framed, v.Graph(), idx); err != nil {
				return "", err
			}
			return "JSON-LD validation passed", nil
		}),
	}

	cmd.Flags().StringVar(&ttl, "ttl", "", "Path to the original RDF vocabulary file in Turtle format")
	cmd.Flags().StringVar(&jsonld, "jsonld", "", "Path to the framed JSON-LD file to validate")
	cmd.Flags().StringVar(&uri, "vocabulary-uri", "", "URI of the vocabulary (ConceptScheme) to validate")
	for _, flag := range []string{"ttl", "jsonld", "vocabulary-uri"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

// loadVocabulary parses the Turtle file and checks that uri is one of
// its subjects.
func (a *app) loadVocabulary(ttl, uri string) (*vocabulary.Vocabulary, error) {
	v, err := vocabulary.Load(ttl, &vocabulary.Options{
		Logger:    a.logger,
		Languages: a.cfg.Vocabulary.Languages,
		Loader:    a.loader,
	})
	if err != nil {
		return nil, err
	}
	if err := v.CheckURI(uri); err != nil {
		return nil, err
	}
	return v, nil
}
