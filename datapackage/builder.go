package datapackage

import (
	"fmt"
	"log/slog"

	"github.com/italia/vocabtools/types"
	"github.com/italia/vocabtools/vocabulary"
)

// dummyResource stands in for the real resource when validating
// package-level metadata on its own.
var dummyResource = Resource{
	Name: "dummy",
	Path: "dummy.csv",
	Schema: &Schema{Fields: []Field{
		{Name: "id", Type: TypeString},
		{Name: "label", Type: TypeString},
	}},
}

// Builder creates data package descriptors from vocabulary metadata
type Builder struct {
	// Language overrides the language of the vocabulary when set
	Language string
	Logger   *slog.Logger
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// Package returns the package-level metadata of the vocabulary, without
// resources.
func (b *Builder) Package(meta *vocabulary.Metadata) (*Package, error) {
	lang, err := b.language(meta)
	if err != nil {
		return nil, err
	}

	id, err := meta.Identifier()
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = meta.URI()
	}

	pkg := &Package{
		Profile:     types.DatapackageProfile,
		Name:        meta.Name(),
		ID:          id,
		Title:       meta.Title(lang),
		Description: meta.Description(lang),
		Version:     meta.Version(),
		Homepage:    meta.Homepage(),
		Created:     meta.Created(),
		Keywords:    meta.Keywords(lang),
		Resources:   []Resource{},
	}
	for _, license := range meta.Licenses() {
		pkg.Licenses = append(pkg.Licenses, License{Path: license})
	}

	check := *pkg
	check.Resources = []Resource{dummyResource}
	if err := Validate(&check); err != nil {
		return nil, err
	}

	b.logger().Debug("package metadata created",
		slog.String("name", pkg.Name),
		slog.String("language", lang))
	return pkg, nil
}

// Build returns the descriptor of the vocabulary with a single resource
func (b *Builder) Build(meta *vocabulary.Metadata, resource Resource) (*Package, error) {
	pkg, err := b.Package(meta)
	if err != nil {
		return nil, err
	}
	pkg.Resources = []Resource{resource}
	if err := Validate(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (b *Builder) language(meta *vocabulary.Metadata) (string, error) {
	if b.Language == "" {
		return meta.Language()
	}
	lang, err := meta.ResolveLanguage(b.Language)
	if err != nil {
		return "", fmt.Errorf("language override: %w", err)
	}
	return lang, nil
}
