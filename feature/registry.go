package feature

import (
	"fmt"
	"sort"

	"github.com/revelaction/clincoref/embed"
)

const (
	AgreementName      = "agreement"
	StringName         = "string"
	SectionName        = "section"
	SemanticName       = "semantic"
	DistributionalName = "distributional"
	SalienceName       = "salience"
	StackDepthName     = "stack-depth"
)

// Options parameterizes the built-in extractors.
type Options struct {
	// Embeddings backs the distributional extractor. Required when it is
	// configured.
	Embeddings *embed.Table

	// CacheSize bounds the per-document averaged vector cache.
	CacheSize int

	// StackExcludeSingletons makes stack-depth ignore one-member clusters.
	StackExcludeSingletons bool
}

type constructor func(Options) (Extractor, error)

var registry = map[string]constructor{
	AgreementName: func(Options) (Extractor, error) { return &Agreement{}, nil },
	StringName:    func(Options) (Extractor, error) { return &String{}, nil },
	SectionName:   func(Options) (Extractor, error) { return &Section{}, nil },
	SemanticName:  func(Options) (Extractor, error) { return &Semantic{}, nil },
	DistributionalName: func(o Options) (Extractor, error) {
		if o.Embeddings == nil {
			return nil, fmt.Errorf("%s extractor needs word embeddings", DistributionalName)
		}
		return NewDistributional(o.Embeddings, o.CacheSize)
	},
	SalienceName:   func(Options) (Extractor, error) { return &Salience{}, nil },
	StackDepthName: func(o Options) (Extractor, error) { return &StackDepth{ExcludeSingletons: o.StackExcludeSingletons}, nil },
}

// Names returns the registered extractor names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the named extractor.
func New(name string, o Options) (Extractor, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown feature extractor: %s", name)
	}
	return c(o)
}

// NewSet builds extractors in the given order.
func NewSet(names []string, o Options) (Set, error) {
	set := make(Set, 0, len(names))
	for _, n := range names {
		e, err := New(n, o)
		if err != nil {
			return nil, err
		}
		set = append(set, e)
	}
	return set, nil
}
