package main

import (
	"github.com/revelaction/clincoref/classify"
	"github.com/revelaction/clincoref/embed"
	"github.com/revelaction/clincoref/feature"
	"github.com/revelaction/clincoref/gold"
	"github.com/revelaction/clincoref/pair"
	"github.com/revelaction/clincoref/resolve"
	sent "github.com/revelaction/clincoref/sentence"
)

// newEngine builds the decision engine from the configuration. model is
// used in infer mode, trainer in train mode.
func (e *env) newEngine(mode resolve.Mode, model *classify.Linear, trainer classify.Trainer, onDoc func(sent.Doc)) (*resolve.Engine, error) {
	strategies, err := pair.NewAll(e.cfg.Pairing.Strategies, e.cfg.PairOptions())
	if err != nil {
		return nil, err
	}

	fo := feature.Options{
		CacheSize:              e.cfg.Features.CacheSize,
		StackExcludeSingletons: e.cfg.Features.StackExcludeSingletons,
	}
	if path := e.cfg.Features.Embeddings; path != "" {
		table, err := embed.Load(path)
		if err != nil {
			return nil, err
		}
		e.logger.Info("embeddings loaded", "path", path, "words", table.Len(), "dim", table.Dim())
		fo.Embeddings = table
	}
	extractors, err := feature.NewSet(e.cfg.Features.Extractors, fo)
	if err != nil {
		return nil, err
	}

	deps := resolve.Deps{
		Strategies: strategies,
		Extractors: extractors,
		Logger:     e.logger,
		Metrics:    e.metrics,
		OnDocument: onDoc,
	}

	switch mode {
	case resolve.Train:
		deps.Trainer = trainer
		deps.Gold = gold.NewChains(e.logger)
	default:
		if model != nil {
			deps.Classifier = model
			deps.Ranker = model
		}
	}

	return resolve.New(e.cfg.ResolveOptions(mode), deps)
}
