package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/clincoref/classify"
	"github.com/revelaction/clincoref/render"
	"github.com/revelaction/clincoref/resolve"
	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/storage"
)

func resolveCommand(c *cli.Context, ui UI) (err error) {
	format := c.String(flagFormat)
	if !isFormat(format) {
		return fmt.Errorf("unknown format %s", format)
	}

	e, err := newEnv(c, ui)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()

	docRepo, err := e.docRepository()
	if err != nil {
		return err
	}
	docs, err := e.loadDocs(docRepo, c.String(flagLabel), ui)
	if err != nil {
		return err
	}

	model, err := classify.LoadLinear(e.cfg.Model.Path)
	if err != nil {
		return fmt.Errorf("model %s: %w", e.cfg.Model.Path, err)
	}

	p := e.newProgress(ui.Err)
	bar := newLabeledBar(p, len(docs))

	eng, err := e.newEngine(resolve.Infer, model, nil, func(doc sent.Doc) {
		bar.Done(doc.Title)
	})
	if err != nil {
		return err
	}

	var chains []storage.Chain
	p.Start()
	err = eng.ResolveAll(c.Context, docs, func(r *resolve.Result) error {
		chains = append(chains, storage.Chains(r)...)
		return nil
	})
	p.Stop()
	if err != nil {
		return err
	}

	if !c.Bool(flagNoStore) {
		cr, err := e.chainRepository()
		if err != nil {
			return err
		}
		run := storage.NewRun(c.String(flagRunLabel))
		if err := cr.WriteRun(run, chains); err != nil {
			return err
		}
		e.logger.Info("run stored", "run", run.ID, "chains", len(chains))
	}

	output(c, ui, docs, chains)
	return nil
}

func isFormat(format string) bool {
	if format == formatJSON {
		return true
	}
	for _, f := range render.SupportedFormats() {
		if f == format {
			return true
		}
	}
	return false
}

func output(c *cli.Context, ui UI, docs []sent.Doc, chains []storage.Chain) {
	format := c.String(flagFormat)
	if format == formatJSON {
		render.NewJSONRenderer(ui.Out).Render(chains)
		return
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !c.Bool(flagNoColor)
	r.HasPrefix = !c.Bool(flagNoPrefix)
	r.Format = format
	for _, doc := range docs {
		r.AddDoc(doc)
	}
	r.Render(chains)
}
