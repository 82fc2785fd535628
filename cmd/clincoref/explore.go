package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/clincoref/query"
	"github.com/revelaction/clincoref/render"
)

func exploreCommand(c *cli.Context, ui UI) (err error) {
	e, err := newEnv(c, ui)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()

	cr, err := e.chainRepository()
	if err != nil {
		return err
	}
	dr, err := e.docRepository()
	if err != nil {
		// chains still render without the document text
		e.logger.Warn("documents not available", "err", err)
		dr = nil
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !c.Bool(flagNoColor)

	h := query.NewHandler(cr, dr, r)
	h.Out = ui.Out
	return h.Run()
}
