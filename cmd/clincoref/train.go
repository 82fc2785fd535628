package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/clincoref/classify"
	"github.com/revelaction/clincoref/resolve"
	sent "github.com/revelaction/clincoref/sentence"
)

const alphabetSuffix = ".alphabet.json"

func trainCommand(c *cli.Context, ui UI) (err error) {
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

	mc := e.cfg.Model
	model := classify.NewLinear(mc.Positive)
	model.Threshold = mc.Threshold
	model.Epochs = mc.Epochs
	model.Rate = mc.Rate
	model.L2 = mc.L2

	var trainer classify.Trainer = model
	var svm *classify.SVMLightWriter
	if mc.SVMLight != "" {
		pairs, err := os.Create(mc.SVMLight + ".pairs.svm")
		if err != nil {
			return fmt.Errorf("IO error: %w", err)
		}
		defer pairs.Close()

		solo, err := os.Create(mc.SVMLight + ".solo.svm")
		if err != nil {
			return fmt.Errorf("IO error: %w", err)
		}
		defer solo.Close()

		svm = classify.NewSVMLightWriter(pairs, solo)
		trainer = classify.Tee{model, svm}
	}

	p := e.newProgress(ui.Err)
	bar := newLabeledBar(p, len(docs))

	eng, err := e.newEngine(resolve.Train, nil, trainer, func(doc sent.Doc) {
		bar.Done(doc.Title)
	})
	if err != nil {
		return err
	}

	p.Start()
	err = eng.ResolveAll(c.Context, docs, nil)
	p.Stop()
	if err != nil {
		return err
	}

	if svm != nil {
		if err := svm.Flush(); err != nil {
			return fmt.Errorf("IO error: %w", err)
		}
		if err := svm.Alphabet.Save(mc.SVMLight + alphabetSuffix); err != nil {
			return fmt.Errorf("IO error: %w", err)
		}
	}

	n := model.Pending()
	if n == 0 {
		return errors.New("no training instances, do the documents carry gold chains?")
	}
	model.Fit()
	if err := model.Save(mc.Path); err != nil {
		return fmt.Errorf("IO error: %w", err)
	}

	fmt.Fprintf(ui.Out, "trained on %d instances, model written to %s\n", n, mc.Path)
	return nil
}
