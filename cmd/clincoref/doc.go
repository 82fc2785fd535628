package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/clincoref/render"
	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/storage"
)

// docCommand lists the documents, or prints one document with its markables.
// With --sentence it prints the token table of one sentence.
func docCommand(c *cli.Context, ui UI) (err error) {
	e, err := newEnv(c, ui)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()

	repo, err := e.docRepository()
	if err != nil {
		return err
	}

	if c.NArg() == 0 {
		return listDocs(repo, c.String(flagLabel), ui)
	}

	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("bad doc id: %w", err)
	}
	doc, err := repo.Read(id)
	if err != nil {
		return err
	}

	if c.IsSet(flagSentence) {
		return sentenceTable(doc, c.Int(flagSentence), ui)
	}

	renderDoc(doc, ui)
	return nil
}

func listDocs(repo storage.DocReader, labelMatch string, ui UI) error {
	docs, err := repo.List(labelMatch)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		fmt.Fprintf(ui.Out, "📖 %d %s %s %s\n", doc.Id, doc.Title, doc.Subject, doc.Date)
	}
	return nil
}

func renderDoc(doc sent.Doc, ui UI) {
	r := render.NewRenderer()
	r.W = ui.Out
	for i, s := range doc.Sentences {
		fmt.Fprintf(ui.Out, "✍  %d %s\n", i, r.SentenceString(s.Tokens))
	}

	ti := sent.NewTokenIndex(doc)
	for _, mk := range doc.Markables {
		var words []string
		for _, t := range ti.Span(mk.Begin, mk.End) {
			words = append(words, t.Text)
		}
		fmt.Fprintf(ui.Out, "🔖 %5d %5d %-30q %s\n", mk.Begin, mk.End, strings.Join(words, " "), strings.Join(mk.Types, ","))
	}
}

func sentenceTable(doc sent.Doc, sentId int, ui UI) error {
	if sentId < 0 || sentId >= len(doc.Sentences) {
		return fmt.Errorf("sentence index %d out of bounds (0-%d)", sentId, len(doc.Sentences)-1)
	}

	for _, token := range doc.Sentences[sentId].Tokens {
		fmt.Fprintf(ui.Out, "%20q %15q %8s %6d %6d %8s %s\n", token.Text, token.Lemma, token.Pos, token.Id, token.Head, token.Dep, token.Tag)
	}
	return nil
}

func labelsCommand(c *cli.Context, ui UI) (err error) {
	e, err := newEnv(c, ui)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()

	repo, err := e.docRepository()
	if err != nil {
		return err
	}
	labels, err := repo.Labels(c.Args().First())
	if err != nil {
		return err
	}

	if len(labels) > 0 {
		fmt.Fprintln(ui.Out, strings.Join(labels, ", "))
	}
	return nil
}
