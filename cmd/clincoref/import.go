package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"

	"github.com/revelaction/clincoref/storage/filesystem"
	"github.com/revelaction/clincoref/storage/sqlite/zombiezen"
)

func importCommand(from, to string, ui UI) error {
	src, err := filesystem.NewDocStore(from)
	if err != nil {
		return err
	}

	pool, err := zombiezen.NewPool(to)
	if err != nil {
		return err
	}
	defer pool.Close()

	dst := zombiezen.NewDocStore(pool)

	fmt.Fprintf(ui.Out, "Reading docs from %s...\n", from)

	p := uiprogress.New()
	p.SetOut(ui.Err)
	p.Start()
	bar := newLabeledBar(p, src.Len())

	err = src.LoadAll(func(total int, name string) {
		bar.Done(name)
	})
	p.Stop()
	if err != nil {
		return err
	}

	docs, err := src.List("")
	if err != nil {
		return err
	}

	count := 0
	for _, doc := range docs {
		if _, err := dst.Write(doc); err != nil {
			return fmt.Errorf("failed to write doc %s: %w", doc.Title, err)
		}
		count++
	}

	fmt.Fprintf(ui.Out, "Successfully imported %d docs from %s to %s\n", count, from, to)
	return nil
}
