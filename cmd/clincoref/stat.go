package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/clincoref/stat"
	"github.com/revelaction/clincoref/storage"
)

func statCommand(c *cli.Context, ui UI) (err error) {
	e, err := newEnv(c, ui)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()

	hdl := stat.NewHandler()

	docRepo, err := e.docRepository()
	if err != nil {
		return err
	}
	docs, err := e.loadDocs(docRepo, "", ui)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		hdl.AggregateDoc(doc)
	}

	cr, err := e.chainRepository()
	if err != nil {
		return err
	}
	run, err := findRun(cr, c.String(flagRun))
	if err != nil {
		return err
	}
	if run.ID != "" {
		chains, err := cr.ReadChains(run.ID)
		if err != nil {
			return err
		}
		hdl.AggregateChains(chains)
	}

	stats := hdl.Get()
	fmt.Fprintf(ui.Out, "Num docs %d, num sentences %d, num mentions %d, mentions per sentence %.2f\n",
		stats.NumDocs, stats.NumSentences, stats.NumMentions, stats.MentionsPerSentenceMean)

	if run.ID == "" {
		fmt.Fprintln(ui.Out, "No runs stored")
		return nil
	}

	fmt.Fprintf(ui.Out, "Run %s: num chains %d, chain length mean %.2f, cross document chains %d\n",
		run.ID, stats.NumChains, stats.ChainLenMean, stats.CrossDocChains)
	fmt.Fprintf(ui.Out, "Chain lengths %s\n", distribution(stats.ChainLenDis))
	fmt.Fprintf(ui.Out, "Chain types %s\n", distribution(stats.ChainTypeDis))
	return nil
}

// findRun returns the run whose id starts with prefix, the latest run for an
// empty prefix, or a zero Run when no run is stored.
func findRun(cr storage.ChainReader, prefix string) (storage.Run, error) {
	runs, err := cr.Runs()
	if err != nil {
		return storage.Run{}, err
	}
	if prefix == "" {
		if len(runs) == 0 {
			return storage.Run{}, nil
		}
		return runs[len(runs)-1], nil
	}

	for _, r := range runs {
		if strings.HasPrefix(r.ID, prefix) {
			return r, nil
		}
	}
	return storage.Run{}, fmt.Errorf("run %s: %w", prefix, storage.ErrNotFound)
}

func distribution[K int | string](dis map[K]int) string {
	keys := make([]K, 0, len(dis))
	for k := range dis {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%v:%d", k, dis[k]))
	}
	return strings.Join(parts, " ")
}
