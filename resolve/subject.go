package resolve

import (
	"context"
	"fmt"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/event"
	"github.com/revelaction/clincoref/mention"
	"github.com/revelaction/clincoref/order"
	sent "github.com/revelaction/clincoref/sentence"
)

// Result is the output of one subject.
type Result struct {
	Subject string
	Docs    []sent.Doc

	// Clusters are the surviving chains, in creation order. None is a
	// singleton.
	Clusters []*cluster.Cluster
	Events   []event.Event
	Links    []Link

	Mentions   int
	Pruned     int
	Violations int
}

// Chains returns the clusters holding a member of docID.
func (r *Result) Chains(docID int) []*cluster.Cluster {
	var res []*cluster.Cluster
	for _, c := range r.Clusters {
		for _, m := range c.Members() {
			if m.DocID == docID {
				res = append(res, c)
				break
			}
		}
	}
	return res
}

// ResolveDocument resolves a single document as a subject of its own.
func (e *Engine) ResolveDocument(ctx context.Context, doc sent.Doc) (*Result, error) {
	return e.ResolveSubject(ctx, order.Subject{ID: fmt.Sprintf("doc-%d", doc.Id), Docs: []sent.Doc{doc}})
}

// ResolveSubject processes the documents of a subject in order. Clusters
// persist across documents and each document sees the finalized clusters of
// the one before. In training mode instances go to the trainer and the
// clusters follow the gold chains.
func (e *Engine) ResolveSubject(ctx context.Context, s order.Subject) (*Result, error) {
	tl := order.NewTimeline(s, e.orderer)
	logger := e.logger.With("subject", tl.ID)

	mentions := mention.NewStore(logger)
	clusters := cluster.NewStore()
	lk := newLinker(clusters, e.opts.Decoding, logger, e.metrics)
	anns := make(map[int]*sent.AnnotationIndex, tl.Len())

	loader, _ := e.gold.(GoldLoader)

	for i, doc := range tl.Docs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ti := sent.NewTokenIndex(doc)
		ms := mentions.AddDoc(doc, i, ti)
		if e.salience != nil {
			mentions.AssignSalience(doc.Id, e.salience)
		}
		if e.opts.Mode == Train && loader != nil {
			loader.AddDoc(doc, ms)
		}

		dc := docctx.New(doc, i, ti, ms, clusters, tl.Previous(i), logger)
		anns[doc.Id] = dc.Annotations
		e.extractors.Reset(dc)

		for _, m := range ms {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if e.opts.Mode == Train {
				if err := e.train(dc, lk, m); err != nil {
					return nil, fmt.Errorf("doc %d: %w", doc.Id, err)
				}
				continue
			}
			e.infer(dc, lk, m)
		}

		tl.Finalize(i, clusters.Clusters())
		dc.Logger.Debug("document processed", "mentions", len(ms), "clusters", clusters.Len())
		if e.onDocument != nil {
			e.onDocument(doc)
		}
	}

	pruned := 0
	for _, doc := range tl.Docs() {
		pruned += clusters.PruneSingletonsIn(doc.Id)
	}
	e.metrics.Prune(pruned)

	final := clusters.Clusters()
	res := &Result{
		Subject:    tl.ID,
		Docs:       tl.Docs(),
		Clusters:   final,
		Events:     event.Aggregate(final, func(docID int) *sent.AnnotationIndex { return anns[docID] }),
		Links:      lk.links,
		Mentions:   mentions.Len(),
		Pruned:     pruned,
		Violations: lk.violations,
	}

	logger.Info("subject resolved", "docs", tl.Len(), "mentions", res.Mentions, "chains", len(final), "pruned", pruned)
	return res, nil
}

// ResolveAll groups docs by subject and resolves each subject in turn,
// handing every result to fn.
func (e *Engine) ResolveAll(ctx context.Context, docs []sent.Doc, fn func(*Result) error) error {
	for _, s := range order.GroupBySubject(docs) {
		res, err := e.ResolveSubject(ctx, s)
		if err != nil {
			return fmt.Errorf("subject %s: %w", s.ID, err)
		}
		if fn == nil {
			continue
		}
		if err := fn(res); err != nil {
			return err
		}
	}
	return nil
}
