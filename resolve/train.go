package resolve

import (
	"fmt"

	"github.com/revelaction/clincoref/classify"
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

// LabelSingleton is the label of a positive no-link instance.
const LabelSingleton = "Singleton"

func (e *Engine) emit(in classify.Instance, kind string) error {
	if err := e.trainer.Train(in); err != nil {
		return fmt.Errorf("trainer: %w", err)
	}
	e.metrics.Instance(kind)
	return nil
}

func instanceKind(in classify.Instance) string {
	switch {
	case in.NoLink:
		return "nolink"
	case in.Positive():
		return "positive"
	default:
		return "negative"
	}
}

// train emits the instances of m and then moves the cluster state the way
// the gold chains say.
func (e *Engine) train(dc *docctx.Context, lk *linker, m *mention.Mention) error {
	sc := e.score(dc, m)

	var (
		instances []classify.Instance
		target    *cluster.Cluster
		label     string
	)

	qid := 0
	if e.opts.Decoding == Rank {
		e.qid++
		qid = e.qid
	}

	for _, cand := range sc.candidates {
		cat, ok := e.gold.Relation(cand.cluster, m)
		if !ok && !e.keep() {
			continue
		}

		in := classify.Instance{Features: cand.features, Label: classify.LabelNone, QueryID: qid}
		if ok {
			in.Label = cat
			in.Outcome = 1
		}
		instances = append(instances, in)

		if ok && target == nil {
			target, label = cand.cluster, cat
			if e.opts.Decoding == Classify {
				break
			}
		}
	}

	if target == nil {
		target, label = e.oracle(dc, m)
	}

	solo := classify.Instance{Features: sc.solo, Label: classify.LabelNone, QueryID: qid, NoLink: true}
	if target == nil {
		solo.Label = LabelSingleton
		solo.Outcome = 1
	}
	instances = append(instances, solo)

	for _, in := range instances {
		if err := e.emit(in, instanceKind(in)); err != nil {
			return err
		}
	}

	if target == nil {
		lk.singleton(m)
		return nil
	}
	lk.link(target, m, label)
	return nil
}

// oracle returns the prior cluster holding a gold chain mate of m, whether
// or not a strategy proposed it.
func (e *Engine) oracle(dc *docctx.Context, m *mention.Mention) (*cluster.Cluster, string) {
	for _, c := range dc.Clusters.Clusters() {
		if cat, ok := e.gold.Relation(c, m); ok {
			return c, cat
		}
	}
	return nil, ""
}
