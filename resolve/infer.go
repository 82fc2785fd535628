package resolve

import (
	"math"

	"github.com/revelaction/clincoref/classify"
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

func (e *Engine) infer(dc *docctx.Context, lk *linker, m *mention.Mention) {
	sc := e.score(dc, m)

	var (
		target *cluster.Cluster
		label  string
	)
	switch {
	case e.opts.Decoding == Rank:
		target = e.rank(dc, m, sc)
	case e.opts.Policy == Best:
		target, label = e.bestFirst(dc, m, sc)
	default:
		target, label = e.greedyFirst(dc, m, sc)
	}

	if target == nil {
		lk.singleton(m)
		return
	}
	if !lk.link(target, m, label) {
		// rejected links leave the mention unclustered
		if _, ok := dc.Clusters.ClusterOf(m); !ok {
			lk.singleton(m)
		}
	}
}

// greedyFirst returns the first candidate classified as positive.
func (e *Engine) greedyFirst(dc *docctx.Context, m *mention.Mention, sc scored) (*cluster.Cluster, string) {
	for _, cand := range sc.candidates {
		label, err := e.classifier.Classify(cand.features)
		if err != nil {
			dc.Logger.Error("classifier failed, candidate skipped", "mention", m.String(), "cluster", cand.cluster.ID, "err", err)
			continue
		}
		if label != classify.LabelNone && label != "" {
			return cand.cluster, label
		}
	}
	return nil, ""
}

// bestFirst scans every candidate and returns the positive prediction with
// the highest score. Ties go to the earlier candidate.
func (e *Engine) bestFirst(dc *docctx.Context, m *mention.Mention, sc scored) (*cluster.Cluster, string) {
	var (
		best      *cluster.Cluster
		bestLabel string
		bestScore = math.Inf(-1)
	)

	for _, cand := range sc.candidates {
		scores, err := e.classifier.Score(cand.features)
		if err != nil {
			dc.Logger.Error("classifier failed, candidate skipped", "mention", m.String(), "cluster", cand.cluster.ID, "err", err)
			continue
		}

		label, s := topLabel(scores)
		if label == classify.LabelNone || label == "" {
			continue
		}
		if s > bestScore {
			best, bestLabel, bestScore = cand.cluster, label, s
		}
	}
	return best, bestLabel
}

// topLabel returns the highest scoring label. Equal scores resolve to the
// lexically smaller label so that map order never matters.
func topLabel(scores map[string]float64) (string, float64) {
	label, top := "", math.Inf(-1)
	for l, s := range scores {
		if s > top || (s == top && l < label) {
			label, top = l, s
		}
	}
	return label, top
}

// rank scores the solo vector first, then every candidate. A candidate must
// strictly beat the best score so far to win; the solo vector winning means
// a new singleton.
func (e *Engine) rank(dc *docctx.Context, m *mention.Mention, sc scored) *cluster.Cluster {
	best, err := e.ranker.Predict(sc.solo)
	if err != nil {
		dc.Logger.Error("ranker failed on no-link option", "mention", m.String(), "err", err)
		best = math.Inf(-1)
	}

	var target *cluster.Cluster
	for _, cand := range sc.candidates {
		s, err := e.ranker.Predict(cand.features)
		if err != nil {
			dc.Logger.Error("ranker failed, candidate skipped", "mention", m.String(), "cluster", cand.cluster.ID, "err", err)
			continue
		}
		if s > best {
			target, best = cand.cluster, s
		}
	}
	return target
}
