package resolve

import (
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/feature"
	"github.com/revelaction/clincoref/mention"
)

// candidate is a prior cluster proposed for a mention together with its
// pair vector.
type candidate struct {
	cluster  *cluster.Cluster
	features feature.Vector
}

// scored is the outcome of the scoring step for one mention.
type scored struct {
	solo       feature.Vector
	candidates []candidate
}

// score generates the candidates of m against the clusters built so far and
// extracts the solo and pair vectors. It does not touch cluster state.
func (e *Engine) score(dc *docctx.Context, m *mention.Mention) scored {
	solo := e.extractors.Mention(dc, m)
	e.metrics.Null(feature.Sanitize(solo, dc.Logger))

	prior := dc.Clusters.Clusters()
	clusters := e.candidates.Candidates(dc, m, prior)

	res := scored{solo: solo, candidates: make([]candidate, 0, len(clusters))}
	for _, c := range clusters {
		v := e.extractors.Pair(dc, c, m, solo)
		e.metrics.Null(feature.Sanitize(v, dc.Logger))
		res.candidates = append(res.candidates, candidate{cluster: c, features: v})
	}

	e.metrics.Mention(len(res.candidates))
	return res
}
