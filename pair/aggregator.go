package pair

import (
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

// Aggregator unions the output of its strategies. The first occurrence of a
// cluster fixes its position.
type Aggregator struct {
	strategies []Strategy
}

func NewAggregator(strategies ...Strategy) *Aggregator {
	return &Aggregator{strategies: strategies}
}

// Strategies returns the configured strategies in run order.
func (a *Aggregator) Strategies() []Strategy {
	return a.strategies
}

// Candidates returns the deduplicated candidate clusters for m.
func (a *Aggregator) Candidates(dc *docctx.Context, m *mention.Mention, prior []*cluster.Cluster) []*cluster.Cluster {
	seen := make(map[int]bool)
	var res []*cluster.Cluster

	for _, s := range a.strategies {
		for _, c := range s.Generate(dc, m, prior) {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			res = append(res, c)
		}
	}

	return res
}
