package feature

import (
	"math"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

// Salience exposes the external salience scores.
type Salience struct{}

func (s *Salience) Name() string { return SalienceName }

func (s *Salience) Mention(dc *docctx.Context, m *mention.Mention) []Feature {
	return []Feature{Number("MentionSalience", m.Salience)}
}

func (s *Salience) Pair(dc *docctx.Context, c *cluster.Cluster, m *mention.Mention) []Feature {
	members := c.MembersBefore(m)
	if len(members) == 0 {
		return []Feature{Null("ClusterSalience")}
	}

	best := 0.0
	for _, member := range members {
		best = math.Max(best, member.Salience)
	}
	return []Feature{Number("ClusterSalience", best)}
}

// StackDepth is the position of the cluster in the recency stack: how many
// other clusters have a more recent member before the mention, log scaled.
type StackDepth struct {
	ExcludeSingletons bool
}

func (s *StackDepth) Name() string { return StackDepthName }

func (s *StackDepth) Mention(dc *docctx.Context, m *mention.Mention) []Feature {
	return nil
}

func (s *StackDepth) Pair(dc *docctx.Context, c *cluster.Cluster, m *mention.Mention) []Feature {
	const name = "StackDepth"

	recent, ok := c.MostRecentBefore(m)
	if !ok {
		return []Feature{Null(name)}
	}

	depth := 0
	for _, other := range dc.Clusters.Clusters() {
		if other == c {
			continue
		}
		if s.ExcludeSingletons && len(other.MembersBefore(m)) < 2 {
			continue
		}
		or, ok := other.MostRecentBefore(m)
		if ok && recent.Before(or) {
			depth++
		}
	}

	return []Feature{Number(name, math.Log1p(float64(depth)))}
}
