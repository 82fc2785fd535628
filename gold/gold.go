// Package gold aligns gold coreference chains with system mentions and
// answers the training-time relation queries of the decision engine.
package gold

import (
	"fmt"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/logging"
	"github.com/revelaction/clincoref/mention"
	sent "github.com/revelaction/clincoref/sentence"
)

// Alignment maps a (cluster, mention) pair to its gold relation category.
type Alignment interface {
	// Relation returns the category when m corefers with a member of c
	// that precedes it.
	Relation(c *cluster.Cluster, m *mention.Mention) (string, bool)

	// Singleton reports whether m has no gold chain mate.
	Singleton(m *mention.Mention) bool
}

// Chains is the Alignment built from document gold chains.
type Chains struct {
	chainOf  map[mention.Key]string
	category map[string]string
	size     map[string]int
	logger   logging.Logger
}

var _ Alignment = (*Chains)(nil)

func NewChains(logger logging.Logger) *Chains {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Chains{
		chainOf:  make(map[mention.Key]string),
		category: make(map[string]string),
		size:     make(map[string]int),
		logger:   logger,
	}
}

// AddDoc aligns the gold chains of doc with its mentions. Gold spans that
// match no mention are dropped with a warning. It returns the number of
// aligned spans.
func (g *Chains) AddDoc(doc sent.Doc, mentions []*mention.Mention) int {
	byKey := make(map[mention.Key]*mention.Mention, len(mentions))
	for _, m := range mentions {
		byKey[m.Key()] = m
	}

	aligned := 0
	for i, ch := range doc.Chains {
		id := ch.Id
		if id == "" {
			id = fmt.Sprintf("doc%d-%d", doc.Id, i)
		}

		cat := ch.Category
		if cat == "" {
			cat = cluster.DefaultCategory
		}
		g.category[id] = cat

		for _, sp := range ch.Spans {
			m, ok := byKey[mention.Key{DocID: doc.Id, Begin: sp.Begin, End: sp.End}]
			if !ok {
				m, ok = headMatch(mentions, sp)
			}
			if !ok {
				g.logger.Warn("gold markable not aligned, dropped", "doc", doc.Id, "chain", id, "begin", sp.Begin, "end", sp.End)
				continue
			}
			if prev, dup := g.chainOf[m.Key()]; dup && prev != id {
				g.logger.Warn("mention aligned to two gold chains, keeping first", "mention", m.String(), "chain", prev)
				continue
			}
			if _, dup := g.chainOf[m.Key()]; dup {
				continue
			}

			g.chainOf[m.Key()] = id
			g.size[id]++
			aligned++
		}
	}

	return aligned
}

// headMatch finds the first mention whose head token lies inside the span.
func headMatch(mentions []*mention.Mention, sp sent.Span) (*mention.Mention, bool) {
	for _, m := range mentions {
		if m.Head == nil {
			continue
		}
		if sp.Begin <= m.Head.Idx && m.Head.End() <= sp.End {
			return m, true
		}
	}
	return nil, false
}

// Chain returns the gold chain id of a mention.
func (g *Chains) Chain(m *mention.Mention) (string, bool) {
	id, ok := g.chainOf[m.Key()]
	return id, ok
}

func (g *Chains) Relation(c *cluster.Cluster, m *mention.Mention) (string, bool) {
	id, ok := g.chainOf[m.Key()]
	if !ok {
		return "", false
	}
	for _, member := range c.MembersBefore(m) {
		if g.chainOf[member.Key()] == id {
			return g.category[id], true
		}
	}
	return "", false
}

// Singleton reports whether m has no gold chain mate.
func (g *Chains) Singleton(m *mention.Mention) bool {
	id, ok := g.chainOf[m.Key()]
	return !ok || g.size[id] < 2
}
