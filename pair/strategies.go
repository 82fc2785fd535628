package pair

import (
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

// SentenceDistancePairer proposes clusters whose most recent member lies
// within MaxSentences of the mention in the same document.
type SentenceDistancePairer struct {
	MaxSentences int
	longRange    map[string]bool
}

func NewSentenceDistance(max int, longRangeTypes []string) *SentenceDistancePairer {
	lr := make(map[string]bool, len(longRangeTypes))
	for _, t := range longRangeTypes {
		lr[t] = true
	}
	return &SentenceDistancePairer{MaxSentences: max, longRange: lr}
}

func (p *SentenceDistancePairer) Name() string { return SentenceDistance }

func (p *SentenceDistancePairer) isLongRange(m *mention.Mention) bool {
	for _, t := range m.Types {
		if p.longRange[t] {
			return true
		}
	}
	return false
}

func (p *SentenceDistancePairer) Generate(dc *docctx.Context, m *mention.Mention, prior []*cluster.Cluster) []*cluster.Cluster {
	if !hasHead(dc, p.Name(), m) {
		return nil
	}

	longRange := p.isLongRange(m)

	var res []*cluster.Cluster
	for _, c := range prior {
		recent, ok := c.MostRecentBefore(m)
		if !ok {
			continue
		}

		dist, same := docctx.SentenceDistance(recent, m)
		if !same {
			continue
		}
		if !longRange && dist > p.MaxSentences {
			continue
		}

		if !mention.TypesIntersect(m.Types, clusterTypes(c, m)) {
			continue
		}

		res = append(res, c)
	}
	return res
}

// SectionHeaderPairer proposes clusters with a member inside a one sentence
// paragraph placed before the mention.
type SectionHeaderPairer struct{}

func (p *SectionHeaderPairer) Name() string { return SectionHeader }

func (p *SectionHeaderPairer) Generate(dc *docctx.Context, m *mention.Mention, prior []*cluster.Cluster) []*cluster.Cluster {
	if !hasHead(dc, p.Name(), m) {
		return nil
	}

	var res []*cluster.Cluster
	for _, c := range prior {
		for _, member := range c.MembersBefore(m) {
			if member.DocID != m.DocID || member.Paragraph >= m.Paragraph {
				continue
			}
			if dc.IsHeader(member.Paragraph) {
				res = append(res, c)
				break
			}
		}
	}
	return res
}

// ClusterPairer proposes chains that already have two members before the
// mention. Singletons are left to the sentence distance strategy.
type ClusterPairer struct {
	// MaxSentences of zero means unbounded.
	MaxSentences int
}

func (p *ClusterPairer) Name() string { return MultiMember }

func (p *ClusterPairer) Generate(dc *docctx.Context, m *mention.Mention, prior []*cluster.Cluster) []*cluster.Cluster {
	if !hasHead(dc, p.Name(), m) {
		return nil
	}

	var res []*cluster.Cluster
	for _, c := range prior {
		if len(c.MembersBefore(m)) < 2 {
			continue
		}

		recent, _ := c.MostRecentBefore(m)
		dist, same := docctx.SentenceDistance(recent, m)
		if !same {
			continue
		}
		if p.MaxSentences > 0 && dist > p.MaxSentences {
			continue
		}

		res = append(res, c)
	}
	return res
}

// HeadwordPairer proposes clusters holding a prior mention with the same
// lowercased head token, at any distance.
type HeadwordPairer struct{}

func (p *HeadwordPairer) Name() string { return Headword }

func (p *HeadwordPairer) Generate(dc *docctx.Context, m *mention.Mention, prior []*cluster.Cluster) []*cluster.Cluster {
	if !hasHead(dc, p.Name(), m) {
		return nil
	}
	head := m.HeadText()

	var res []*cluster.Cluster
	for _, c := range prior {
		for _, member := range c.MembersBefore(m) {
			if member.HeadText() == head {
				res = append(res, c)
				break
			}
		}
	}
	return res
}

// PreviousDocumentPairer proposes the finalized clusters holding a member of
// the previous document of the subject, wherever the chain started. Only
// clusters still in the prior pool are proposed.
type PreviousDocumentPairer struct{}

func (p *PreviousDocumentPairer) Name() string { return PreviousDocument }

func (p *PreviousDocumentPairer) Generate(dc *docctx.Context, m *mention.Mention, prior []*cluster.Cluster) []*cluster.Cluster {
	if dc.Previous == nil {
		return nil
	}
	if !hasHead(dc, p.Name(), m) {
		return nil
	}

	live := make(map[int]bool, len(prior))
	for _, c := range prior {
		live[c.ID] = true
	}

	var res []*cluster.Cluster
	for _, c := range dc.Previous.Clusters {
		if !live[c.ID] || !inDoc(c, dc.Previous.Order) {
			continue
		}
		if !mention.TypesIntersect(m.Types, clusterTypes(c, m)) {
			continue
		}
		res = append(res, c)
	}
	return res
}

func inDoc(c *cluster.Cluster, docOrder int) bool {
	for _, m := range c.Members() {
		if m.DocOrder == docOrder {
			return true
		}
	}
	return false
}

// clusterTypes is the union of the type tags of the members before focus.
func clusterTypes(c *cluster.Cluster, focus *mention.Mention) []string {
	seen := map[string]bool{}
	var types []string
	for _, member := range c.MembersBefore(focus) {
		for _, t := range member.Types {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	return types
}
