package feature

import (
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

// Section flags members introduced in a one sentence header paragraph.
type Section struct{}

func (s *Section) Name() string { return SectionName }

func (s *Section) Mention(dc *docctx.Context, m *mention.Mention) []Feature {
	return []Feature{Bool("MentionInHeader", dc.InHeader(m))}
}

func (s *Section) Pair(dc *docctx.Context, c *cluster.Cluster, m *mention.Mention) []Feature {
	var inHeader, precedes bool
	for _, member := range c.MembersBefore(m) {
		if !dc.InHeader(member) {
			continue
		}
		inHeader = true
		if member.Paragraph == m.Paragraph-1 {
			precedes = true
			break
		}
	}

	return []Feature{
		Bool("ClusterInHeader", inHeader),
		Bool("HeaderPrecedesMention", precedes),
	}
}
