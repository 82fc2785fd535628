package feature

import (
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

// Semantic compares the entity types covering the mention head with those
// of the prior member heads.
type Semantic struct{}

func (s *Semantic) Name() string { return SemanticName }

func (s *Semantic) Mention(dc *docctx.Context, m *mention.Mention) []Feature {
	types := dc.HeadTypes(m)
	fs := []Feature{Bool("MentionTyped", len(types) > 0)}
	for _, t := range types {
		fs = append(fs, Bool("MentionType_"+t, true))
	}
	return fs
}

func (s *Semantic) Pair(dc *docctx.Context, c *cluster.Cluster, m *mention.Mention) []Feature {
	mTypes := dc.HeadTypes(m)

	seen := map[string]bool{}
	var cTypes []string
	for _, member := range c.MembersBefore(m) {
		for _, t := range dc.HeadTypes(member) {
			if !seen[t] {
				seen[t] = true
				cTypes = append(cTypes, t)
			}
		}
	}

	both := len(mTypes) > 0 && len(cTypes) > 0
	fs := []Feature{
		Bool("TypeBoth", both),
		Bool("TypeMismatch", both && !mention.TypesIntersect(mTypes, cTypes)),
		Bool("TypeOneMissing", (len(mTypes) > 0) != (len(cTypes) > 0)),
	}

	for _, mt := range mTypes {
		for _, ct := range cTypes {
			fs = append(fs, Bool("TypePair_"+ct+"_"+mt, true))
		}
	}
	return fs
}
