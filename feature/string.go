package feature

import (
	"strings"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

// String compares the mention text with the prior members sharing its
// dependency head. Pronominal mentions never match.
type String struct{}

func (s *String) Name() string { return StringName }

func (s *String) Mention(dc *docctx.Context, m *mention.Mention) []Feature {
	return nil
}

func (s *String) Pair(dc *docctx.Context, c *cluster.Cluster, m *mention.Mention) []Feature {
	var exact, start, end, substring, stripped, overlap bool

	if !m.Pronoun && m.Head != nil {
		text := m.LowerText()
		words := wordSet(m.ContentWords())

		for _, member := range c.MembersBefore(m) {
			if member.Pronoun || member.HeadText() != m.HeadText() {
				continue
			}
			mt := member.LowerText()

			exact = exact || mt == text
			start = start || strings.HasPrefix(mt, text) || strings.HasPrefix(text, mt)
			end = end || strings.HasSuffix(mt, text) || strings.HasSuffix(text, mt)
			substring = substring || strings.Contains(mt, text) || strings.Contains(text, mt)
			stripped = stripped || (member.StrippedText() != "" && member.StrippedText() == m.StrippedText())

			if !overlap {
				for _, w := range member.ContentWords() {
					if words[w] {
						overlap = true
						break
					}
				}
			}
		}
	}

	return []Feature{
		Bool("StringExact", exact),
		Bool("StringStart", start),
		Bool("StringEnd", end),
		Bool("StringSubstring", substring),
		Bool("StringStripped", stripped),
		Bool("StringWordOverlap", overlap),
	}
}

func wordSet(words []string) map[string]bool {
	s := make(map[string]bool, len(words))
	for _, w := range words {
		s[w] = true
	}
	return s
}

// exactMatch reports whether any prior member has the same lowercased text.
func exactMatch(c *cluster.Cluster, m *mention.Mention) bool {
	text := m.LowerText()
	for _, member := range c.MembersBefore(m) {
		if member.LowerText() == text {
			return true
		}
	}
	return false
}
