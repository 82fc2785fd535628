package mention

import (
	"fmt"
	"strings"

	sent "github.com/revelaction/clincoref/sentence"
)

// Mention is a markable after head resolution and attribute derivation.
// Everything except Salience is fixed at construction.
type Mention struct {
	// Seq is the position of the mention in the subject-wide processing
	// order. Unique inside a Store.
	Seq int

	DocID int

	// DocOrder is the position of the document in the subject sequence.
	DocOrder int

	Begin int
	End   int

	Text   string
	Tokens []sent.Token

	// Head is the dependency head of the span, nil when unresolved.
	Head *sent.Token

	Sentence  int
	Paragraph int

	// Salience in [0, 1], higher is a more confident antecedent.
	Salience float64

	// Types is the semantic type tag set. Ties are possible.
	Types []string

	Agreement
}

// Key identifies a mention across documents.
type Key struct {
	DocID int
	Begin int
	End   int
}

func (m *Mention) Key() Key {
	return Key{DocID: m.DocID, Begin: m.Begin, End: m.End}
}

func (m *Mention) String() string {
	return fmt.Sprintf("%d:%d-%d %q", m.DocID, m.Begin, m.End, m.Text)
}

// Before reports whether m precedes o in (document order, begin, end).
func (m *Mention) Before(o *Mention) bool {
	if m.DocOrder != o.DocOrder {
		return m.DocOrder < o.DocOrder
	}
	if m.Begin != o.Begin {
		return m.Begin < o.Begin
	}
	return m.End < o.End
}

// HeadText returns the lowercased head token text, "" when unresolved.
func (m *Mention) HeadText() string {
	if m.Head == nil {
		return ""
	}
	return strings.ToLower(m.Head.Text)
}

// LowerText is the lowercased span text.
func (m *Mention) LowerText() string {
	return strings.ToLower(m.Text)
}

// HasType reports whether the tag set contains t.
func (m *Mention) HasType(t string) bool {
	for _, mt := range m.Types {
		if mt == t {
			return true
		}
	}
	return false
}

// TypesIntersect reports semantic type compatibility: two typed sides must
// share at least one tag, an untyped side always passes.
func TypesIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// ContentWords returns the lowercased span words that are not determiners,
// pronouns or punctuation.
func (m *Mention) ContentWords() []string {
	var words []string
	for _, t := range m.Tokens {
		if isFunctionToken(t) {
			continue
		}
		words = append(words, strings.ToLower(t.Text))
	}
	return words
}

// StrippedText is the lowercased span without leading determiners.
func (m *Mention) StrippedText() string {
	tokens := m.Tokens
	for len(tokens) > 0 && isDeterminer(tokens[0]) {
		tokens = tokens[1:]
	}
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		words = append(words, strings.ToLower(t.Text))
	}
	return strings.Join(words, " ")
}
