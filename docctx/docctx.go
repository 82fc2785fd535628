// Package docctx carries the per-document state shared by pairing
// strategies and feature extractors. A Context is built fresh for every
// document, so nothing computed for one document leaks into the next.
package docctx

import (
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/logging"
	"github.com/revelaction/clincoref/mention"
	sent "github.com/revelaction/clincoref/sentence"
)

// Previous gives read access to the document before the current one in the
// subject sequence and its finalized clusters.
type Previous struct {
	Doc      sent.Doc
	Order    int
	Clusters []*cluster.Cluster
}

// Context is the explicit per-document context.
type Context struct {
	Doc   sent.Doc
	Order int

	Tokens      *sent.TokenIndex
	Annotations *sent.AnnotationIndex

	Mentions []*mention.Mention
	Clusters *cluster.Store

	// Previous is nil for the first document of a subject.
	Previous *Previous

	Logger logging.Logger

	paragraphSize map[int]int
	headTypes     map[mention.Key][]string
}

// New builds the context of a document. mentions must be the document
// mentions in document order.
func New(doc sent.Doc, order int, ti *sent.TokenIndex, mentions []*mention.Mention, clusters *cluster.Store, prev *Previous, logger logging.Logger) *Context {
	if ti == nil {
		ti = sent.NewTokenIndex(doc)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	c := &Context{
		Doc:           doc,
		Order:         order,
		Tokens:        ti,
		Annotations:   sent.NewAnnotationIndex(doc.Annotations),
		Mentions:      mentions,
		Clusters:      clusters,
		Previous:      prev,
		Logger:        logger.With("doc", doc.Id),
		paragraphSize: make(map[int]int),
		headTypes:     make(map[mention.Key][]string),
	}

	for _, s := range doc.Sentences {
		c.paragraphSize[s.Paragraph]++
	}

	return c
}

// IsHeader reports whether the paragraph consists of exactly one sentence.
func (c *Context) IsHeader(paragraph int) bool {
	return c.paragraphSize[paragraph] == 1
}

// InHeader reports whether m lies in a header paragraph of this document.
func (c *Context) InHeader(m *mention.Mention) bool {
	return m.DocID == c.Doc.Id && c.IsHeader(m.Paragraph)
}

// HeadTypes returns the types of the entity annotations covering the head of
// m, falling back to the mention type tags. Members of other documents use
// their tags only.
func (c *Context) HeadTypes(m *mention.Mention) []string {
	if types, ok := c.headTypes[m.Key()]; ok {
		return types
	}

	var types []string
	if m.Head != nil && m.DocID == c.Doc.Id {
		types = c.Annotations.Types(*m.Head)
	}
	if len(types) == 0 {
		types = m.Types
	}

	c.headTypes[m.Key()] = types
	return types
}

// SentenceDistance is the number of sentences between two mentions of the
// current document, ok is false across documents.
func SentenceDistance(a, b *mention.Mention) (int, bool) {
	if a.DocID != b.DocID {
		return 0, false
	}
	d := b.Sentence - a.Sentence
	if d < 0 {
		d = -d
	}
	return d, true
}
