package mention

import (
	"sort"
	"strings"

	"github.com/revelaction/clincoref/logging"
	sent "github.com/revelaction/clincoref/sentence"
)

// SalienceScorer assigns the antecedent salience of a mention. It is an
// external model and runs once, before clustering.
type SalienceScorer interface {
	Salience(m *Mention) float64
}

// Store holds the ordered mentions of the documents of one subject.
type Store struct {
	byDoc  map[int][]*Mention
	byKey  map[Key]*Mention
	next   int
	logger logging.Logger
}

func NewStore(logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		byDoc:  make(map[int][]*Mention),
		byKey:  make(map[Key]*Mention),
		logger: logger,
	}
}

// AddDoc builds the mentions of a document from its markables and returns
// them in document order. docOrder is the position of the document inside
// the subject sequence.
func (s *Store) AddDoc(doc sent.Doc, docOrder int, ti *sent.TokenIndex) []*Mention {
	if ti == nil {
		ti = sent.NewTokenIndex(doc)
	}

	markables := make([]sent.Markable, len(doc.Markables))
	copy(markables, doc.Markables)
	sort.SliceStable(markables, func(i, j int) bool {
		if markables[i].Begin != markables[j].Begin {
			return markables[i].Begin < markables[j].Begin
		}
		return markables[i].End < markables[j].End
	})

	var mentions []*Mention
	for _, mk := range markables {
		key := Key{DocID: doc.Id, Begin: mk.Begin, End: mk.End}
		if _, dup := s.byKey[key]; dup {
			s.logger.Warn("duplicate markable dropped", "doc", doc.Id, "begin", mk.Begin, "end", mk.End)
			continue
		}

		m := s.build(doc, docOrder, mk, ti)
		s.byKey[key] = m
		mentions = append(mentions, m)
	}

	s.byDoc[doc.Id] = mentions
	return mentions
}

func (s *Store) build(doc sent.Doc, docOrder int, mk sent.Markable, ti *sent.TokenIndex) *Mention {
	tokens := ti.Span(mk.Begin, mk.End)

	m := &Mention{
		Seq:      s.next,
		DocID:    doc.Id,
		DocOrder: docOrder,
		Begin:    mk.Begin,
		End:      mk.End,
		Tokens:   tokens,
		Salience: mk.Salience,
		Types:    append([]string(nil), mk.Types...),
	}
	s.next++

	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		words = append(words, t.Text)
	}
	m.Text = strings.Join(words, " ")

	if head, ok := s.resolveHead(mk, tokens, ti); ok {
		m.Head = &head
		m.Sentence = head.SentenceId
	} else {
		s.logger.Warn("unresolved dependency head", "doc", doc.Id, "begin", mk.Begin, "end", mk.End, "text", m.Text)
		if len(tokens) > 0 {
			m.Sentence = tokens[0].SentenceId
		}
	}

	if st, ok := ti.Sentence(m.Sentence); ok {
		m.Paragraph = st.Paragraph
	}

	m.Agreement = DeriveAgreement(tokens, m.Head)
	return m
}

func (s *Store) resolveHead(mk sent.Markable, tokens []sent.Token, ti *sent.TokenIndex) (sent.Token, bool) {
	if mk.Head != 0 {
		if t, ok := ti.Token(mk.Head); ok {
			return t, true
		}
	}
	return ti.SpanHead(tokens)
}

// Doc returns the mentions of a document in document order.
func (s *Store) Doc(docID int) []*Mention {
	return s.byDoc[docID]
}

// Get returns the mention for a key.
func (s *Store) Get(k Key) (*Mention, bool) {
	m, ok := s.byKey[k]
	return m, ok
}

// All returns every mention of the store in processing order.
func (s *Store) All() []*Mention {
	all := make([]*Mention, 0, len(s.byKey))
	for _, ms := range s.byDoc {
		all = append(all, ms...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Before(all[j]) })
	return all
}

// Len is the number of mentions in the store.
func (s *Store) Len() int {
	return len(s.byKey)
}

// AssignSalience runs the external salience model over the mentions of a
// document. Must be called before clustering the document.
func (s *Store) AssignSalience(docID int, scorer SalienceScorer) {
	if scorer == nil {
		return
	}
	for _, m := range s.byDoc[docID] {
		v := scorer.Salience(m)
		switch {
		case v < 0:
			v = 0
		case v > 1:
			v = 1
		}
		m.Salience = v
	}
}
