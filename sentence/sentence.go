package sentence

import (
	"sort"
	"strings"
)

// Doc is a parsed clinical document together with the markables detected on
// it and, for training corpora, its gold coreference chains.
type Doc struct {
	Id int `json:"id"`

	Title string `json:"title"`

	Labels []string `json:"labels,omitempty"`

	// Subject groups the documents of one patient timeline.
	Subject string `json:"subject,omitempty"`

	// Date orders documents of the same subject (YYYY-MM-DD or RFC3339).
	Date string `json:"date,omitempty"`

	Sentences []Sentence `json:"sentences"`

	Markables []Markable `json:"markables,omitempty"`

	Annotations []Annotation `json:"annotations,omitempty"`

	Chains []GoldChain `json:"chains,omitempty"`
}

// Library is a collection of Doc
type Library []Doc

// Sentence is an ordered list of tokens inside a paragraph.
type Sentence struct {
	Id        int     `json:"id"`
	Paragraph int     `json:"paragraph"`
	Tokens    []Token `json:"tokens"`
}

// Token represents a word of the sentence, with POS and metadata.
type Token struct {
	// Id is unique inside the document.
	Id int `json:"id"`

	// Head is the Id of the dependency head. The root points to itself.
	Head       int    `json:"head"`
	SentenceId int    `json:"sent"`
	Pos        string `json:"pos"`
	Dep        string `json:"dep"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// Morphological features, UD style: "Number=Plur|Gender=Fem"
	Morph string `json:"morph,omitempty"`

	// the index of the start character of the token in the original doc (set by spacy, stanza)
	Idx int `json:"idx"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the word in the sentence, starting at 0.
	Index int `json:"index"`
}

// End returns the character offset right after the token.
func (t Token) End() int {
	return t.Idx + len(t.Text)
}

// Feature returns the value of a morphological feature, or "".
func (t Token) Feature(name string) string {
	for _, kv := range strings.Split(t.Morph, "|") {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == name {
			return v
		}
	}
	return ""
}

// Markable is a candidate referring expression as produced by the mention
// detector. Head is a token Id, zero when the detector did not provide one.
type Markable struct {
	Begin    int      `json:"begin"`
	End      int      `json:"end"`
	Head     int      `json:"head,omitempty"`
	Salience float64  `json:"salience,omitempty"`
	Types    []string `json:"types,omitempty"`
}

// Annotation is a typed entity span (UMLS semantic group, event type).
type Annotation struct {
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Head  int    `json:"head,omitempty"`
	Type  string `json:"type"`
}

// Len is the character length of the annotation.
func (a Annotation) Len() int {
	return a.End - a.Begin
}

// Covers reports whether the annotation covers the [begin, end) span.
func (a Annotation) Covers(begin, end int) bool {
	return a.Begin <= begin && end <= a.End
}

// Span is a character offset range.
type Span struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// GoldChain is a gold coreference chain over character spans. Chains of
// different documents of a subject sharing an Id are the same chain.
type GoldChain struct {
	Id       string `json:"id,omitempty"`
	Category string `json:"category,omitempty"`
	Spans    []Span `json:"spans"`
}

// Tokens returns all tokens of the document in order.
func (d Doc) Tokens() []Token {
	var tokens []Token
	for _, s := range d.Sentences {
		tokens = append(tokens, s.Tokens...)
	}
	return tokens
}

// TokenIndex maps token ids to tokens, and char offsets to sentence info.
type TokenIndex struct {
	byId   map[int]Token
	sorted []Token
	sent   map[int]Sentence
}

// NewTokenIndex indexes the tokens of a document.
func NewTokenIndex(d Doc) *TokenIndex {
	ti := &TokenIndex{
		byId: make(map[int]Token),
		sent: make(map[int]Sentence),
	}

	for _, s := range d.Sentences {
		ti.sent[s.Id] = s
		for _, t := range s.Tokens {
			ti.byId[t.Id] = t
			ti.sorted = append(ti.sorted, t)
		}
	}

	sort.SliceStable(ti.sorted, func(i, j int) bool {
		return ti.sorted[i].Idx < ti.sorted[j].Idx
	})

	return ti
}

// Token returns the token for an Id.
func (ti *TokenIndex) Token(id int) (Token, bool) {
	t, ok := ti.byId[id]
	return t, ok
}

// Sentence returns the sentence with the given Id.
func (ti *TokenIndex) Sentence(id int) (Sentence, bool) {
	s, ok := ti.sent[id]
	return s, ok
}

// Span returns the tokens that overlap the [begin, end) character range.
func (ti *TokenIndex) Span(begin, end int) []Token {
	start := sort.Search(len(ti.sorted), func(i int) bool {
		return ti.sorted[i].End() > begin
	})

	var tokens []Token
	for _, t := range ti.sorted[start:] {
		if t.Idx >= end {
			break
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// SpanHead returns the token of the span whose head lies outside the span,
// the syntactic head of the phrase. The first such token wins.
func (ti *TokenIndex) SpanHead(tokens []Token) (Token, bool) {
	in := make(map[int]bool, len(tokens))
	for _, t := range tokens {
		in[t.Id] = true
	}

	for _, t := range tokens {
		if t.Head == t.Id || !in[t.Head] {
			return t, true
		}
	}

	return Token{}, false
}
