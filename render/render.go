package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/storage"
)

const (
	FormatChains  = "chains"
	FormatDoc     = "doc"
	Defaultformat = FormatChains
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

// chain colors, cycled by chain position
var palette = []string{Green256, Yellow256, Teal, Magenta, Purple, Red}

func SupportedFormats() []string {
	return []string{FormatChains, FormatDoc}
}

// Output renders a list of chains.
type Output interface {
	Render(chains []storage.Chain)
}

type Renderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines what Render prints
	//
	// chains: one line per chain with its mentions
	// doc: the document text with chain mentions marked, see Document
	Format string

	DocNames map[int]string

	docs map[int]sent.Doc
}

var _ Output = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{
		W:        os.Stdout,
		Format:   Defaultformat,
		DocNames: map[int]string{},
		docs:     map[int]sent.Doc{},
	}
}

func (r *Renderer) AddDocName(docId int, name string) {
	r.DocNames[docId] = name
}

// AddDoc makes the document text available to the doc format.
func (r *Renderer) AddDoc(doc sent.Doc) {
	r.docs[doc.Id] = doc
	r.DocNames[doc.Id] = doc.Title
}

// Render prints chains in the current format.
func (r *Renderer) Render(chains []storage.Chain) {
	if r.Format == FormatDoc {
		for _, id := range docIDs(chains) {
			doc, ok := r.docs[id]
			if !ok {
				fmt.Fprintf(r.W, "%s[doc %d not loaded]%s\n", r.color(Red), id, r.color(Off))
				continue
			}
			r.Document(doc, chains)
		}
		return
	}

	for i, ch := range chains {
		fmt.Fprintf(r.W, "%s%s\n", r.buildPrefixChain(i, ch), r.ChainString(i, ch))
	}
}

// ChainString joins the mention texts of a chain.
func (r *Renderer) ChainString(i int, ch storage.Chain) string {
	texts := make([]string, 0, len(ch.Mentions))
	c := palette[i%len(palette)]
	for _, m := range ch.Mentions {
		texts = append(texts, r.color(c)+m.Text+r.color(Off))
	}
	return strings.Join(texts, " ↔ ")
}

func (r *Renderer) color(c string) string {
	if !r.HasColor {
		return ""
	}
	return c
}

func (r *Renderer) buildPrefixChain(i int, ch storage.Chain) string {
	if !r.HasPrefix {
		return ""
	}

	docs := docIDs([]storage.Chain{ch})
	title := ""
	if len(docs) > 0 {
		title = r.title(docs[0])
	}
	return fmt.Sprintf("[%s %3d %-10s %-10s %2d] ✍  ", title, i, ch.Type, ch.Category, len(ch.Mentions))
}

// Document prints the sentences of doc with the mentions of each chain
// colored and suffixed with the chain position.
func (r *Renderer) Document(doc sent.Doc, chains []storage.Chain) {
	marks := map[int]int{}
	ends := map[int]int{}
	for i, ch := range chains {
		for _, m := range ch.Mentions {
			if m.DocID != doc.Id {
				continue
			}
			for _, t := range doc.Tokens() {
				if t.Idx >= m.Begin && t.End() <= m.End {
					marks[t.Id] = i
					if t.End() == m.End {
						ends[t.Id] = i
					}
				}
			}
		}
	}

	if r.HasPrefix {
		fmt.Fprintf(r.W, "%s\n", r.title(doc.Id))
	}
	for _, s := range doc.Sentences {
		text := r.sentence(s.Tokens, marks, ends)
		fmt.Fprintf(r.W, "%s\n", strings.ReplaceAll(text, "\n", " "))
	}
}

// SentenceString renders tokens without chain marks.
func (r *Renderer) SentenceString(s []sent.Token) string {
	return strings.ReplaceAll(r.sentence(s, nil, nil), "\n", " ")
}

func (r *Renderer) sentence(sentence []sent.Token, marks, ends map[int]int) string {
	var str strings.Builder
	var lastIdx, lastLen int
	for i, token := range sentence {
		l := len(token.Text)
		if i > 0 {
			// tokens of a multi token word share the same idx, their text
			// is written once
			diff := token.Idx - lastIdx
			if diff <= 0 {
				continue
			}
			if gap := diff - lastLen; gap > 0 {
				str.WriteString(strings.Repeat(" ", gap))
			}
		}
		str.WriteString(r.colorToken(token, marks, ends))

		lastIdx = token.Idx
		lastLen = l
	}

	return str.String()
}

func (r *Renderer) colorToken(token sent.Token, marks, ends map[int]int) string {
	chain, ok := marks[token.Id]
	if !ok {
		return token.Text
	}

	text := r.color(palette[chain%len(palette)]) + token.Text + r.color(Off)
	if end, ok := ends[token.Id]; ok {
		text += fmt.Sprintf("[%d]", end)
	}
	return text
}

func (r *Renderer) title(docId int) string {
	title := r.DocNames[docId]
	var part string
	if len(title) <= 20 {
		part = fmt.Sprintf("%-20s", title)
	} else {
		part = title[:20]
	}

	return r.color(Grey256) + part + r.color(Off)
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {
	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			r.Format = supported[(i+1)%len(supported)]
			return
		}
	}
	r.Format = Defaultformat
}

func (r *Renderer) NextPrefix() {
	// toggle
	r.HasPrefix = !r.HasPrefix
}

// docIDs returns the distinct document ids of the chains in first seen order.
func docIDs(chains []storage.Chain) []int {
	seen := map[int]bool{}
	var ids []int
	for _, ch := range chains {
		for _, m := range ch.Mentions {
			if !seen[m.DocID] {
				seen[m.DocID] = true
				ids = append(ids, m.DocID)
			}
		}
	}
	return ids
}
