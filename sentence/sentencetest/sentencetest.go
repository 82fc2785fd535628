// Package sentencetest builds small parsed documents for tests.
package sentencetest

import (
	"fmt"
	"strings"

	sent "github.com/revelaction/clincoref/sentence"
)

var pronouns = map[string]bool{
	"he": true, "him": true, "his": true, "she": true, "her": true,
	"it": true, "its": true, "they": true, "them": true, "we": true,
}

// Doc builds a document with one sentence per paragraph. Words are split on
// spaces, every token is its own dependency root and character offsets
// assume single spaces between words.
func Doc(id int, date string, sentences ...string) sent.Doc {
	d := sent.Doc{Id: id, Title: fmt.Sprintf("note %d", id), Date: date}

	offset, tid := 0, 1
	for si, s := range sentences {
		st := sent.Sentence{Id: si, Paragraph: si}
		for i, w := range strings.Fields(s) {
			pos, tag := "NOUN", "NN"
			if pronouns[strings.ToLower(w)] {
				pos, tag = "PRON", "PRP"
			}
			st.Tokens = append(st.Tokens, sent.Token{
				Id:         tid,
				Head:       tid,
				SentenceId: si,
				Pos:        pos,
				Tag:        tag,
				Idx:        offset,
				Text:       w,
				Lemma:      strings.ToLower(w),
				Index:      i,
			})
			offset += len(w) + 1
			tid++
		}
		d.Sentences = append(d.Sentences, st)
	}
	return d
}

// Mark adds a markable over words from..to (inclusive) of sentence si,
// headed by the last word, and returns its span.
func Mark(d *sent.Doc, si, from, to int, types ...string) sent.Span {
	toks := d.Sentences[si].Tokens
	first, last := toks[from], toks[to]
	d.Markables = append(d.Markables, sent.Markable{
		Begin: first.Idx,
		End:   last.End(),
		Head:  last.Id,
		Types: types,
	})
	return sent.Span{Begin: first.Idx, End: last.End()}
}

// Annotate adds an entity annotation over words from..to of sentence si.
func Annotate(d *sent.Doc, si, from, to int, typ string) {
	toks := d.Sentences[si].Tokens
	d.Annotations = append(d.Annotations, sent.Annotation{
		Begin: toks[from].Idx,
		End:   toks[to].End(),
		Type:  typ,
	})
}

// Chain adds a gold chain over the given spans.
func Chain(d *sent.Doc, id string, spans ...sent.Span) {
	d.Chains = append(d.Chains, sent.GoldChain{Id: id, Spans: spans})
}
