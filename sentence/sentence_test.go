package sentence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/sentence/sentencetest"
)

func TestTokenIndexSpan(t *testing.T) {
	d := sentencetest.Doc(1, "", "The patient was admitted", "She reported pain")
	ti := sent.NewTokenIndex(d)

	// "patient was"
	toks := ti.Span(4, 15)
	require.Len(t, toks, 2)
	assert.Equal(t, "patient", toks[0].Text)
	assert.Equal(t, "was", toks[1].Text)

	// a range inside one token still overlaps it
	toks = ti.Span(5, 6)
	require.Len(t, toks, 1)
	assert.Equal(t, "patient", toks[0].Text)

	assert.Empty(t, ti.Span(500, 510))

	tok, ok := ti.Token(5)
	require.True(t, ok)
	assert.Equal(t, "She", tok.Text)
	assert.Equal(t, 1, tok.SentenceId)

	s, ok := ti.Sentence(1)
	require.True(t, ok)
	assert.Equal(t, 1, s.Paragraph)
	_, ok = ti.Sentence(2)
	assert.False(t, ok)

	assert.Len(t, d.Tokens(), 7)
}

func TestSpanHead(t *testing.T) {
	d := sentencetest.Doc(1, "", "the left knee hurts")
	toks := d.Sentences[0].Tokens
	toks[0].Head = toks[2].Id
	toks[1].Head = toks[2].Id
	toks[2].Head = toks[3].Id
	ti := sent.NewTokenIndex(d)

	head, ok := ti.SpanHead(toks[:3])
	require.True(t, ok)
	assert.Equal(t, "knee", head.Text)

	// a cycle inside the span has no head
	cyc := []sent.Token{{Id: 1, Head: 2}, {Id: 2, Head: 1}}
	_, ok = ti.SpanHead(cyc)
	assert.False(t, ok)
}

func TestTokenFeature(t *testing.T) {
	tok := sent.Token{Morph: "Gender=Fem|Number=Plur"}
	assert.Equal(t, "Plur", tok.Feature("Number"))
	assert.Equal(t, "Fem", tok.Feature("Gender"))
	assert.Equal(t, "", tok.Feature("Person"))
	assert.Equal(t, "", sent.Token{}.Feature("Number"))
}

func TestAnnotationIndex(t *testing.T) {
	d := sentencetest.Doc(1, "", "left knee pain")
	sentencetest.Annotate(&d, 0, 1, 1, "AnatomicalSite")
	sentencetest.Annotate(&d, 0, 0, 2, "Finding")
	sentencetest.Annotate(&d, 0, 0, 1, "AnatomicalSite")
	ai := sent.NewAnnotationIndex(d.Annotations)

	knee := d.Sentences[0].Tokens[1]
	covering := ai.Covering(knee.Idx, knee.End())
	require.Len(t, covering, 3)
	// begin offset first, longest first on ties
	assert.Equal(t, "Finding", covering[0].Type)

	assert.Equal(t, []string{"Finding", "AnatomicalSite"}, ai.Types(knee))

	largest, ok := ai.Largest(knee)
	require.True(t, ok)
	assert.Equal(t, 14, largest.Len())

	pain := d.Sentences[0].Tokens[2]
	assert.Equal(t, []string{"Finding"}, ai.Types(pain))

	var empty *sent.AnnotationIndex
	assert.Nil(t, empty.Covering(0, 1))
}

func TestAnnotationLargestHonorsHead(t *testing.T) {
	d := sentencetest.Doc(1, "", "left knee pain")
	toks := d.Sentences[0].Tokens
	d.Annotations = []sent.Annotation{
		{Begin: toks[0].Idx, End: toks[2].End(), Head: toks[2].Id, Type: "Finding"},
		{Begin: toks[0].Idx, End: toks[1].End(), Head: toks[1].Id, Type: "AnatomicalSite"},
	}
	ai := sent.NewAnnotationIndex(d.Annotations)

	largest, ok := ai.Largest(toks[1])
	require.True(t, ok)
	assert.Equal(t, "AnatomicalSite", largest.Type)

	_, ok = ai.Largest(toks[0])
	assert.False(t, ok)
}
