package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/mention"
	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/sentence/sentencetest"
)

func TestAggregate(t *testing.T) {
	d := sentencetest.Doc(1, "", "Chest pain began", "The pain worsened", "Aspirin was given", "It helped")
	sentencetest.Mark(&d, 0, 0, 1)
	sentencetest.Mark(&d, 1, 0, 1)
	sentencetest.Mark(&d, 2, 0, 0)
	sentencetest.Mark(&d, 3, 0, 0)
	sentencetest.Annotate(&d, 0, 0, 1, "SignOrSymptom")
	sentencetest.Annotate(&d, 1, 1, 1, "Finding")
	sentencetest.Annotate(&d, 2, 0, 0, "Medication")

	ms := mention.NewStore(nil).AddDoc(d, 0, nil)
	require.Len(t, ms, 4)

	cs := cluster.NewStore()
	pain, err := cs.CreatePair(ms[0], ms[1])
	require.NoError(t, err)
	pain.Category = "Identity"
	med, err := cs.CreatePair(ms[2], ms[3])
	require.NoError(t, err)
	_, err = cs.CreateSingleton(&mention.Mention{DocID: 1, Begin: 200, End: 203})
	require.NoError(t, err)

	ai := sent.NewAnnotationIndex(d.Annotations)
	src := func(int) *sent.AnnotationIndex { return ai }

	events := Aggregate(cs.Clusters(), src)
	require.Len(t, events, 2)

	// one vote each, the first member wins the tie
	assert.Equal(t, pain.ID, events[0].ClusterID)
	assert.Equal(t, "SignOrSymptom", events[0].Type)
	assert.Equal(t, "Identity", events[0].Category)
	assert.Len(t, events[0].Mentions, 2)

	assert.Equal(t, med.ID, events[1].ClusterID)
	assert.Equal(t, "Medication", events[1].Type)
}

func TestTypeMajority(t *testing.T) {
	d := sentencetest.Doc(1, "", "pain", "ache", "pain")
	for i := range d.Sentences {
		sentencetest.Mark(&d, i, 0, 0)
	}
	sentencetest.Annotate(&d, 0, 0, 0, "Finding")
	sentencetest.Annotate(&d, 1, 0, 0, "SignOrSymptom")
	sentencetest.Annotate(&d, 2, 0, 0, "SignOrSymptom")
	ms := mention.NewStore(nil).AddDoc(d, 0, nil)

	cs := cluster.NewStore()
	c, err := cs.CreatePair(ms[0], ms[1])
	require.NoError(t, err)
	require.NoError(t, cs.Append(c, ms[2]))

	ai := sent.NewAnnotationIndex(d.Annotations)
	assert.Equal(t, "SignOrSymptom", Type(c, func(int) *sent.AnnotationIndex { return ai }))
}

func TestTypeGeneric(t *testing.T) {
	cs := cluster.NewStore()
	c, err := cs.CreatePair(
		&mention.Mention{DocID: 1, Begin: 0, End: 3, Head: &sent.Token{Idx: 0, Text: "she"}},
		&mention.Mention{DocID: 1, Begin: 10, End: 13},
	)
	require.NoError(t, err)

	assert.Equal(t, GenericType, Type(c, nil))
	assert.Equal(t, GenericType, Type(c, func(int) *sent.AnnotationIndex { return nil }))
}
