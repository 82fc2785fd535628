package pair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/logging"
	"github.com/revelaction/clincoref/mention"
	"github.com/revelaction/clincoref/sentence/sentencetest"
)

type fixture struct {
	dc       *docctx.Context
	store    *cluster.Store
	mentions []*mention.Mention

	// header "Pneumonia", the chain "The patient" ↔ "She", "a cough"
	header, patient, cough *cluster.Cluster
	focus                  *mention.Mention
}

// newFixture builds a note whose first sentence is a section header and
// whose last mention, "The cough", sits six sentences after the others.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	d := sentencetest.Doc(1, "",
		"Pneumonia",
		"The patient was admitted",
		"She had a cough",
		"Vitals were stable", "Vitals were stable", "Vitals were stable",
		"Vitals were stable", "Vitals were stable",
		"The cough persisted",
	)
	for i := 1; i < len(d.Sentences); i++ {
		d.Sentences[i].Paragraph = 1
	}
	sentencetest.Mark(&d, 0, 0, 0, "Disorder")
	sentencetest.Mark(&d, 1, 0, 1)
	sentencetest.Mark(&d, 2, 0, 0)
	sentencetest.Mark(&d, 2, 2, 3)
	sentencetest.Mark(&d, 8, 0, 1, "Finding")

	ms := mention.NewStore(nil).AddDoc(d, 0, nil)
	require.Len(t, ms, 5)

	cs := cluster.NewStore()
	f := &fixture{store: cs, mentions: ms, focus: ms[4]}
	var err error
	f.header, err = cs.CreateSingleton(ms[0])
	require.NoError(t, err)
	f.patient, err = cs.CreatePair(ms[1], ms[2])
	require.NoError(t, err)
	f.cough, err = cs.CreateSingleton(ms[3])
	require.NoError(t, err)

	f.dc = docctx.New(d, 0, nil, ms, cs, nil, logging.Nop())
	return f
}

func TestSentenceDistance(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		max       int
		longRange []string
		want      []*cluster.Cluster
	}{
		{"within bound", 6, nil, []*cluster.Cluster{f.patient, f.cough}},
		{"out of bound", 5, nil, nil},
		{"long range type ignores bound", 5, []string{"Finding"}, []*cluster.Cluster{f.patient, f.cough}},
		{"type mismatch", 8, nil, []*cluster.Cluster{f.patient, f.cough}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSentenceDistance(tt.max, tt.longRange)
			got := p.Generate(f.dc, f.focus, f.store.Clusters())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSectionHeader(t *testing.T) {
	f := newFixture(t)
	got := (&SectionHeaderPairer{}).Generate(f.dc, f.focus, f.store.Clusters())
	assert.Equal(t, []*cluster.Cluster{f.header}, got)
}

func TestClusterPairer(t *testing.T) {
	f := newFixture(t)

	got := (&ClusterPairer{}).Generate(f.dc, f.focus, f.store.Clusters())
	assert.Equal(t, []*cluster.Cluster{f.patient}, got)

	got = (&ClusterPairer{MaxSentences: 3}).Generate(f.dc, f.focus, f.store.Clusters())
	assert.Empty(t, got)
}

func TestHeadword(t *testing.T) {
	f := newFixture(t)
	got := (&HeadwordPairer{}).Generate(f.dc, f.focus, f.store.Clusters())
	assert.Equal(t, []*cluster.Cluster{f.cough}, got)
}

func TestPreviousDocument(t *testing.T) {
	f := newFixture(t)

	d := sentencetest.Doc(2, "", "It improved")
	sentencetest.Mark(&d, 0, 0, 0)
	ms := mention.NewStore(nil).AddDoc(d, 1, nil)
	require.Len(t, ms, 1)

	prev := &docctx.Previous{Doc: f.dc.Doc, Order: 0, Clusters: f.store.Clusters()}
	dc := docctx.New(d, 1, nil, ms, f.store, prev, nil)

	p := &PreviousDocumentPairer{}
	got := p.Generate(dc, ms[0], f.store.Clusters())
	assert.Equal(t, []*cluster.Cluster{f.header, f.patient, f.cough}, got)

	// pruned clusters are not proposed
	got = p.Generate(dc, ms[0], []*cluster.Cluster{f.patient})
	assert.Equal(t, []*cluster.Cluster{f.patient}, got)

	// nothing on the first document
	assert.Nil(t, p.Generate(f.dc, f.focus, f.store.Clusters()))
}

func TestMissingHeadYieldsNoCandidates(t *testing.T) {
	f := newFixture(t)
	rec := logging.NewRecorder()
	f.dc.Logger = rec

	headless := *f.focus
	headless.Head = nil

	for _, s := range []Strategy{NewSentenceDistance(10, nil), &SectionHeaderPairer{}, &ClusterPairer{}, &HeadwordPairer{}} {
		assert.Nil(t, s.Generate(f.dc, &headless, f.store.Clusters()), s.Name())
	}
	assert.Len(t, rec.Entries(logging.WarnLevel), 4)
}

func TestAggregatorDeduplicatesInStrategyOrder(t *testing.T) {
	f := newFixture(t)

	a := NewAggregator(&SectionHeaderPairer{}, &HeadwordPairer{}, &ClusterPairer{}, NewSentenceDistance(6, nil))
	got := a.Candidates(f.dc, f.focus, f.store.Clusters())
	assert.Equal(t, []*cluster.Cluster{f.header, f.cough, f.patient}, got)

	again := a.Candidates(f.dc, f.focus, f.store.Clusters())
	assert.Equal(t, got, again)
	assert.Len(t, a.Strategies(), 4)
}

func TestAggregatorRepeatedStrategyEqualsOnce(t *testing.T) {
	f := newFixture(t)

	for _, s := range []Strategy{NewSentenceDistance(6, nil), &SectionHeaderPairer{}, &HeadwordPairer{}, &ClusterPairer{}} {
		once := NewAggregator(s).Candidates(f.dc, f.focus, f.store.Clusters())
		twice := NewAggregator(s, s).Candidates(f.dc, f.focus, f.store.Clusters())
		assert.Equal(t, once, twice, s.Name())
	}
}

func TestPreviousDocumentProposesChainsExtendedThere(t *testing.T) {
	f := newFixture(t)

	// chain started in the first document and extended in the second
	second := sentencetest.Doc(2, "", "She returned")
	sentencetest.Mark(&second, 0, 0, 0)
	ms2 := mention.NewStore(nil).AddDoc(second, 1, nil)
	require.NoError(t, f.store.Append(f.patient, ms2[0]))

	third := sentencetest.Doc(3, "", "We discharged her")
	sentencetest.Mark(&third, 0, 2, 2)
	ms3 := mention.NewStore(nil).AddDoc(third, 2, nil)

	prev := &docctx.Previous{Doc: second, Order: 1, Clusters: []*cluster.Cluster{f.patient}}
	dc := docctx.New(third, 2, nil, ms3, f.store, prev, nil)

	got := (&PreviousDocumentPairer{}).Generate(dc, ms3[0], f.store.Clusters())
	assert.Equal(t, []*cluster.Cluster{f.patient}, got)

	// clusters without a member in the previous document are skipped
	prev.Clusters = []*cluster.Cluster{f.header}
	assert.Empty(t, (&PreviousDocumentPairer{}).Generate(dc, ms3[0], f.store.Clusters()))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{MultiMember, Headword, PreviousDocument, SectionHeader, SentenceDistance}, Names())

	all, err := NewAll([]string{Headword, SentenceDistance}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, Headword, all[0].Name())
	assert.Equal(t, 5, all[1].(*SentenceDistancePairer).MaxSentences)

	_, err = New("nearest", DefaultOptions())
	assert.ErrorContains(t, err, "unknown pairing strategy")
}
