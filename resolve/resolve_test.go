package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/clincoref/classify"
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/feature"
	"github.com/revelaction/clincoref/gold"
	"github.com/revelaction/clincoref/logging"
	"github.com/revelaction/clincoref/mention"
	"github.com/revelaction/clincoref/metrics"
	"github.com/revelaction/clincoref/order"
	"github.com/revelaction/clincoref/pair"
	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/sentence/sentencetest"
)

// pronounClassifier links every pronoun to the first candidate.
type pronounClassifier struct{}

func isPronoun(v feature.Vector) bool {
	f, ok := v.Get("MentionPronoun")
	return ok && f.Value() > 0
}

func (pronounClassifier) Classify(v feature.Vector) (string, error) {
	if isPronoun(v) {
		return cluster.DefaultCategory, nil
	}
	return classify.LabelNone, nil
}

func (p pronounClassifier) Score(v feature.Vector) (map[string]float64, error) {
	if isPronoun(v) {
		return map[string]float64{cluster.DefaultCategory: 0.8, classify.LabelNone: 0.2}, nil
	}
	return map[string]float64{cluster.DefaultCategory: 0.1, classify.LabelNone: 0.9}, nil
}

// clusterScorer prefers the candidate cluster named in prefer.
type clusterScorer struct {
	prefer int
}

func (c clusterScorer) Classify(v feature.Vector) (string, error) {
	return pronounClassifier{}.Classify(v)
}

func (c clusterScorer) Score(v feature.Vector) (map[string]float64, error) {
	if !isPronoun(v) {
		return pronounClassifier{}.Score(v)
	}
	f, _ := v.Get("ClusterID")
	p := 0.6
	if int(f.Value()) == c.prefer {
		p = 0.9
	}
	return map[string]float64{cluster.DefaultCategory: p, classify.LabelNone: 1 - p}, nil
}

type clusterID struct{}

func (clusterID) Name() string { return "cluster-id" }

func (clusterID) Mention(*docctx.Context, *mention.Mention) []feature.Feature { return nil }

func (clusterID) Pair(_ *docctx.Context, c *cluster.Cluster, _ *mention.Mention) []feature.Feature {
	return []feature.Feature{feature.Number("ClusterID", float64(c.ID))}
}

// rankerFunc scores solo and pair vectors separately.
type rankerFunc struct {
	solo, pair float64
}

func (r rankerFunc) Predict(v feature.Vector) (float64, error) {
	if _, ok := v.Get("AgreeNumber"); ok {
		return r.pair, nil
	}
	return r.solo, nil
}

type brokenTrainer struct{}

func (brokenTrainer) Train(classify.Instance) error { return errors.New("disk full") }

// patientDoc is "The patient was admitted. She reported pain. We examined her."
func patientDoc(t *testing.T) (sent.Doc, []sent.Span) {
	t.Helper()
	d := sentencetest.Doc(1, "2021-03-01", "The patient was admitted", "She reported pain", "We examined her")
	spans := []sent.Span{
		sentencetest.Mark(&d, 0, 0, 1),
		sentencetest.Mark(&d, 1, 0, 0),
		sentencetest.Mark(&d, 2, 2, 2),
	}
	return d, spans
}

func agreementSet(t *testing.T, extra ...feature.Extractor) feature.Set {
	t.Helper()
	set, err := feature.NewSet([]string{feature.AgreementName}, feature.Options{})
	require.NoError(t, err)
	return append(set, extra...)
}

func sentenceDistance() []pair.Strategy {
	return []pair.Strategy{pair.NewSentenceDistance(5, nil)}
}

func newEngine(t *testing.T, opts Options, deps Deps) *Engine {
	t.Helper()
	if deps.Strategies == nil {
		deps.Strategies = sentenceDistance()
	}
	if deps.Extractors == nil {
		deps.Extractors = agreementSet(t)
	}
	e, err := New(opts, deps)
	require.NoError(t, err)
	return e
}

func texts(c *cluster.Cluster) []string {
	var res []string
	for _, m := range c.Members() {
		res = append(res, m.Text)
	}
	return res
}

func membership(r *Result) [][]string {
	var res [][]string
	for _, c := range r.Clusters {
		res = append(res, texts(c))
	}
	return res
}

func TestNewFailsFast(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		deps Deps
		want error
	}{
		{
			name: "classify without classifier",
			opts: Options{Decoding: Classify},
			deps: Deps{Strategies: sentenceDistance(), Extractors: feature.Set{&feature.Agreement{}}},
			want: ErrNoClassifier,
		},
		{
			name: "rank without ranker",
			opts: Options{Decoding: Rank},
			deps: Deps{Strategies: sentenceDistance(), Extractors: feature.Set{&feature.Agreement{}}, Classifier: pronounClassifier{}},
			want: ErrNoRanker,
		},
		{
			name: "train without trainer",
			opts: Options{Mode: Train},
			deps: Deps{Strategies: sentenceDistance(), Extractors: feature.Set{&feature.Agreement{}}, Gold: gold.NewChains(nil)},
			want: ErrNoTrainer,
		},
		{
			name: "train without gold",
			opts: Options{Mode: Train},
			deps: Deps{Strategies: sentenceDistance(), Extractors: feature.Set{&feature.Agreement{}}, Trainer: &classify.Collector{}},
			want: ErrNoGold,
		},
		{
			name: "no strategies",
			deps: Deps{Extractors: feature.Set{&feature.Agreement{}}, Classifier: pronounClassifier{}},
			want: ErrNoStrategies,
		},
		{
			name: "no extractors",
			deps: Deps{Strategies: sentenceDistance(), Classifier: pronounClassifier{}},
			want: ErrNoExtractors,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts, tt.deps)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewRejectsUnknownPolicy(t *testing.T) {
	_, err := New(Options{Policy: "random"}, Deps{
		Strategies: sentenceDistance(),
		Extractors: feature.Set{&feature.Agreement{}},
		Classifier: pronounClassifier{},
	})
	require.Error(t, err)
}

func TestResolvePronounChain(t *testing.T) {
	doc, _ := patientDoc(t)
	rec := metrics.New()
	e := newEngine(t, DefaultOptions(), Deps{Classifier: pronounClassifier{}, Metrics: rec})

	res, err := e.ResolveDocument(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, res.Clusters, 1)
	assert.Equal(t, []string{"The patient", "She", "her"}, texts(res.Clusters[0]))
	assert.Equal(t, cluster.DefaultCategory, res.Clusters[0].Category)

	require.Len(t, res.Links, 2)
	for _, l := range res.Links {
		assert.Equal(t, "The patient", l.Antecedent.Text)
	}
	assert.Equal(t, "She", res.Links[0].Anaphor.Text)
	assert.Equal(t, "her", res.Links[1].Anaphor.Text)

	assert.Equal(t, 0, res.Pruned)
	assert.Equal(t, 0, res.Violations)
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.Mentions))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Links.WithLabelValues(string(Classify))))

	require.Len(t, res.Events, 1)
	assert.Equal(t, res.Clusters[0].ID, res.Events[0].ClusterID)
}

func TestResolveFarUnrelatedMentionsGiveEmptyOutput(t *testing.T) {
	sentences := []string{"The fracture healed"}
	for i := 0; i < 10; i++ {
		sentences = append(sentences, "Nothing of note")
	}
	sentences = append(sentences, "A dog barked")

	doc := sentencetest.Doc(1, "", sentences...)
	sentencetest.Mark(&doc, 0, 0, 1)
	sentencetest.Mark(&doc, 11, 0, 1)

	rec := metrics.New()
	e := newEngine(t, DefaultOptions(), Deps{Classifier: pronounClassifier{}, Metrics: rec})

	res, err := e.ResolveDocument(context.Background(), doc)
	require.NoError(t, err)

	assert.Empty(t, res.Clusters)
	assert.Empty(t, res.Events)
	assert.Equal(t, 2, res.Pruned)
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Pruned))
}

func TestResolveRanking(t *testing.T) {
	tests := []struct {
		name   string
		ranker rankerFunc
		want   [][]string
	}{
		{name: "solo wins", ranker: rankerFunc{solo: 2, pair: 1}, want: nil},
		{name: "tie goes to solo", ranker: rankerFunc{solo: 1, pair: 1}, want: nil},
		{name: "candidate wins", ranker: rankerFunc{solo: 1, pair: 2}, want: [][]string{{"The patient", "She", "her"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := patientDoc(t)
			opts := DefaultOptions()
			opts.Decoding = Rank
			e := newEngine(t, opts, Deps{Ranker: tt.ranker})

			res, err := e.ResolveDocument(context.Background(), doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, membership(res))
		})
	}
}

func TestResolveGreedyAndBestFirst(t *testing.T) {
	newDoc := func() sent.Doc {
		d := sentencetest.Doc(1, "", "The patient saw the doctor", "She was calm")
		sentencetest.Mark(&d, 0, 0, 1)
		sentencetest.Mark(&d, 0, 3, 4)
		sentencetest.Mark(&d, 1, 0, 0)
		return d
	}

	tests := []struct {
		policy Policy
		want   [][]string
	}{
		{policy: Greedy, want: [][]string{{"The patient", "She"}}},
		{policy: Best, want: [][]string{{"the doctor", "She"}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Policy = tt.policy
			e := newEngine(t, opts, Deps{
				Classifier: clusterScorer{prefer: 1},
				Extractors: agreementSet(t, clusterID{}),
			})

			res, err := e.ResolveDocument(context.Background(), newDoc())
			require.NoError(t, err)
			assert.Equal(t, tt.want, membership(res))
		})
	}
}

func TestResolveIsRepeatable(t *testing.T) {
	run := func() [][]string {
		doc, _ := patientDoc(t)
		e := newEngine(t, DefaultOptions(), Deps{
			Classifier: pronounClassifier{},
			Strategies: []pair.Strategy{pair.NewSentenceDistance(5, nil), &pair.HeadwordPairer{}, &pair.ClusterPairer{}},
		})
		res, err := e.ResolveDocument(context.Background(), doc)
		require.NoError(t, err)
		return membership(res)
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run())
	}
}

func TestResolveSubjectCrossDocument(t *testing.T) {
	admission := sentencetest.Doc(1, "2020-01-01", "The patient was admitted")
	sentencetest.Mark(&admission, 0, 0, 1)
	followUp := sentencetest.Doc(2, "2020-02-01", "She returned")
	sentencetest.Mark(&followUp, 0, 0, 0)

	var seen []int
	e := newEngine(t, DefaultOptions(), Deps{
		Classifier: pronounClassifier{},
		Strategies: []pair.Strategy{pair.NewSentenceDistance(5, nil), &pair.PreviousDocumentPairer{}},
		OnDocument: func(d sent.Doc) { seen = append(seen, d.Id) },
	})

	res, err := e.ResolveSubject(context.Background(), order.Subject{
		ID:   "patient-1",
		Docs: []sent.Doc{followUp, admission},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, seen)
	require.Len(t, res.Clusters, 1)

	members := res.Clusters[0].Members()
	require.Len(t, members, 2)
	assert.Equal(t, 1, members[0].DocID)
	assert.Equal(t, 2, members[1].DocID)
	assert.True(t, members[0].Before(members[1]))

	assert.Len(t, res.Chains(1), 1)
	assert.Len(t, res.Chains(2), 1)
}

func TestResolveSubjectCarriesChainAcrossTimeline(t *testing.T) {
	admission := sentencetest.Doc(1, "2020-01-01", "The patient was admitted")
	sentencetest.Mark(&admission, 0, 0, 1)
	followUp := sentencetest.Doc(2, "2020-02-01", "She returned")
	sentencetest.Mark(&followUp, 0, 0, 0)
	discharge := sentencetest.Doc(3, "2020-03-01", "We discharged her")
	sentencetest.Mark(&discharge, 0, 2, 2)

	e := newEngine(t, DefaultOptions(), Deps{
		Classifier: pronounClassifier{},
		Strategies: []pair.Strategy{&pair.PreviousDocumentPairer{}},
	})

	res, err := e.ResolveSubject(context.Background(), order.Subject{
		ID:   "patient-1",
		Docs: []sent.Doc{discharge, admission, followUp},
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"The patient", "She", "her"}}, membership(res))
	assert.Zero(t, res.Pruned)
	require.Len(t, res.Links, 2)
	for _, l := range res.Links {
		assert.Equal(t, "The patient", l.Antecedent.Text)
	}
}

func TestResolveHonorsCancellation(t *testing.T) {
	doc, _ := patientDoc(t)
	e := newEngine(t, DefaultOptions(), Deps{Classifier: pronounClassifier{}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ResolveDocument(ctx, doc)
	require.ErrorIs(t, err, context.Canceled)
}

func TestResolveAllGroupsBySubject(t *testing.T) {
	a, _ := patientDoc(t)
	a.Subject = "p1"
	b := sentencetest.Doc(2, "", "Nothing here")
	b.Subject = "p2"

	e := newEngine(t, DefaultOptions(), Deps{Classifier: pronounClassifier{}})

	var subjects []string
	err := e.ResolveAll(context.Background(), []sent.Doc{b, a}, func(r *Result) error {
		subjects = append(subjects, r.Subject)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, subjects)
}

func TestTrainClassification(t *testing.T) {
	doc, spans := patientDoc(t)
	sentencetest.Chain(&doc, "c1", spans...)

	collector := &classify.Collector{}
	rec := metrics.New()
	opts := DefaultOptions()
	opts.Mode = Train
	e := newEngine(t, opts, Deps{Trainer: collector, Gold: gold.NewChains(nil), Metrics: rec})

	res, err := e.ResolveDocument(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, collector.Instances, 5)

	var positives, noLinks, singletons int
	for _, in := range collector.Instances {
		assert.False(t, in.Ranking())
		switch {
		case in.NoLink:
			noLinks++
			if in.Label == LabelSingleton {
				singletons++
			}
		case in.Positive():
			positives++
			assert.Equal(t, cluster.DefaultCategory, in.Label)
		}
	}
	assert.Equal(t, 2, positives)
	assert.Equal(t, 3, noLinks)
	assert.Equal(t, 1, singletons)
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.Instances.WithLabelValues("nolink")))

	assert.Equal(t, [][]string{{"The patient", "She", "her"}}, membership(res))
}

func TestTrainRankingNegativeSampling(t *testing.T) {
	tests := []struct {
		name      string
		keep      float64
		total     int
		negatives int
	}{
		{name: "keep all", keep: 1, total: 8, negatives: 2},
		{name: "drop all", keep: 0, total: 6, negatives: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, spans := patientDoc(t)
			sentencetest.Mark(&doc, 1, 2, 2) // pain
			sentencetest.Chain(&doc, "c1", spans...)

			collector := &classify.Collector{}
			opts := DefaultOptions()
			opts.Mode = Train
			opts.Decoding = Rank
			opts.KeepNegativeProb = tt.keep
			e := newEngine(t, opts, Deps{Trainer: collector, Gold: gold.NewChains(nil)})

			_, err := e.ResolveDocument(context.Background(), doc)
			require.NoError(t, err)
			require.Len(t, collector.Instances, tt.total)

			negatives := 0
			dummies := map[int]int{}
			for _, in := range collector.Instances {
				require.True(t, in.Ranking())
				if in.NoLink {
					dummies[in.QueryID]++
					continue
				}
				if !in.Positive() {
					negatives++
				}
			}
			assert.Equal(t, tt.negatives, negatives)
			assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1}, dummies)
		})
	}
}

func TestTrainSamplingIsSeeded(t *testing.T) {
	run := func(seed int64) []classify.Instance {
		t.Helper()
		doc, spans := patientDoc(t)
		sentencetest.Mark(&doc, 1, 2, 2) // pain
		sentencetest.Mark(&doc, 2, 0, 0) // We
		sentencetest.Chain(&doc, "c1", spans...)

		collector := &classify.Collector{}
		opts := DefaultOptions()
		opts.Mode = Train
		opts.KeepNegativeProb = 0.5
		opts.Seed = seed
		e := newEngine(t, opts, Deps{Trainer: collector, Gold: gold.NewChains(nil)})

		_, err := e.ResolveDocument(context.Background(), doc)
		require.NoError(t, err)
		return collector.Instances
	}

	first := run(42)
	assert.Equal(t, first, run(42))
}

func TestTrainOracleJoinsUnproposedCluster(t *testing.T) {
	sentences := []string{"The patient was admitted"}
	for i := 0; i < 8; i++ {
		sentences = append(sentences, "Nothing of note")
	}
	sentences = append(sentences, "She left")

	doc := sentencetest.Doc(1, "", sentences...)
	a := sentencetest.Mark(&doc, 0, 0, 1)
	b := sentencetest.Mark(&doc, 9, 0, 0)
	sentencetest.Chain(&doc, "c1", a, b)

	collector := &classify.Collector{}
	opts := DefaultOptions()
	opts.Mode = Train
	e := newEngine(t, opts, Deps{Trainer: collector, Gold: gold.NewChains(nil)})

	res, err := e.ResolveDocument(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"The patient", "She"}}, membership(res))

	last := collector.Instances[len(collector.Instances)-1]
	assert.True(t, last.NoLink)
	assert.Equal(t, classify.LabelNone, last.Label)
}

func TestTrainPropagatesTrainerErrors(t *testing.T) {
	doc, spans := patientDoc(t)
	sentencetest.Chain(&doc, "c1", spans...)

	opts := DefaultOptions()
	opts.Mode = Train
	e := newEngine(t, opts, Deps{Trainer: brokenTrainer{}, Gold: gold.NewChains(nil)})

	_, err := e.ResolveDocument(context.Background(), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestLinkerRejectsSecondAntecedent(t *testing.T) {
	doc := sentencetest.Doc(1, "", "The patient and the nurse", "She smiled")
	sentencetest.Mark(&doc, 0, 0, 1)
	sentencetest.Mark(&doc, 0, 3, 4)
	sentencetest.Mark(&doc, 1, 0, 0)

	ms := mention.NewStore(nil).AddDoc(doc, 0, nil)
	require.Len(t, ms, 3)

	store := cluster.NewStore()
	c0, err := store.CreateSingleton(ms[0])
	require.NoError(t, err)
	c1, err := store.CreateSingleton(ms[1])
	require.NoError(t, err)

	logger := logging.NewRecorder()
	rec := metrics.New()
	lk := newLinker(store, Classify, logger, rec)

	require.True(t, lk.link(c0, ms[2], cluster.DefaultCategory))
	require.False(t, lk.link(c1, ms[2], cluster.DefaultCategory))

	assert.Equal(t, 2, c0.Len())
	assert.Equal(t, 1, c1.Len())
	assert.Equal(t, 1, lk.violations)
	assert.Len(t, lk.links, 1)
	assert.Len(t, logger.Entries(logging.ErrorLevel), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Violations))
}
