package zombiezen

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/clincoref/sentence/sentencetest"
	"github.com/revelaction/clincoref/storage"
)

func newPool(t *testing.T) *sqlitex.Pool {
	t.Helper()
	pool, err := NewPool(filepath.Join(t.TempDir(), "clincoref.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func TestDocStore(t *testing.T) {
	store := NewDocStore(newPool(t))

	a := sentencetest.Doc(0, "2021-01-01", "The patient arrived")
	sentencetest.Mark(&a, 0, 0, 1)
	a.Subject = "p1"
	a.Labels = []string{"admission", "er"}

	b := sentencetest.Doc(0, "2021-01-05", "She left")
	b.Subject = "p1"
	b.Labels = []string{"discharge"}

	idA, err := store.Write(a)
	require.NoError(t, err)
	idB, err := store.Write(b)
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB)

	docs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, idA, docs[0].Id)
	assert.Equal(t, "p1", docs[0].Subject)
	assert.Empty(t, docs[0].Sentences)

	docs, err = store.List("disch")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, idB, docs[0].Id)

	doc, err := store.Read(idA)
	require.NoError(t, err)
	assert.Equal(t, idA, doc.Id)
	assert.Equal(t, "2021-01-01", doc.Date)
	require.Len(t, doc.Markables, 1)
	assert.Equal(t, "patient", doc.Sentences[0].Tokens[1].Text)

	_, err = store.Read(999)
	require.ErrorIs(t, err, storage.ErrNotFound)

	labels, err := store.Labels("")
	require.NoError(t, err)
	assert.Equal(t, []string{"admission", "discharge", "er"}, labels)
}

func TestChainStore(t *testing.T) {
	store := NewChainStore(newPool(t))

	run := storage.Run{ID: "run-1", Created: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Label: "classify"}
	chains := []storage.Chain{
		{
			Subject: "p1", ClusterID: 0, Category: "Identity", Type: "Entity",
			Mentions: []storage.ChainMention{
				{DocID: 1, Begin: 0, End: 11, Text: "The patient"},
				{DocID: 2, Begin: 0, End: 3, Text: "She"},
			},
		},
		{
			Subject: "p1", ClusterID: 3, Category: "Identity", Type: "Disorder",
			Mentions: []storage.ChainMention{
				{DocID: 1, Begin: 30, End: 34, Text: "pain"},
				{DocID: 1, Begin: 50, End: 52, Text: "it"},
			},
		},
	}

	require.NoError(t, store.WriteRun(run, chains))

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.True(t, run.Created.Equal(runs[0].Created))

	got, err := store.ReadChains(run.ID)
	require.NoError(t, err)
	assert.Equal(t, chains, got)

	_, err = store.ReadChains("nope")
	require.ErrorIs(t, err, storage.ErrNotFound)

	// duplicate run ids roll back
	require.Error(t, store.WriteRun(run, chains))
	got, err = store.ReadChains(run.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
