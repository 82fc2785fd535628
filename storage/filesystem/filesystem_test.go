package filesystem

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/sentence/sentencetest"
	"github.com/revelaction/clincoref/storage"
)

func TestDocStoreReadsSortedFiles(t *testing.T) {
	dir := t.TempDir()

	b := sentencetest.Doc(7, "2021-01-02", "She left")
	b.Labels = []string{"discharge"}
	require.NoError(t, WriteDoc(filepath.Join(dir, "b.json"), b))

	a := sentencetest.Doc(3, "2021-01-01", "The patient arrived")
	a.Labels = []string{"admission", "er"}
	require.NoError(t, WriteDoc(filepath.Join(dir, "a.json"), a))

	store, err := NewDocStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	var loaded []string
	require.NoError(t, store.LoadAll(func(total int, name string) {
		assert.Equal(t, 2, total)
		loaded = append(loaded, name)
	}))
	assert.Equal(t, []string{"a.json", "b.json"}, loaded)

	docs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 0, docs[0].Id)
	assert.Equal(t, "note 3", docs[0].Title)
	assert.Equal(t, "2021-01-01", docs[0].Date)

	docs, err = store.List("disch")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].Id)

	doc, err := store.Read(1)
	require.NoError(t, err)
	assert.Equal(t, "She", doc.Sentences[0].Tokens[0].Text)

	_, err = store.Read(5)
	require.ErrorIs(t, err, storage.ErrNotFound)

	labels, err := store.Labels("")
	require.NoError(t, err)
	assert.Equal(t, []string{"admission", "discharge", "er"}, labels)
}

func TestDocStoreWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDocStore(dir)
	require.NoError(t, err)

	_, err = store.Write(sent.Doc{})
	require.Error(t, err)

	id, err := store.Write(sentencetest.Doc(0, "", "Pain resolved"))
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	reopened, err := NewDocStore(dir)
	require.NoError(t, err)
	doc, err := reopened.Read(0)
	require.NoError(t, err)
	assert.Equal(t, "note 0", doc.Title)
}

func TestChainStoreRoundTrip(t *testing.T) {
	store, err := NewChainStore(filepath.Join(t.TempDir(), "chains"))
	require.NoError(t, err)

	older := storage.Run{ID: "r1", Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := storage.Run{ID: "r2", Created: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Label: "rank"}

	chains := []storage.Chain{{
		Subject:   "p1",
		ClusterID: 4,
		Category:  "Identity",
		Type:      "Disorder",
		Mentions: []storage.ChainMention{
			{DocID: 1, Begin: 0, End: 11, Text: "The patient"},
			{DocID: 1, Begin: 20, End: 23, Text: "She"},
		},
	}}

	require.NoError(t, store.WriteRun(newer, nil))
	require.NoError(t, store.WriteRun(older, chains))

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r1", runs[0].ID)
	assert.Equal(t, "rank", runs[1].Label)

	got, err := store.ReadChains("r1")
	require.NoError(t, err)
	assert.Equal(t, chains, got)

	got, err = store.ReadChains("r2")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = store.ReadChains("missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.Error(t, store.WriteRun(storage.Run{}, nil))
}
