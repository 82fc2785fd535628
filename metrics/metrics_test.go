package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.Mention(3)
	r.Mention(0)
	r.Link("classify")
	r.Link("classify")
	r.Link("rank")
	r.Singleton()
	r.Prune(4)
	r.Violation()
	r.Null(0)
	r.Null(2)
	r.Instance("pair")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Mentions))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Links.WithLabelValues("classify")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Links.WithLabelValues("rank")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Singletons))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.Pruned))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Violations))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Nulls))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Instances.WithLabelValues("pair")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.Candidates))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Mention(1)
		r.Link("rank")
		r.Singleton()
		r.Prune(1)
		r.Violation()
		r.Null(1)
		r.Instance("solo")
	})
}

func TestWriteFile(t *testing.T) {
	r := New()
	r.Singleton()

	path := filepath.Join(t.TempDir(), "clincoref.prom")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "clincoref_singletons_total 1")
	assert.Contains(t, string(data), "clincoref_candidates_per_mention_bucket")
}
