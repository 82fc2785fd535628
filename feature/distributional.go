package feature

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/embed"
	"github.com/revelaction/clincoref/mention"
)

const defaultCacheSize = 4096

type averaged struct {
	vec []float32
	ok  bool
}

// Distributional is the cosine similarity between averaged word vectors of
// the mention and its most similar prior member.
type Distributional struct {
	table *embed.Table
	cache *lru.Cache[mention.Key, averaged]
}

func NewDistributional(table *embed.Table, size int) (*Distributional, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[mention.Key, averaged](size)
	if err != nil {
		return nil, err
	}
	return &Distributional{table: table, cache: cache}, nil
}

func (d *Distributional) Name() string { return DistributionalName }

// Reset drops the cached vectors of the previous document.
func (d *Distributional) Reset(*docctx.Context) {
	d.cache.Purge()
}

func (d *Distributional) vector(m *mention.Mention) ([]float32, bool) {
	if a, ok := d.cache.Get(m.Key()); ok {
		return a.vec, a.ok
	}
	words := m.ContentWords()
	if len(words) == 0 && m.Head != nil {
		words = []string{m.Head.Text}
	}
	vec, ok := d.table.Average(words)
	d.cache.Add(m.Key(), averaged{vec: vec, ok: ok})
	return vec, ok
}

func (d *Distributional) Mention(dc *docctx.Context, m *mention.Mention) []Feature {
	return nil
}

func (d *Distributional) Pair(dc *docctx.Context, c *cluster.Cluster, m *mention.Mention) []Feature {
	const name = "Similarity"

	if m.Pronoun || exactMatch(c, m) {
		return []Feature{Number(name, 0)}
	}

	mv, ok := d.vector(m)
	if !ok {
		return []Feature{Null(name)}
	}

	best := math.Inf(-1)
	for _, member := range c.MembersBefore(m) {
		if member.Pronoun {
			continue
		}
		cv, ok := d.vector(member)
		if !ok {
			continue
		}
		if sim := embed.Cosine(mv, cv); sim > best {
			best = sim
		}
	}

	if math.IsInf(best, -1) {
		return []Feature{Null(name)}
	}
	return []Feature{Number(name, best)}
}
