package resolve

import (
	"errors"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/logging"
	"github.com/revelaction/clincoref/mention"
	"github.com/revelaction/clincoref/metrics"
)

// Link is one accepted anaphor to cluster decision. Antecedent is the first
// member of the cluster at link time.
type Link struct {
	Anaphor    *mention.Mention
	Antecedent *mention.Mention
	ClusterID  int
	Category   string
}

// linker applies decisions to the cluster store and keeps at most one
// antecedent per anaphor.
type linker struct {
	clusters *cluster.Store
	owner    map[mention.Key]int
	links    []Link

	violations int
	decoding   string

	logger  logging.Logger
	metrics *metrics.Recorder
}

func newLinker(clusters *cluster.Store, decoding Decoding, logger logging.Logger, rec *metrics.Recorder) *linker {
	return &linker{
		clusters: clusters,
		owner:    make(map[mention.Key]int),
		decoding: string(decoding),
		logger:   logger,
		metrics:  rec,
	}
}

func (l *linker) reject(m *mention.Mention, c *cluster.Cluster, owner int) {
	l.violations++
	l.metrics.Violation()
	l.logger.Error("anaphor already has an antecedent, link rejected",
		"mention", m.String(), "cluster", c.ID, "owner", owner)
}

// link appends m to c. A second link of the same anaphor is rejected and
// leaves the existing link untouched.
func (l *linker) link(c *cluster.Cluster, m *mention.Mention, category string) bool {
	if owner, ok := l.owner[m.Key()]; ok {
		l.reject(m, c, owner)
		return false
	}

	antecedent := c.First()
	startsChain := c.IsSingleton()

	if err := l.clusters.Append(c, m); err != nil {
		if errors.Is(err, cluster.ErrClustered) {
			owner, _ := l.clusters.ClusterOf(m)
			id := -1
			if owner != nil {
				id = owner.ID
			}
			l.reject(m, c, id)
			return false
		}
		l.logger.Error("link failed", "mention", m.String(), "cluster", c.ID, "err", err)
		return false
	}

	if startsChain && category != "" {
		c.Category = category
	}

	l.owner[m.Key()] = c.ID
	l.links = append(l.links, Link{
		Anaphor:    m,
		Antecedent: antecedent,
		ClusterID:  c.ID,
		Category:   c.Category,
	})
	l.metrics.Link(l.decoding)
	return true
}

// singleton starts a provisional cluster for m.
func (l *linker) singleton(m *mention.Mention) {
	if _, err := l.clusters.CreateSingleton(m); err != nil {
		l.logger.Error("singleton failed", "mention", m.String(), "err", err)
		return
	}
	l.metrics.Singleton()
}
