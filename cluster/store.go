package cluster

import (
	"fmt"

	"github.com/revelaction/clincoref/mention"
)

// Store is the arena of clusters of one subject. Deleted clusters leave a
// nil slot so that IDs stay stable.
type Store struct {
	arena     []*Cluster
	byMention map[mention.Key]int
}

func NewStore() *Store {
	return &Store{byMention: make(map[mention.Key]int)}
}

func (s *Store) add(c *Cluster) *Cluster {
	c.ID = len(s.arena)
	s.arena = append(s.arena, c)
	for _, m := range c.members {
		s.byMention[m.Key()] = c.ID
	}
	return c
}

// CreateSingleton starts a provisional one-member cluster.
func (s *Store) CreateSingleton(m *mention.Mention) (*Cluster, error) {
	if _, ok := s.byMention[m.Key()]; ok {
		return nil, fmt.Errorf("%w: %s", ErrClustered, m)
	}
	return s.add(&Cluster{Category: DefaultCategory, members: []*mention.Mention{m}}), nil
}

// CreatePair starts a two-member chain from an unclustered antecedent and
// anaphor.
func (s *Store) CreatePair(antecedent, anaphor *mention.Mention) (*Cluster, error) {
	for _, m := range []*mention.Mention{antecedent, anaphor} {
		if _, ok := s.byMention[m.Key()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrClustered, m)
		}
	}
	if !antecedent.Before(anaphor) {
		return nil, fmt.Errorf("%w: %s after %s", ErrOutOfOrder, antecedent, anaphor)
	}
	return s.add(&Cluster{
		Category: DefaultCategory,
		members:  []*mention.Mention{antecedent, anaphor},
	}), nil
}

// Append adds m at the tail of c. The member must come after the current
// tail in document order.
func (s *Store) Append(c *Cluster, m *mention.Mention) error {
	if !s.live(c) {
		return fmt.Errorf("%w: %d", ErrUnknownCluster, c.ID)
	}
	if _, ok := s.byMention[m.Key()]; ok {
		return fmt.Errorf("%w: %s", ErrClustered, m)
	}
	if last := c.Last(); last != nil && !last.Before(m) {
		return fmt.Errorf("%w: %s after %s", ErrOutOfOrder, last, m)
	}

	c.members = append(c.members, m)
	s.byMention[m.Key()] = c.ID
	return nil
}

// Merge moves all members of src into dst, keeping document order, and
// deletes src. Used to join chains of different documents.
func (s *Store) Merge(dst, src *Cluster) error {
	if !s.live(dst) || !s.live(src) {
		return ErrUnknownCluster
	}
	if dst == src {
		return nil
	}

	merged := make([]*mention.Mention, 0, len(dst.members)+len(src.members))
	i, j := 0, 0
	for i < len(dst.members) && j < len(src.members) {
		if dst.members[i].Before(src.members[j]) {
			merged = append(merged, dst.members[i])
			i++
		} else {
			merged = append(merged, src.members[j])
			j++
		}
	}
	merged = append(merged, dst.members[i:]...)
	merged = append(merged, src.members[j:]...)

	dst.members = merged
	for _, m := range src.members {
		s.byMention[m.Key()] = dst.ID
	}
	s.arena[src.ID] = nil
	return nil
}

// MostRecentBefore is the store level form of Cluster.MostRecentBefore.
func (s *Store) MostRecentBefore(c *Cluster, focus *mention.Mention) (*mention.Mention, bool) {
	return c.MostRecentBefore(focus)
}

// ClusterOf returns the cluster holding m.
func (s *Store) ClusterOf(m *mention.Mention) (*Cluster, bool) {
	id, ok := s.byMention[m.Key()]
	if !ok {
		return nil, false
	}
	return s.arena[id], true
}

// Get returns a live cluster by ID.
func (s *Store) Get(id int) (*Cluster, bool) {
	if id < 0 || id >= len(s.arena) || s.arena[id] == nil {
		return nil, false
	}
	return s.arena[id], true
}

// Clusters returns the live clusters in creation order.
func (s *Store) Clusters() []*Cluster {
	res := make([]*Cluster, 0, len(s.arena))
	for _, c := range s.arena {
		if c != nil {
			res = append(res, c)
		}
	}
	return res
}

// Len is the number of live clusters.
func (s *Store) Len() int {
	n := 0
	for _, c := range s.arena {
		if c != nil {
			n++
		}
	}
	return n
}

// PruneSingletons deletes every one-member cluster and returns how many were
// removed.
func (s *Store) PruneSingletons() int {
	return s.prune(func(c *Cluster) bool { return true })
}

// PruneSingletonsIn deletes the singletons whose member belongs to docID.
func (s *Store) PruneSingletonsIn(docID int) int {
	return s.prune(func(c *Cluster) bool { return c.members[0].DocID == docID })
}

func (s *Store) prune(match func(*Cluster) bool) int {
	n := 0
	for id, c := range s.arena {
		if c == nil || !c.IsSingleton() || !match(c) {
			continue
		}
		delete(s.byMention, c.members[0].Key())
		s.arena[id] = nil
		n++
	}
	return n
}

func (s *Store) live(c *Cluster) bool {
	return c != nil && c.ID >= 0 && c.ID < len(s.arena) && s.arena[c.ID] == c
}
