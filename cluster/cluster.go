package cluster

import (
	"errors"
	"fmt"

	"github.com/revelaction/clincoref/mention"
)

// DefaultCategory is the relation category of a new chain.
const DefaultCategory = "Identity"

var (
	ErrOutOfOrder     = errors.New("mention does not follow the cluster tail")
	ErrUnknownCluster = errors.New("cluster not in store")
	ErrClustered      = errors.New("mention already belongs to a cluster")
)

// Cluster is an append-only chain of mentions kept in document order.
type Cluster struct {
	ID       int
	Category string

	members []*mention.Mention
}

// Members returns the chain in document order. The slice must not be
// modified.
func (c *Cluster) Members() []*mention.Mention {
	return c.members
}

func (c *Cluster) Len() int {
	return len(c.members)
}

func (c *Cluster) IsSingleton() bool {
	return len(c.members) == 1
}

// First returns the earliest member.
func (c *Cluster) First() *mention.Mention {
	if len(c.members) == 0 {
		return nil
	}
	return c.members[0]
}

// Last returns the tail of the chain.
func (c *Cluster) Last() *mention.Mention {
	if len(c.members) == 0 {
		return nil
	}
	return c.members[len(c.members)-1]
}

// MostRecentBefore returns the last member that strictly precedes focus. A
// cluster whose first member does not precede focus is not eligible and
// yields false; training chains may hold members past the decision point.
func (c *Cluster) MostRecentBefore(focus *mention.Mention) (*mention.Mention, bool) {
	if len(c.members) == 0 || !c.members[0].Before(focus) {
		return nil, false
	}

	var last *mention.Mention
	for _, m := range c.members {
		if !m.Before(focus) {
			break
		}
		last = m
	}
	return last, true
}

// MembersBefore returns the members strictly preceding focus.
func (c *Cluster) MembersBefore(focus *mention.Mention) []*mention.Mention {
	n := 0
	for _, m := range c.members {
		if !m.Before(focus) {
			break
		}
		n++
	}
	return c.members[:n]
}

// Contains reports whether m is a member.
func (c *Cluster) Contains(m *mention.Mention) bool {
	for _, x := range c.members {
		if x == m {
			return true
		}
	}
	return false
}

func (c *Cluster) String() string {
	return fmt.Sprintf("cluster %d (%s, %d members)", c.ID, c.Category, len(c.members))
}
