// Package event types finished clusters by majority vote over the entity
// annotations of their members.
package event

import (
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/mention"
	sent "github.com/revelaction/clincoref/sentence"
)

// GenericType labels clusters without any typed member.
const GenericType = "Entity"

// Event is a typed, read-only view of a cluster.
type Event struct {
	ClusterID int                `json:"cluster_id"`
	Type      string             `json:"type"`
	Category  string             `json:"category"`
	Mentions  []*mention.Mention `json:"-"`
}

// AnnotationSource returns the annotation index of a document.
type AnnotationSource func(docID int) *sent.AnnotationIndex

// Aggregate builds one Event per non-singleton cluster, in cluster order.
func Aggregate(clusters []*cluster.Cluster, anns AnnotationSource) []Event {
	var events []Event
	for _, c := range clusters {
		if c.Len() < 2 {
			continue
		}
		events = append(events, Event{
			ClusterID: c.ID,
			Type:      Type(c, anns),
			Category:  c.Category,
			Mentions:  c.Members(),
		})
	}
	return events
}

// Type returns the majority annotation type of the cluster members. Ties go
// to the type first encountered in member order.
func Type(c *cluster.Cluster, anns AnnotationSource) string {
	counts := map[string]int{}
	var order []string

	for _, m := range c.Members() {
		if m.Head == nil || anns == nil {
			continue
		}
		a, ok := anns(m.DocID).Largest(*m.Head)
		if !ok || a.Type == "" {
			continue
		}
		if counts[a.Type] == 0 {
			order = append(order, a.Type)
		}
		counts[a.Type]++
	}

	best, n := GenericType, 0
	for _, t := range order {
		if counts[t] > n {
			best, n = t, counts[t]
		}
	}
	return best
}
