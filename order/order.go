// Package order sequences the documents of a subject (patient) and exposes
// the previous document context to the cross-document pairing strategy.
package order

import (
	"fmt"
	"sort"
	"time"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	sent "github.com/revelaction/clincoref/sentence"
)

// Orderer puts the documents of one subject into processing order.
type Orderer interface {
	Order(docs []sent.Doc) []sent.Doc
}

// ByDate orders by document date, then title, then id. Undated documents
// follow the dated ones.
type ByDate struct{}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04", "20060102"}

func parseDate(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (ByDate) Order(docs []sent.Doc) []sent.Doc {
	res := make([]sent.Doc, len(docs))
	copy(res, docs)

	sort.SliceStable(res, func(i, j int) bool {
		ti, iok := parseDate(res[i].Date)
		tj, jok := parseDate(res[j].Date)
		if iok != jok {
			return iok
		}
		if iok && !ti.Equal(tj) {
			return ti.Before(tj)
		}
		if res[i].Title != res[j].Title {
			return res[i].Title < res[j].Title
		}
		return res[i].Id < res[j].Id
	})
	return res
}

// Subject is the set of documents of one patient.
type Subject struct {
	ID   string
	Docs []sent.Doc
}

// GroupBySubject groups documents by Subject field, sorted by subject id.
// A document without subject becomes a subject of its own.
func GroupBySubject(docs []sent.Doc) []Subject {
	idx := map[string]int{}
	var subjects []Subject

	for _, d := range docs {
		id := d.Subject
		if id == "" {
			id = fmt.Sprintf("doc-%d", d.Id)
		}
		i, ok := idx[id]
		if !ok {
			i = len(subjects)
			idx[id] = i
			subjects = append(subjects, Subject{ID: id})
		}
		subjects[i].Docs = append(subjects[i].Docs, d)
	}

	sort.SliceStable(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	return subjects
}

// Timeline is the ordered document sequence of a subject together with the
// clusters finalized for each document.
type Timeline struct {
	ID   string
	docs []sent.Doc

	finalized map[int][]*cluster.Cluster
}

func NewTimeline(s Subject, o Orderer) *Timeline {
	if o == nil {
		o = ByDate{}
	}
	return &Timeline{
		ID:        s.ID,
		docs:      o.Order(s.Docs),
		finalized: make(map[int][]*cluster.Cluster),
	}
}

func (t *Timeline) Len() int {
	return len(t.docs)
}

// Doc returns the i-th document of the sequence.
func (t *Timeline) Doc(i int) sent.Doc {
	return t.docs[i]
}

// Docs returns the ordered documents.
func (t *Timeline) Docs() []sent.Doc {
	return t.docs
}

// Finalize records the clusters that hold members of document i once the
// document is processed.
func (t *Timeline) Finalize(i int, clusters []*cluster.Cluster) {
	docID := t.docs[i].Id

	var held []*cluster.Cluster
	for _, c := range clusters {
		for _, m := range c.Members() {
			if m.DocID == docID {
				held = append(held, c)
				break
			}
		}
	}
	t.finalized[i] = held
}

// Previous returns the context of document i-1, nil for the first
// document or when i-1 was not finalized.
func (t *Timeline) Previous(i int) *docctx.Previous {
	if i <= 0 || i > len(t.docs) {
		return nil
	}
	clusters, ok := t.finalized[i-1]
	if !ok {
		return nil
	}
	return &docctx.Previous{
		Doc:      t.docs[i-1],
		Order:    i - 1,
		Clusters: clusters,
	}
}
