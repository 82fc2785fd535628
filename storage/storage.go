package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/revelaction/clincoref/resolve"
	sent "github.com/revelaction/clincoref/sentence"
)

// ErrNotFound is returned when a document or run does not exist.
var ErrNotFound = errors.New("not found")

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels, Subject, Date) of documents.
	// If labelMatch is not empty, only documents with at least one label containing the string are returned.
	// Content (Sentences, Markables) is not guaranteed to be loaded.
	List(labelMatch string) ([]sent.Doc, error)

	// Read returns a document by ID
	Read(id int) (sent.Doc, error)

	// Labels returns all unique labels found across all documents, sorted alphabetically.
	// If pattern is not empty, it returns labels that contain the pattern.
	Labels(pattern string) ([]string, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document and returns its storage id
	Write(doc sent.Doc) (int, error)
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// Run identifies one resolve or train invocation.
type Run struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Label   string    `json:"label,omitempty"`
}

func NewRun(label string) Run {
	return Run{ID: uuid.NewString(), Created: time.Now().UTC(), Label: label}
}

// ChainMention is a chain member as stored.
type ChainMention struct {
	DocID int    `json:"doc_id"`
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Chain is a resolved coreference chain as stored.
type Chain struct {
	Subject   string         `json:"subject"`
	ClusterID int            `json:"cluster_id"`
	Category  string         `json:"category"`
	Type      string         `json:"type"`
	Mentions  []ChainMention `json:"mentions"`
}

// ChainWriter persists the chains of a run
type ChainWriter interface {
	WriteRun(run Run, chains []Chain) error
}

// ChainReader reads back stored runs
type ChainReader interface {
	// Runs returns the stored runs, oldest first
	Runs() ([]Run, error)

	// ReadChains returns the chains of a run, ErrNotFound for an unknown run
	ReadChains(runID string) ([]Chain, error)
}

type ChainRepository interface {
	ChainReader
	ChainWriter
}

// Chains converts a resolve result into storable chains, typed by the event
// aggregation of the result.
func Chains(r *resolve.Result) []Chain {
	types := make(map[int]string, len(r.Events))
	for _, ev := range r.Events {
		types[ev.ClusterID] = ev.Type
	}

	chains := make([]Chain, 0, len(r.Clusters))
	for _, c := range r.Clusters {
		ch := Chain{
			Subject:   r.Subject,
			ClusterID: c.ID,
			Category:  c.Category,
			Type:      types[c.ID],
		}
		for _, m := range c.Members() {
			ch.Mentions = append(ch.Mentions, ChainMention{
				DocID: m.DocID,
				Begin: m.Begin,
				End:   m.End,
				Text:  m.Text,
			})
		}
		chains = append(chains, ch)
	}
	return chains
}
