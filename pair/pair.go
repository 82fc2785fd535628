// Package pair proposes candidate antecedent clusters for a mention.
//
// Each Strategy is an independent generator; the Aggregator runs them in a
// fixed order and merges their output into a stable, duplicate free
// candidate list. Decoding relies on that order.
package pair

import (
	"fmt"
	"sort"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

const (
	SentenceDistance = "sentence-distance"
	SectionHeader    = "section-header"
	MultiMember      = "cluster"
	Headword         = "headword"
	PreviousDocument = "previous-document"
)

// Strategy proposes zero or more prior clusters for m.
type Strategy interface {
	Name() string
	Generate(dc *docctx.Context, m *mention.Mention, prior []*cluster.Cluster) []*cluster.Cluster
}

// Options parameterizes the built-in strategies.
type Options struct {
	// MaxSentences bounds the sentence-distance strategy.
	MaxSentences int

	// LongRangeTypes skip the sentence distance bound.
	LongRangeTypes []string

	// MaxClusterSentences bounds the cluster strategy, 0 is unbounded.
	MaxClusterSentences int
}

func DefaultOptions() Options {
	return Options{
		MaxSentences:   5,
		LongRangeTypes: []string{"AnatomicalSite", "Medication"},
	}
}

type constructor func(Options) Strategy

var registry = map[string]constructor{
	SentenceDistance: func(o Options) Strategy { return NewSentenceDistance(o.MaxSentences, o.LongRangeTypes) },
	SectionHeader:    func(Options) Strategy { return &SectionHeaderPairer{} },
	MultiMember:      func(o Options) Strategy { return &ClusterPairer{MaxSentences: o.MaxClusterSentences} },
	Headword:         func(Options) Strategy { return &HeadwordPairer{} },
	PreviousDocument: func(Options) Strategy { return &PreviousDocumentPairer{} },
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the named strategy.
func New(name string, o Options) (Strategy, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown pairing strategy: %s", name)
	}
	return c(o), nil
}

// NewAll builds strategies in the given order.
func NewAll(names []string, o Options) ([]Strategy, error) {
	res := make([]Strategy, 0, len(names))
	for _, n := range names {
		s, err := New(n, o)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

// hasHead logs and reports a missing dependency head. A strategy emits no
// candidates for such a mention.
func hasHead(dc *docctx.Context, strategy string, m *mention.Mention) bool {
	if m.Head != nil {
		return true
	}
	dc.Logger.Warn("no dependency head, skipping candidates", "strategy", strategy, "mention", m.String())
	return false
}
