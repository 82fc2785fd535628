package stat

import (
	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/storage"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs      int
	NumSentences int
	NumMentions  int

	NumChains      int
	NumChained     int
	ChainLenMean   float64
	ChainLenDis    map[int]int
	ChainTypeDis   map[string]int
	CrossDocChains int

	// MentionsPerSentenceMean counts markables, chained or not
	MentionsPerSentenceMean float64
}

func (h *Handler) Get() Stats {
	s := h.stats
	if s.NumChains > 0 {
		s.ChainLenMean = float64(s.NumChained) / float64(s.NumChains)
	}
	if s.NumSentences > 0 {
		s.MentionsPerSentenceMean = float64(s.NumMentions) / float64(s.NumSentences)
	}
	return s
}

func NewHandler() *Handler {
	stats := Stats{ChainLenDis: map[int]int{}, ChainTypeDis: map[string]int{}}
	return &Handler{
		stats: stats,
	}
}

// AggregateDoc counts the sentences and markables of doc.
func (h *Handler) AggregateDoc(doc sent.Doc) {
	h.stats.NumDocs++
	h.stats.NumSentences += len(doc.Sentences)
	h.stats.NumMentions += len(doc.Markables)
}

// AggregateChains counts chain lengths, types and chains spanning more than
// one document.
func (h *Handler) AggregateChains(chains []storage.Chain) {
	for _, ch := range chains {
		h.stats.NumChains++
		h.stats.NumChained += len(ch.Mentions)
		h.stats.ChainLenDis[len(ch.Mentions)]++
		h.stats.ChainTypeDis[ch.Type]++

		docs := map[int]bool{}
		for _, m := range ch.Mentions {
			docs[m.DocID] = true
		}
		if len(docs) > 1 {
			h.stats.CrossDocChains++
		}
	}
}
