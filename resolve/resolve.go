// Package resolve is the decision engine. It walks the mentions of a
// subject in document order, scores candidate antecedent clusters and
// either emits training instances or links mentions into clusters.
package resolve

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/revelaction/clincoref/classify"
	"github.com/revelaction/clincoref/feature"
	"github.com/revelaction/clincoref/gold"
	"github.com/revelaction/clincoref/logging"
	"github.com/revelaction/clincoref/mention"
	"github.com/revelaction/clincoref/metrics"
	"github.com/revelaction/clincoref/order"
	"github.com/revelaction/clincoref/pair"
	sent "github.com/revelaction/clincoref/sentence"
)

var (
	ErrNoClassifier = errors.New("classification decoding needs a classifier")
	ErrNoRanker     = errors.New("ranking decoding needs a ranker")
	ErrNoTrainer    = errors.New("training needs a trainer")
	ErrNoGold       = errors.New("training needs a gold alignment")
	ErrNoStrategies = errors.New("no pairing strategies configured")
	ErrNoExtractors = errors.New("no feature extractors configured")
)

type Mode string

const (
	Infer Mode = "infer"
	Train Mode = "train"
)

// Decoding selects between pair classification and candidate ranking.
type Decoding string

const (
	Classify Decoding = "classify"
	Rank     Decoding = "rank"
)

// Policy selects the classification link policy.
type Policy string

const (
	// Greedy links to the first candidate classified positive.
	Greedy Policy = "greedy"
	// Best links to the highest scoring positive candidate.
	Best Policy = "best"
)

// Options are the engine settings that come from configuration.
type Options struct {
	Mode     Mode
	Decoding Decoding
	Policy   Policy

	// KeepNegativeProb is the probability of keeping a negative training
	// pair. 1 keeps every negative.
	KeepNegativeProb float64

	// Seed drives the negative sampling coin.
	Seed int64
}

func DefaultOptions() Options {
	return Options{
		Mode:             Infer,
		Decoding:         Classify,
		Policy:           Greedy,
		KeepNegativeProb: 1,
		Seed:             1,
	}
}

// Deps are the collaborators of the engine.
type Deps struct {
	Strategies []pair.Strategy
	Extractors feature.Set

	Classifier classify.Classifier
	Ranker     classify.Ranker
	Trainer    classify.Trainer
	Gold       gold.Alignment

	// Salience is optional. Without it mentions keep the salience they
	// were built with.
	Salience mention.SalienceScorer

	// Orderer defaults to order.ByDate.
	Orderer order.Orderer

	Logger  logging.Logger
	Metrics *metrics.Recorder

	// OnDocument, when set, is called after each document is processed.
	OnDocument func(doc sent.Doc)
}

// GoldLoader is implemented by alignments that are built from the gold
// chains of each document as its mentions become known.
type GoldLoader interface {
	AddDoc(doc sent.Doc, mentions []*mention.Mention) int
}

type Engine struct {
	opts Options

	candidates *pair.Aggregator
	extractors feature.Set
	classifier classify.Classifier
	ranker     classify.Ranker
	trainer    classify.Trainer
	gold       gold.Alignment
	salience   mention.SalienceScorer
	orderer    order.Orderer
	onDocument func(doc sent.Doc)

	logger  logging.Logger
	metrics *metrics.Recorder

	coin *rand.Rand
	qid  int
}

// New checks that every collaborator needed for the configured mode and
// decoding is present.
func New(opts Options, deps Deps) (*Engine, error) {
	if opts.Mode == "" {
		opts.Mode = Infer
	}
	if opts.Decoding == "" {
		opts.Decoding = Classify
	}
	if opts.Policy == "" {
		opts.Policy = Greedy
	}

	switch opts.Mode {
	case Infer, Train:
	default:
		return nil, fmt.Errorf("unknown mode: %s", opts.Mode)
	}
	switch opts.Decoding {
	case Classify, Rank:
	default:
		return nil, fmt.Errorf("unknown decoding: %s", opts.Decoding)
	}
	switch opts.Policy {
	case Greedy, Best:
	default:
		return nil, fmt.Errorf("unknown policy: %s", opts.Policy)
	}
	if opts.KeepNegativeProb < 0 || opts.KeepNegativeProb > 1 {
		return nil, fmt.Errorf("keep negative probability out of range: %v", opts.KeepNegativeProb)
	}

	if len(deps.Strategies) == 0 {
		return nil, ErrNoStrategies
	}
	if len(deps.Extractors) == 0 {
		return nil, ErrNoExtractors
	}

	if opts.Mode == Train {
		if deps.Trainer == nil {
			return nil, ErrNoTrainer
		}
		if deps.Gold == nil {
			return nil, ErrNoGold
		}
	} else {
		if opts.Decoding == Classify && deps.Classifier == nil {
			return nil, ErrNoClassifier
		}
		if opts.Decoding == Rank && deps.Ranker == nil {
			return nil, ErrNoRanker
		}
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	orderer := deps.Orderer
	if orderer == nil {
		orderer = order.ByDate{}
	}

	return &Engine{
		opts:       opts,
		candidates: pair.NewAggregator(deps.Strategies...),
		extractors: deps.Extractors,
		classifier: deps.Classifier,
		ranker:     deps.Ranker,
		trainer:    deps.Trainer,
		gold:       deps.Gold,
		salience:   deps.Salience,
		orderer:    orderer,
		onDocument: deps.OnDocument,
		logger:     logger,
		metrics:    deps.Metrics,
		coin:       rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

func (e *Engine) Options() Options {
	return e.opts
}

// keep flips the negative sampling coin.
func (e *Engine) keep() bool {
	return e.coin.Float64() <= e.opts.KeepNegativeProb
}
