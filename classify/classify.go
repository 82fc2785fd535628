// Package classify holds the model contracts consumed by the decision
// engine, a linear model implementing all of them, and instance writers for
// external learners.
package classify

import "github.com/revelaction/clincoref/feature"

// LabelNone is the classification label of a pair that does not corefer.
const LabelNone = "None"

// Instance is one labeled training example.
type Instance struct {
	Features feature.Vector

	// Label is the classification label, LabelNone for negatives.
	Label string

	// QueryID groups ranking instances of the same mention. Zero for
	// classification instances.
	QueryID int

	// Outcome is the ranking target.
	Outcome float64

	// NoLink marks the mention-only instance.
	NoLink bool
}

// Ranking reports whether the instance belongs to a ranking query.
func (in Instance) Ranking() bool {
	return in.QueryID > 0
}

// Positive reports whether the instance is a positive example.
func (in Instance) Positive() bool {
	if in.Ranking() {
		return in.Outcome > 0
	}
	return in.Label != LabelNone && in.Label != ""
}

// Classifier labels pair feature vectors.
type Classifier interface {
	Classify(v feature.Vector) (string, error)
	Score(v feature.Vector) (map[string]float64, error)
}

// Ranker scores candidate and no-link vectors on a common scale.
type Ranker interface {
	Predict(v feature.Vector) (float64, error)
}

// Trainer consumes training instances.
type Trainer interface {
	Train(in Instance) error
}

// Tee fans instances out to several trainers, stopping at the first error.
type Tee []Trainer

func (t Tee) Train(in Instance) error {
	for _, tr := range t {
		if err := tr.Train(in); err != nil {
			return err
		}
	}
	return nil
}

// Collector keeps every instance in memory.
type Collector struct {
	Instances []Instance
}

func (c *Collector) Train(in Instance) error {
	c.Instances = append(c.Instances, in)
	return nil
}
