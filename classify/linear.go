package classify

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/revelaction/clincoref/feature"
)

// Linear is a logistic model over sparse feature keys. Pair instances and
// ranking instances train Weights; classification no-link instances train
// the separate Solo weights.
type Linear struct {
	Positive  string  `yaml:"positive"`
	Threshold float64 `yaml:"threshold"`

	Bias    float64            `yaml:"bias"`
	Weights map[string]float64 `yaml:"weights"`

	SoloBias    float64            `yaml:"solo_bias"`
	SoloWeights map[string]float64 `yaml:"solo_weights"`

	// Fit parameters
	Rate   float64 `yaml:"-"`
	L2     float64 `yaml:"-"`
	Epochs int     `yaml:"-"`

	pending []Instance
}

var (
	_ Classifier = (*Linear)(nil)
	_ Ranker     = (*Linear)(nil)
	_ Trainer    = (*Linear)(nil)
)

func NewLinear(positive string) *Linear {
	return &Linear{
		Positive:    positive,
		Threshold:   0.5,
		Weights:     map[string]float64{},
		SoloWeights: map[string]float64{},
		Rate:        0.1,
		L2:          1e-4,
		Epochs:      10,
	}
}

func dot(w map[string]float64, bias float64, v feature.Vector) float64 {
	s := bias
	for _, f := range v {
		s += w[f.Key()] * f.Value()
	}
	return s
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Probability of the positive label for a pair vector.
func (l *Linear) Probability(v feature.Vector) float64 {
	return sigmoid(dot(l.Weights, l.Bias, v))
}

// SoloProbability is the probability that the mention starts a new chain.
func (l *Linear) SoloProbability(v feature.Vector) float64 {
	return sigmoid(dot(l.SoloWeights, l.SoloBias, v))
}

func (l *Linear) Classify(v feature.Vector) (string, error) {
	if l.Probability(v) >= l.Threshold {
		return l.Positive, nil
	}
	return LabelNone, nil
}

func (l *Linear) Score(v feature.Vector) (map[string]float64, error) {
	p := l.Probability(v)
	return map[string]float64{l.Positive: p, LabelNone: 1 - p}, nil
}

// Predict returns the raw margin, used by ranking decoding.
func (l *Linear) Predict(v feature.Vector) (float64, error) {
	return dot(l.Weights, l.Bias, v), nil
}

// Train buffers an instance until Fit.
func (l *Linear) Train(in Instance) error {
	if len(in.Features) == 0 {
		return errors.New("instance without features")
	}
	l.pending = append(l.pending, in)
	return nil
}

// Pending is the number of buffered instances.
func (l *Linear) Pending() int {
	return len(l.pending)
}

// Fit runs stochastic gradient descent over the buffered instances in the
// order they were added, then clears the buffer.
func (l *Linear) Fit() {
	for epoch := 0; epoch < l.Epochs; epoch++ {
		rate := l.Rate / (1 + float64(epoch))
		for _, in := range l.pending {
			y := 0.0
			if in.Positive() {
				y = 1
			}

			w, bias := l.Weights, &l.Bias
			if in.NoLink && !in.Ranking() {
				w, bias = l.SoloWeights, &l.SoloBias
			}

			g := sigmoid(dot(w, *bias, in.Features)) - y
			*bias -= rate * g
			for _, f := range in.Features {
				k := f.Key()
				w[k] -= rate * (g*f.Value() + l.L2*w[k])
			}
		}
	}
	l.pending = nil
}

// Save writes the model as YAML.
func (l *Linear) Save(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLinear reads a YAML model.
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	l := NewLinear("")
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("YAML decoding error: %w", err)
	}
	if l.Positive == "" {
		return nil, errors.New("model has no positive label")
	}
	if l.Weights == nil {
		l.Weights = map[string]float64{}
	}
	if l.SoloWeights == nil {
		l.SoloWeights = map[string]float64{}
	}
	return l, nil
}
