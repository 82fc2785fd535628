// Package feature defines the feature vector contract between extractors
// and classifiers, and the built-in coreference extractors.
package feature

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/logging"
	"github.com/revelaction/clincoref/mention"
)

// NullValue replaces missing feature values.
const NullValue = "NULL"

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindCategory
)

// Feature is a named boolean, numeric or categorical value.
type Feature struct {
	Name string
	Kind Kind
	Num  float64
	Str  string
}

func Bool(name string, b bool) Feature {
	f := Feature{Name: name, Kind: KindBool}
	if b {
		f.Num = 1
	}
	return f
}

func Number(name string, v float64) Feature {
	return Feature{Name: name, Kind: KindNumber, Num: v}
}

func Category(name, v string) Feature {
	return Feature{Name: name, Kind: KindCategory, Str: v}
}

// Null marks a value the extractor could not compute.
func Null(name string) Feature {
	return Feature{Name: name, Kind: KindNull}
}

// IsNull reports a missing value, NaN and infinities included.
func (f Feature) IsNull() bool {
	if f.Kind == KindNull {
		return true
	}
	if f.Kind == KindNumber && (math.IsNaN(f.Num) || math.IsInf(f.Num, 0)) {
		return true
	}
	return f.Kind == KindCategory && f.Str == ""
}

// Key is the sparse encoding key: the name for booleans and numbers,
// "name=value" for categories.
func (f Feature) Key() string {
	if f.Kind == KindCategory {
		return f.Name + "=" + f.Str
	}
	return f.Name
}

// Value is the sparse encoding value.
func (f Feature) Value() float64 {
	if f.Kind == KindCategory {
		return 1
	}
	return f.Num
}

func (f Feature) String() string {
	switch f.Kind {
	case KindBool:
		return fmt.Sprintf("%s=%t", f.Name, f.Num != 0)
	case KindNumber:
		return f.Name + "=" + strconv.FormatFloat(f.Num, 'g', 6, 64)
	case KindCategory:
		return f.Name + "=" + f.Str
	}
	return f.Name + "=<null>"
}

// Vector is an ordered feature list.
type Vector []Feature

// Get returns the first feature with the given name.
func (v Vector) Get(name string) (Feature, bool) {
	for _, f := range v {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// Sparse returns the key/value encoding, later duplicates summed.
func (v Vector) Sparse() map[string]float64 {
	m := make(map[string]float64, len(v))
	for _, f := range v {
		m[f.Key()] += f.Value()
	}
	return m
}

// Keys returns the sorted distinct sparse keys.
func (v Vector) Keys() []string {
	m := v.Sparse()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sanitize replaces every null value with the NULL category and logs it.
// It returns the number of replacements. Models never see a null.
func Sanitize(v Vector, logger logging.Logger) int {
	n := 0
	for i, f := range v {
		if !f.IsNull() {
			continue
		}
		logger.Warn("null feature value replaced", "feature", f.Name, "sentinel", NullValue)
		v[i] = Category(f.Name, NullValue)
		n++
	}
	return n
}

// Extractor computes features for a (cluster, mention) pair and for a
// mention alone.
type Extractor interface {
	Name() string
	Pair(dc *docctx.Context, c *cluster.Cluster, m *mention.Mention) []Feature
	Mention(dc *docctx.Context, m *mention.Mention) []Feature
}

// Resetter is implemented by extractors holding per-document caches. Reset
// runs before every document.
type Resetter interface {
	Reset(dc *docctx.Context)
}

// Set is an ordered list of extractors.
type Set []Extractor

// Mention concatenates the mention-only features of all extractors.
func (s Set) Mention(dc *docctx.Context, m *mention.Mention) Vector {
	var v Vector
	for _, e := range s {
		v = append(v, e.Mention(dc, m)...)
	}
	return v
}

// Pair returns solo followed by the pair features of all extractors. solo
// is copied, never aliased.
func (s Set) Pair(dc *docctx.Context, c *cluster.Cluster, m *mention.Mention, solo Vector) Vector {
	v := make(Vector, len(solo), len(solo)+8*len(s))
	copy(v, solo)
	for _, e := range s {
		v = append(v, e.Pair(dc, c, m)...)
	}
	return v
}

// Reset calls Reset on every extractor that holds per-document state.
func (s Set) Reset(dc *docctx.Context) {
	for _, e := range s {
		if r, ok := e.(Resetter); ok {
			r.Reset(dc)
		}
	}
}
