// Package embed loads word vectors for the distributional similarity
// features.
package embed

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Table maps lowercased words to vectors of a fixed dimension.
type Table struct {
	dim     int
	vectors map[string][]float32
}

func NewTable(dim int) *Table {
	return &Table{dim: dim, vectors: make(map[string][]float32)}
}

// Add stores the vector of a word. The first vector fixes the dimension.
func (t *Table) Add(word string, v []float32) error {
	if t.dim == 0 {
		t.dim = len(v)
	}
	if len(v) != t.dim {
		return fmt.Errorf("vector for %q has dimension %d, want %d", word, len(v), t.dim)
	}
	t.vectors[strings.ToLower(word)] = v
	return nil
}

func (t *Table) Dim() int {
	return t.dim
}

func (t *Table) Len() int {
	return len(t.vectors)
}

// Vector returns the vector of a word.
func (t *Table) Vector(word string) ([]float32, bool) {
	v, ok := t.vectors[strings.ToLower(word)]
	return v, ok
}

// Average returns the mean vector of the known words, false when none is
// known.
func (t *Table) Average(words []string) ([]float32, bool) {
	if t.dim == 0 {
		return nil, false
	}

	sum := make([]float32, t.dim)
	n := 0
	for _, w := range words {
		v, ok := t.Vector(w)
		if !ok {
			continue
		}
		for i, x := range v {
			sum[i] += x
		}
		n++
	}

	if n == 0 {
		return nil, false
	}
	for i := range sum {
		sum[i] /= float32(n)
	}
	return sum, true
}

// Cosine returns the cosine similarity of two vectors of the same length,
// 0 when either has zero norm.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Read parses the word2vec/GloVe text format: one word per line followed by
// its components. A leading "<count> <dim>" header line is skipped.
func Read(r io.Reader) (*Table, error) {
	t := NewTable(0)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if line == 1 && len(fields) == 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue
			}
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: word without vector", line)
		}

		v := make([]float32, len(fields)-1)
		for i, f := range fields[1:] {
			x, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			v[i] = float32(x)
		}
		if err := t.Add(fields[0], v); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return t, nil
}

// Load reads a vector file from disk.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()
	return Read(f)
}
