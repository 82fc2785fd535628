package classify

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Alphabet maps feature keys to 1-based SVM-light indexes.
type Alphabet struct {
	ToID  map[string]int `json:"to_id"`
	ToStr []string       `json:"to_str"`
}

func NewAlphabet() *Alphabet {
	return &Alphabet{ToID: make(map[string]int)}
}

// Add adds a key if not already present and returns its index.
func (a *Alphabet) Add(s string) int {
	if id, ok := a.ToID[s]; ok {
		return id
	}
	a.ToStr = append(a.ToStr, s)
	id := len(a.ToStr)
	a.ToID[s] = id
	return id
}

// Size returns the number of entries.
func (a *Alphabet) Size() int {
	return len(a.ToStr)
}

// Save writes the alphabet as JSON so that exported instances can be mapped
// back to feature keys.
func (a *Alphabet) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAlphabet reads an alphabet written by Save.
func LoadAlphabet(path string) (*Alphabet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	a := NewAlphabet()
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("JSON decoding error: %w", err)
	}
	return a, nil
}

// SVMLightWriter writes instances in SVM-light format. Pair and ranking
// instances go to Pair; classification no-link instances go to Solo and are
// dropped when Solo is nil.
type SVMLightWriter struct {
	Alphabet *Alphabet

	pair *bufio.Writer
	solo *bufio.Writer
}

var _ Trainer = (*SVMLightWriter)(nil)

func NewSVMLightWriter(pair, solo io.Writer) *SVMLightWriter {
	w := &SVMLightWriter{Alphabet: NewAlphabet(), pair: bufio.NewWriter(pair)}
	if solo != nil {
		w.solo = bufio.NewWriter(solo)
	}
	return w
}

func (w *SVMLightWriter) Train(in Instance) error {
	out := w.pair
	if in.NoLink && !in.Ranking() {
		if w.solo == nil {
			return nil
		}
		out = w.solo
	}
	_, err := out.WriteString(w.Line(in) + "\n")
	return err
}

// Line encodes one instance.
func (w *SVMLightWriter) Line(in Instance) string {
	var sb strings.Builder

	switch {
	case in.Ranking():
		sb.WriteString(strconv.FormatFloat(in.Outcome, 'g', -1, 64))
		sb.WriteString(" qid:")
		sb.WriteString(strconv.Itoa(in.QueryID))
	case in.Positive():
		sb.WriteString("+1")
	default:
		sb.WriteString("-1")
	}

	sparse := in.Features.Sparse()
	ids := make([]int, 0, len(sparse))
	vals := make(map[int]float64, len(sparse))
	for _, k := range in.Features.Keys() {
		id := w.Alphabet.Add(k)
		ids = append(ids, id)
		vals[id] = sparse[k]
	}
	sort.Ints(ids)

	for _, id := range ids {
		if vals[id] == 0 {
			continue
		}
		fmt.Fprintf(&sb, " %d:%s", id, strconv.FormatFloat(vals[id], 'g', 6, 64))
	}

	return sb.String()
}

// Flush writes buffered lines.
func (w *SVMLightWriter) Flush() error {
	if err := w.pair.Flush(); err != nil {
		return err
	}
	if w.solo != nil {
		return w.solo.Flush()
	}
	return nil
}
