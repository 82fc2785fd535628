package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/clincoref/storage"
)

// JSONRenderer writes chains as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the chains as a JSON array.
func (r *JSONRenderer) Render(chains []storage.Chain) {
	if chains == nil {
		chains = []storage.Chain{}
	}
	json.NewEncoder(r.W).Encode(chains)
}

// compile-time interface check
var _ Output = (*JSONRenderer)(nil)
