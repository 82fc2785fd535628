package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/storage"
)

// DocStore reads parsed documents from a directory of JSON files. Documents
// get their position among the sorted file names as Id.
type DocStore struct {
	docDir string

	// In-memory cache
	docs   []sent.Doc
	files  []string
	loaded bool
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore creates a filesystem document store.
func NewDocStore(docDir string) (*DocStore, error) {
	entries, err := os.ReadDir(docDir)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	return &DocStore{docDir: docDir, files: files}, nil
}

// Len is the number of document files.
func (h *DocStore) Len() int {
	return len(h.files)
}

// LoadAll preloads all docs into memory.
// The callback is called for each file loaded (total, current_name).
func (h *DocStore) LoadAll(cb func(total int, name string)) error {
	if h.loaded {
		return nil
	}

	docs := make([]sent.Doc, 0, len(h.files))
	for i, name := range h.files {
		if cb != nil {
			cb(len(h.files), name)
		}

		doc, err := ReadDoc(filepath.Join(h.docDir, name))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		doc.Id = i
		if doc.Title == "" {
			doc.Title = strings.TrimSuffix(name, ".json")
		}
		docs = append(docs, doc)
	}

	h.docs = docs
	h.loaded = true
	return nil
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	if err := h.LoadAll(nil); err != nil {
		return nil, err
	}
	if labelMatch == "" {
		return h.docs, nil
	}

	var res []sent.Doc
	for _, d := range h.docs {
		if hasLabel(d.Labels, labelMatch) {
			res = append(res, d)
		}
	}
	return res, nil
}

func hasLabel(labels []string, match string) bool {
	for _, l := range labels {
		if strings.Contains(l, match) {
			return true
		}
	}
	return false
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	if err := h.LoadAll(nil); err != nil {
		return sent.Doc{}, err
	}
	if id < 0 || id >= len(h.docs) {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}
	return h.docs[id], nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	if err := h.LoadAll(nil); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var labels []string
	for _, d := range h.docs {
		for _, l := range d.Labels {
			if seen[l] || (pattern != "" && !strings.Contains(l, pattern)) {
				continue
			}
			seen[l] = true
			labels = append(labels, l)
		}
	}
	sort.Strings(labels)
	return labels, nil
}

// Write stores doc as <title>.json and returns its Id.
func (h *DocStore) Write(doc sent.Doc) (int, error) {
	if err := h.LoadAll(nil); err != nil {
		return 0, err
	}
	if doc.Title == "" {
		return 0, fmt.Errorf("doc without title")
	}

	name := doc.Title + ".json"
	if err := WriteDoc(filepath.Join(h.docDir, name), doc); err != nil {
		return 0, err
	}

	doc.Id = len(h.docs)
	h.docs = append(h.docs, doc)
	h.files = append(h.files, name)
	return doc.Id, nil
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}

// WriteDoc writes doc as indented JSON.
func WriteDoc(path string, doc sent.Doc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON encoding error: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("IO error: %w", err)
	}
	return nil
}
