package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/revelaction/clincoref/storage"
)

// ChainStore keeps one JSON file per run in root.
type ChainStore struct {
	root string
}

var _ storage.ChainRepository = (*ChainStore)(nil)

type runFile struct {
	Run    storage.Run     `json:"run"`
	Chains []storage.Chain `json:"chains"`
}

func NewChainStore(root string) (*ChainStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	return &ChainStore{root: root}, nil
}

func (cs *ChainStore) path(runID string) string {
	return filepath.Join(cs.root, runID+".json")
}

func (cs *ChainStore) read(runID string) (runFile, error) {
	data, err := os.ReadFile(cs.path(runID))
	if errors.Is(err, fs.ErrNotExist) {
		return runFile{}, fmt.Errorf("run %s: %w", runID, storage.ErrNotFound)
	}
	if err != nil {
		return runFile{}, fmt.Errorf("IO error: %w", err)
	}

	var rf runFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return runFile{}, fmt.Errorf("JSON decoding error: %w", err)
	}
	return rf, nil
}

func (cs *ChainStore) Runs() ([]storage.Run, error) {
	files, err := os.ReadDir(cs.root)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	var runs []storage.Run
	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}

		rf, err := cs.read(strings.TrimSuffix(file.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		runs = append(runs, rf.Run)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Created.Before(runs[j].Created) })
	return runs, nil
}

func (cs *ChainStore) ReadChains(runID string) ([]storage.Chain, error) {
	rf, err := cs.read(runID)
	if err != nil {
		return nil, err
	}
	return rf.Chains, nil
}

func (cs *ChainStore) WriteRun(run storage.Run, chains []storage.Chain) error {
	if run.ID == "" {
		return fmt.Errorf("run without id")
	}

	head, err := json.Marshal(run)
	if err != nil {
		return err
	}

	// Format the json with each line containing a chain
	var buf bytes.Buffer
	buf.WriteString("{\n\"run\": ")
	buf.Write(head)
	buf.WriteString(",\n\"chains\": [")
	for i, ch := range chains {
		line, err := json.Marshal(ch)
		if err != nil {
			return err
		}
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n\t")
		buf.Write(line)
	}
	buf.WriteString("\n]\n}\n")

	if err := os.WriteFile(cs.path(run.ID), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("IO error: %w", err)
	}
	return nil
}
