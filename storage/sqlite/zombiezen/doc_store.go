package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

func metadata(stmt *sqlite.Stmt) sent.Doc {
	doc := sent.Doc{
		Id:      stmt.ColumnInt(0),
		Title:   stmt.ColumnText(1),
		Subject: stmt.ColumnText(2),
		Date:    stmt.ColumnText(3),
	}
	if labelsStr := stmt.ColumnText(4); labelsStr != "" {
		doc.Labels = strings.Split(labelsStr, ",")
	}
	return doc
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	query := "SELECT id, title, subject, date, labels FROM docs"
	var args []interface{}
	if labelMatch != "" {
		query += " WHERE labels LIKE ?"
		args = append(args, "%"+labelMatch+"%")
	}
	query += " ORDER BY id"

	var docs []sent.Doc
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			doc := metadata(stmt)
			// LIKE over the joined column also matches across label
			// boundaries
			if labelMatch != "" && !matchesLabel(doc.Labels, labelMatch) {
				return nil
			}
			docs = append(docs, doc)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func matchesLabel(labels []string, match string) bool {
	for _, l := range labels {
		if strings.Contains(l, match) {
			return true
		}
	}
	return false
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return sent.Doc{}, err
	}
	defer h.pool.Put(conn)

	var doc sent.Doc
	found := false

	err = sqlitex.Execute(conn, "SELECT id, title, subject, date, labels, data FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			if err := json.Unmarshal([]byte(stmt.ColumnText(5)), &doc); err != nil {
				return fmt.Errorf("JSON decoding error: %w", err)
			}
			meta := metadata(stmt)
			doc.Id, doc.Title, doc.Subject, doc.Date, doc.Labels = meta.Id, meta.Title, meta.Subject, meta.Date, meta.Labels
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}
	if !found {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	return doc, nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	docs, err := h.List(pattern)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var labels []string
	for _, d := range docs {
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

// Write inserts doc and returns the id assigned by the database. The Id of
// doc is ignored.
func (h *DocStore) Write(doc sent.Doc) (id int, err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("JSON encoding error: %w", err)
	}

	labels := strings.Join(doc.Labels, ",")
	err = sqlitex.Execute(conn, "INSERT INTO docs (title, subject, date, labels, data) VALUES (?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{doc.Title, doc.Subject, doc.Date, labels, string(data)},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert doc: %w", err)
	}

	return int(conn.LastInsertRowID()), nil
}
