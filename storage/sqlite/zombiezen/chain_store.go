package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/revelaction/clincoref/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type ChainStore struct {
	pool *sqlitex.Pool
}

var _ storage.ChainReader = (*ChainStore)(nil)
var _ storage.ChainWriter = (*ChainStore)(nil)

func NewChainStore(pool *sqlitex.Pool) *ChainStore {
	return &ChainStore{pool: pool}
}

func (h *ChainStore) Runs() ([]storage.Run, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var runs []storage.Run
	err = sqlitex.Execute(conn, "SELECT id, created, label FROM runs ORDER BY created, id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			created, err := time.Parse(time.RFC3339Nano, stmt.ColumnText(1))
			if err != nil {
				return fmt.Errorf("run %s: bad created time: %w", stmt.ColumnText(0), err)
			}
			runs = append(runs, storage.Run{
				ID:      stmt.ColumnText(0),
				Created: created,
				Label:   stmt.ColumnText(2),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (h *ChainStore) ReadChains(runID string) ([]storage.Chain, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	found := false
	err = sqlitex.Execute(conn, "SELECT 1 FROM runs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []interface{}{runID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("run %s: %w", runID, storage.ErrNotFound)
	}

	var chains []storage.Chain
	index := map[int64]int{}

	err = sqlitex.Execute(conn, "SELECT id, subject, cluster_id, category, type FROM chains WHERE run_id = ? ORDER BY id", &sqlitex.ExecOptions{
		Args: []interface{}{runID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			index[stmt.ColumnInt64(0)] = len(chains)
			chains = append(chains, storage.Chain{
				Subject:   stmt.ColumnText(1),
				ClusterID: stmt.ColumnInt(2),
				Category:  stmt.ColumnText(3),
				Type:      stmt.ColumnText(4),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	err = sqlitex.Execute(conn, `
		SELECT m.chain_rowid, m.doc_id, m.begin_char, m.end_char, m.text
		FROM chain_mentions m JOIN chains c ON c.id = m.chain_rowid
		WHERE c.run_id = ?
		ORDER BY m.chain_rowid, m.position
	`, &sqlitex.ExecOptions{
		Args: []interface{}{runID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			i, ok := index[stmt.ColumnInt64(0)]
			if !ok {
				return nil
			}
			chains[i].Mentions = append(chains[i].Mentions, storage.ChainMention{
				DocID: stmt.ColumnInt(1),
				Begin: stmt.ColumnInt(2),
				End:   stmt.ColumnInt(3),
				Text:  stmt.ColumnText(4),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return chains, nil
}

// WriteRun stores a run and its chains in one transaction.
func (h *ChainStore) WriteRun(run storage.Run, chains []storage.Chain) (err error) {
	if run.ID == "" {
		return fmt.Errorf("run without id")
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "INSERT INTO runs (id, created, label) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{run.ID, run.Created.UTC().Format(time.RFC3339Nano), run.Label},
	})
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, ch := range chains {
		err = sqlitex.Execute(conn, "INSERT INTO chains (run_id, subject, cluster_id, category, type) VALUES (?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{run.ID, ch.Subject, ch.ClusterID, ch.Category, ch.Type},
		})
		if err != nil {
			return fmt.Errorf("failed to insert chain: %w", err)
		}
		chainRowID := conn.LastInsertRowID()

		for pos, m := range ch.Mentions {
			err = sqlitex.Execute(conn, "INSERT INTO chain_mentions (chain_rowid, position, doc_id, begin_char, end_char, text) VALUES (?, ?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
				Args: []interface{}{chainRowID, pos, m.DocID, m.Begin, m.End, m.Text},
			})
			if err != nil {
				return fmt.Errorf("failed to insert chain mention: %w", err)
			}
		}
	}

	return nil
}
