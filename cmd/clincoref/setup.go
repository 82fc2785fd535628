package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/clincoref/config"
	"github.com/revelaction/clincoref/logging"
	"github.com/revelaction/clincoref/metrics"
	sent "github.com/revelaction/clincoref/sentence"
	"github.com/revelaction/clincoref/storage"
	"github.com/revelaction/clincoref/storage/filesystem"
	"github.com/revelaction/clincoref/storage/sqlite/zombiezen"
)

const (
	backendFilesystem = "filesystem"
	backendSQLite     = "sqlite"
)

type Pool struct {
	p *sqlitex.Pool
}

func (p *Pool) Open(path string) (*sqlitex.Pool, error) {
	if p.p != nil {
		return p.p, nil
	}
	pool, err := zombiezen.NewPool(path)
	if err != nil {
		return nil, err
	}
	p.p = pool
	return p.p, nil
}

func (p *Pool) Close() error {
	if p.p != nil {
		return p.p.Close()
	}
	return nil
}

// env is the configured runtime shared by the commands.
type env struct {
	cfg      *config.Config
	logger   logging.Logger
	metrics  *metrics.Recorder
	pool     Pool
	progress bool
}

func newEnv(c *cli.Context, ui UI) (*env, error) {
	boot := config.DefaultConfig()
	applyFlags(c, boot)
	lc := boot.LoggingConfig()
	lc.Output = ui.Err

	cfg, err := config.NewLoader(logging.New(lc)).Load(c.String(flagConfig))
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lc = cfg.LoggingConfig()
	lc.Output = ui.Err
	return &env{
		cfg:      cfg,
		logger:   logging.New(lc),
		metrics:  metrics.New(),
		progress: !c.Bool(flagNoProgress),
	}, nil
}

// applyFlags overrides configuration with the flags given on the command
// line.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet(flagLogLevel) {
		cfg.Log.Level = c.String(flagLogLevel)
	}
	if c.IsSet(flagLogJSON) {
		cfg.Log.JSON = c.Bool(flagLogJSON)
	}
	if c.IsSet(flagMetrics) {
		cfg.Metrics.Textfile = c.String(flagMetrics)
	}
	if c.IsSet(flagDocPath) {
		cfg.Storage.DocPath = c.String(flagDocPath)
	}
	if c.IsSet(flagDB) {
		cfg.Storage.Backend = backendSQLite
		cfg.Storage.DB = c.String(flagDB)
	}
	if c.IsSet(flagOut) {
		cfg.Storage.ChainPath = c.String(flagOut)
	}
	if c.IsSet(flagModel) {
		cfg.Model.Path = c.String(flagModel)
	}
	if c.IsSet(flagDecoding) {
		cfg.Resolve.Decoding = c.String(flagDecoding)
	}
	if c.IsSet(flagPolicy) {
		cfg.Resolve.Policy = c.String(flagPolicy)
	}
	if c.IsSet(flagKeepNeg) {
		cfg.Resolve.KeepNegativeProb = c.Float64(flagKeepNeg)
	}
	if c.IsSet(flagSeed) {
		cfg.Resolve.Seed = c.Int64(flagSeed)
	}
	if c.IsSet(flagSVMLight) {
		cfg.Model.SVMLight = c.String(flagSVMLight)
	}
}

// Close dumps the metrics text file, when configured, and closes the
// database.
func (e *env) Close() error {
	var err error
	if path := e.cfg.Metrics.Textfile; path != "" {
		if werr := e.metrics.WriteFile(path); werr != nil {
			err = fmt.Errorf("metrics: %w", werr)
		}
	}
	if cerr := e.pool.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (e *env) docRepository() (storage.DocRepository, error) {
	if e.cfg.Storage.Backend == backendSQLite {
		pool, err := e.pool.Open(e.cfg.Storage.DB)
		if err != nil {
			return nil, err
		}
		return zombiezen.NewDocStore(pool), nil
	}
	return filesystem.NewDocStore(e.cfg.Storage.DocPath)
}

func (e *env) chainRepository() (storage.ChainRepository, error) {
	if e.cfg.Storage.Backend == backendSQLite {
		pool, err := e.pool.Open(e.cfg.Storage.DB)
		if err != nil {
			return nil, err
		}
		return zombiezen.NewChainStore(pool), nil
	}
	return filesystem.NewChainStore(e.cfg.Storage.ChainPath)
}

// newProgress returns a progress renderer on w, muted when the progress
// flag is off.
func (e *env) newProgress(w io.Writer) *uiprogress.Progress {
	p := uiprogress.New()
	if !e.progress {
		w = io.Discard
	}
	p.SetOut(w)
	return p
}

// loadDocs reads every document of repo with a label containing
// labelMatch.
func (e *env) loadDocs(repo storage.DocReader, labelMatch string, ui UI) ([]sent.Doc, error) {
	metas, err := repo.List(labelMatch)
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, fmt.Errorf("no documents found")
	}

	p := e.newProgress(ui.Err)
	p.Start()
	bar := newLabeledBar(p, len(metas))

	docs := make([]sent.Doc, 0, len(metas))
	for _, meta := range metas {
		bar.SetLabel(meta.Title)
		doc, err := repo.Read(meta.Id)
		if err != nil {
			p.Stop()
			return nil, fmt.Errorf("failed to read doc %s: %w", meta.Title, err)
		}
		docs = append(docs, doc)
		bar.Done(meta.Title)
	}
	p.Stop()

	e.logger.Debug("documents loaded", "docs", len(docs), "label", labelMatch)
	return docs, nil
}
