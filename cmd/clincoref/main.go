package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "clincoref: %v\n", err)
}

// global flags
const (
	flagConfig     = "config"
	flagLogLevel   = "log-level"
	flagLogJSON    = "log-json"
	flagMetrics    = "metrics"
	flagNoProgress = "no-progress"
)

// command flags
const (
	flagDocPath  = "doc-path"
	flagDB       = "db"
	flagOut      = "out"
	flagModel    = "model"
	flagDecoding = "decoding"
	flagPolicy   = "policy"
	flagLabel    = "label"
	flagRunLabel = "run-label"
	flagFormat   = "format"
	flagNoColor  = "no-color"
	flagNoPrefix = "no-prefix"
	flagNoStore  = "no-store"
	flagKeepNeg  = "keep-negative"
	flagSeed     = "seed"
	flagSVMLight = "svmlight"
	flagRun      = "run"
	flagSentence = "sentence"
)

const formatJSON = "json"

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagDocPath, Aliases: []string{"d"}, Usage: "document directory"},
		&cli.StringFlag{Name: flagDB, Usage: "sqlite database, selects the sqlite backend"},
		&cli.StringFlag{Name: flagOut, Aliases: []string{"o"}, Usage: "chain output directory"},
	}
}

func decodingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagModel, Aliases: []string{"m"}, Usage: "model file"},
		&cli.StringFlag{Name: flagDecoding, Usage: "classify or rank"},
		&cli.StringFlag{Name: flagPolicy, Usage: "greedy or best"},
		&cli.StringFlag{Name: flagLabel, Aliases: []string{"l"}, Usage: "only documents with a label containing `MATCH`"},
	}
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:                 "clincoref",
		Usage:                "clinical coreference resolution over parsed notes",
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		HideVersion:          true,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "config file", EnvVars: []string{"CLINCOREF_CONFIG"}},
			&cli.StringFlag{Name: flagLogLevel, Usage: "debug, info, warn or error"},
			&cli.BoolFlag{Name: flagLogJSON, Usage: "log as JSON"},
			&cli.StringFlag{Name: flagMetrics, Usage: "write prometheus counters to `FILE`"},
			&cli.BoolFlag{Name: flagNoProgress, Usage: "no progress bars"},
		},
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "resolve the coreference chains of the documents and store them as a run",
				Flags: append(append(storageFlags(), decodingFlags()...),
					&cli.StringFlag{Name: flagRunLabel, Usage: "label of the stored run"},
					&cli.StringFlag{Name: flagFormat, Aliases: []string{"f"}, Value: "chains", Usage: "chains, doc or json"},
					&cli.BoolFlag{Name: flagNoColor, Usage: "no colors"},
					&cli.BoolFlag{Name: flagNoPrefix, Usage: "no chain prefix"},
					&cli.BoolFlag{Name: flagNoStore, Usage: "print the chains without storing the run"},
				),
				Action: func(c *cli.Context) error {
					return resolveCommand(c, ui)
				},
			},
			{
				Name:  "train",
				Usage: "train a linear model from the gold chains of the documents",
				Flags: append(append(storageFlags(), decodingFlags()...),
					&cli.Float64Flag{Name: flagKeepNeg, Usage: "probability of keeping a negative instance"},
					&cli.Int64Flag{Name: flagSeed, Usage: "negative sampling seed"},
					&cli.StringFlag{Name: flagSVMLight, Usage: "also export instances as SVM-light files with path `PREFIX`"},
				),
				Action: func(c *cli.Context) error {
					return trainCommand(c, ui)
				},
			},
			{
				Name:      "import",
				Usage:     "import a directory of JSON documents into a sqlite database",
				ArgsUsage: "<from dir> <to db>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("usage: clincoref import %s", c.Command.ArgsUsage)
					}
					return importCommand(c.Args().Get(0), c.Args().Get(1), ui)
				},
			},
			{
				Name:  "explore",
				Usage: "explore stored runs in a REPL",
				Flags: append(storageFlags(),
					&cli.BoolFlag{Name: flagNoColor, Usage: "no colors"},
				),
				Action: func(c *cli.Context) error {
					return exploreCommand(c, ui)
				},
			},
			{
				Name:  "stat",
				Usage: "print document and chain statistics",
				Flags: append(storageFlags(),
					&cli.StringFlag{Name: flagRun, Usage: "run id prefix, defaults to the latest run"},
				),
				Action: func(c *cli.Context) error {
					return statCommand(c, ui)
				},
			},
			{
				Name:      "doc",
				Usage:     "list the documents, or print a document with its markables",
				ArgsUsage: "[doc id]",
				Flags: append(storageFlags(),
					&cli.StringFlag{Name: flagLabel, Aliases: []string{"l"}, Usage: "only documents with a label containing `MATCH`"},
					&cli.IntFlag{Name: flagSentence, Aliases: []string{"s"}, Usage: "print the token table of sentence `N`"},
				),
				Action: func(c *cli.Context) error {
					return docCommand(c, ui)
				},
			},
			{
				Name:      "labels",
				Usage:     "print the document labels",
				ArgsUsage: "[pattern]",
				Flags:     storageFlags(),
				Action: func(c *cli.Context) error {
					return labelsCommand(c, ui)
				},
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					return versionCommand(ui)
				},
			},
		},
	}
}
