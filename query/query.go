package query

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/clincoref/render"
	"github.com/revelaction/clincoref/storage"
)

const (
	cmdRuns = "runs"
	cmdRun  = "run"
	cmdAll  = "all"
	cmdDoc  = "doc"
	cmdType = "type"
	cmdFind = "find"
	cmdQuit = "quit"
)

var commands = []prompt.Suggest{
	{Text: cmdRuns, Description: "list stored runs"},
	{Text: cmdRun, Description: "select a run by id prefix"},
	{Text: cmdAll, Description: "show all chains of the run"},
	{Text: cmdDoc, Description: "show the chains of a document"},
	{Text: cmdType, Description: "show the chains of a type"},
	{Text: cmdFind, Description: "show chains with a mention containing a word"},
	{Text: cmdQuit, Description: "exit"},
}

var errQuit = errors.New("quit")

// Handler is the interactive chain explorer.
type Handler struct {
	ChainRepo storage.ChainReader
	DocRepo   storage.DocReader
	Renderer  *render.Renderer
	Out       io.Writer

	runs   []storage.Run
	run    storage.Run
	chains []storage.Chain
}

func NewHandler(cr storage.ChainReader, dr storage.DocReader, r *render.Renderer) *Handler {
	return &Handler{
		ChainRepo: cr,
		DocRepo:   dr,
		Renderer:  r,
		Out:       os.Stdout,
	}
}

// Run loops on the prompt until quit. The most recent run is selected at
// start.
func (h *Handler) Run() error {
	if err := h.Execute(cmdRuns); err != nil {
		return err
	}
	if len(h.runs) > 0 {
		if err := h.selectRun(h.runs[len(h.runs)-1].ID); err != nil {
			return err
		}
	}

	fmt.Fprintln(h.Out, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      🔗 ", h.completer,
			prompt.OptionTitle("clincoref explore"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Out, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintln(h.Out, "Prefix set to "+fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		history = append(history, in)

		err := h.Execute(in)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(h.Out, "%v\n", err)
		}
	}
}

// Execute runs one explorer command line.
func (h *Handler) Execute(in string) error {
	tokens := strings.Fields(in)
	if len(tokens) == 0 {
		return nil
	}

	cmd, args := tokens[0], tokens[1:]
	switch cmd {
	case cmdQuit:
		return errQuit

	case cmdRuns:
		runs, err := h.ChainRepo.Runs()
		if err != nil {
			return err
		}
		h.runs = runs
		for _, r := range runs {
			marker := " "
			if r.ID == h.run.ID {
				marker = "*"
			}
			fmt.Fprintf(h.Out, "%s %s %s %s\n", marker, r.ID, r.Created.Format("2006-01-02 15:04:05"), r.Label)
		}
		return nil

	case cmdRun:
		if len(args) != 1 {
			return errors.New("usage: run <id prefix>")
		}
		return h.selectRun(args[0])
	}

	if h.run.ID == "" {
		return errors.New("no run selected")
	}

	switch cmd {
	case cmdAll:
		h.Renderer.Render(h.chains)

	case cmdDoc:
		if len(args) != 1 {
			return errors.New("usage: doc <id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad doc id: %w", err)
		}
		if err := h.loadDoc(id); err != nil {
			return err
		}
		h.Renderer.Render(filter(h.chains, func(ch storage.Chain) bool {
			for _, m := range ch.Mentions {
				if m.DocID == id {
					return true
				}
			}
			return false
		}))

	case cmdType:
		if len(args) != 1 {
			return errors.New("usage: type <type>")
		}
		h.Renderer.Render(filter(h.chains, func(ch storage.Chain) bool { return ch.Type == args[0] }))

	case cmdFind:
		if len(args) == 0 {
			return errors.New("usage: find <word>")
		}
		word := strings.ToLower(strings.Join(args, " "))
		h.Renderer.Render(filter(h.chains, func(ch storage.Chain) bool {
			for _, m := range ch.Mentions {
				if strings.Contains(strings.ToLower(m.Text), word) {
					return true
				}
			}
			return false
		}))

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}

	return nil
}

func (h *Handler) selectRun(prefix string) error {
	if h.runs == nil {
		runs, err := h.ChainRepo.Runs()
		if err != nil {
			return err
		}
		h.runs = runs
	}

	var found []storage.Run
	for _, r := range h.runs {
		if strings.HasPrefix(r.ID, prefix) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return fmt.Errorf("run %s: %w", prefix, storage.ErrNotFound)
	case 1:
	default:
		return fmt.Errorf("run prefix %s is ambiguous", prefix)
	}

	chains, err := h.ChainRepo.ReadChains(found[0].ID)
	if err != nil {
		return err
	}
	h.run, h.chains = found[0], chains
	fmt.Fprintf(h.Out, "run %s: %d chains\n", h.run.ID, len(chains))
	return nil
}

// loadDoc hands the document text to the renderer for the doc format.
func (h *Handler) loadDoc(id int) error {
	if h.DocRepo == nil {
		return nil
	}
	doc, err := h.DocRepo.Read(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	h.Renderer.AddDoc(doc)
	return nil
}

func filter(chains []storage.Chain, keep func(storage.Chain) bool) []storage.Chain {
	var res []storage.Chain
	for _, ch := range chains {
		if keep(ch) {
			res = append(res, ch)
		}
	}
	return res
}

// types returns the distinct chain types of the selected run.
func (h *Handler) types() []string {
	seen := map[string]bool{}
	var res []string
	for _, ch := range h.chains {
		if !seen[ch.Type] {
			seen[ch.Type] = true
			res = append(res, ch.Type)
		}
	}
	sort.Strings(res)
	return res
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	return h.suggest(in.TextBeforeCursor())
}

func (h *Handler) suggest(befCursor string) []prompt.Suggest {
	s := []prompt.Suggest{}

	// Only one character in line
	if befCursor == "" {
		return s
	}

	tokens := strings.Split(befCursor, " ")
	if len(tokens) == 1 {
		return prompt.FilterHasPrefix(commands, tokens[0], true)
	}
	if len(tokens) > 2 {
		return s
	}

	switch tokens[0] {
	case cmdRun:
		for _, r := range h.runs {
			s = append(s, prompt.Suggest{Text: r.ID, Description: r.Label})
		}
	case cmdType:
		for _, t := range h.types() {
			s = append(s, prompt.Suggest{Text: t})
		}
	}

	return prompt.FilterHasPrefix(s, tokens[1], true)
}
