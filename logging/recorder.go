package logging

import "sync"

// Entry is one recorded log call.
type Entry struct {
	Level   Level
	Msg     string
	Keyvals []any
}

// Recorder keeps log calls in memory. Used by tests to assert on warnings
// and invariant errors.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	keyvals []any
}

func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (r *Recorder) add(lv Level, msg string, keyvals []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kv := append(append([]any{}, r.keyvals...), keyvals...)
	*r.entries = append(*r.entries, Entry{Level: lv, Msg: msg, Keyvals: kv})
}

func (r *Recorder) Debug(msg string, keyvals ...any) { r.add(DebugLevel, msg, keyvals) }
func (r *Recorder) Info(msg string, keyvals ...any)  { r.add(InfoLevel, msg, keyvals) }
func (r *Recorder) Warn(msg string, keyvals ...any)  { r.add(WarnLevel, msg, keyvals) }
func (r *Recorder) Error(msg string, keyvals ...any) { r.add(ErrorLevel, msg, keyvals) }

func (r *Recorder) With(keyvals ...any) Logger {
	return &Recorder{
		mu:      r.mu,
		entries: r.entries,
		keyvals: append(append([]any{}, r.keyvals...), keyvals...),
	}
}

// Entries returns the recorded calls of the given level.
func (r *Recorder) Entries(lv Level) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Entry
	for _, e := range *r.entries {
		if e.Level == lv {
			res = append(res, e)
		}
	}
	return res
}
