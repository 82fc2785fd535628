package main

import (
	"sync/atomic"

	"github.com/gosuri/uiprogress"
)

// labeledBar is a progress bar that shows the name of the last item. The
// name is read by the render goroutine, so it is stored atomically.
type labeledBar struct {
	bar     *uiprogress.Bar
	current atomic.Pointer[string]
}

func newLabeledBar(p *uiprogress.Progress, total int) *labeledBar {
	lb := &labeledBar{bar: p.AddBar(total)}
	lb.bar.AppendCompleted()
	lb.bar.PrependElapsed()
	lb.bar.AppendFunc(func(*uiprogress.Bar) string {
		return lb.Label()
	})
	return lb
}

// Label returns the name of the last item, "" before the first one.
func (lb *labeledBar) Label() string {
	if s := lb.current.Load(); s != nil {
		return *s
	}
	return ""
}

// SetLabel names the current item without advancing the bar.
func (lb *labeledBar) SetLabel(name string) {
	lb.current.Store(&name)
}

// Done names the finished item and advances the bar.
func (lb *labeledBar) Done(name string) {
	lb.SetLabel(name)
	lb.bar.Incr()
}
