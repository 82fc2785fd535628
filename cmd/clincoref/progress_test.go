package main

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/gosuri/uiprogress"
	"github.com/stretchr/testify/assert"
)

func TestLabeledBar(t *testing.T) {
	p := uiprogress.New()
	p.SetOut(&bytes.Buffer{})
	lb := newLabeledBar(p, 2)

	assert.Equal(t, "", lb.Label())

	lb.SetLabel("admission")
	assert.Equal(t, "admission", lb.Label())
	assert.Equal(t, 0, lb.bar.Current())

	lb.Done("discharge")
	assert.Equal(t, "discharge", lb.Label())
	assert.Equal(t, 1, lb.bar.Current())
}

func TestLabeledBarConcurrentRender(t *testing.T) {
	p := uiprogress.New()
	p.SetOut(&bytes.Buffer{})
	const n = 50
	lb := newLabeledBar(p, n)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_ = lb.bar.String()
		}
	}()
	for i := 0; i < n; i++ {
		lb.Done(fmt.Sprintf("note %d", i))
	}
	wg.Wait()

	assert.Equal(t, fmt.Sprintf("note %d", n-1), lb.Label())
	assert.Equal(t, n, lb.bar.Current())
}
