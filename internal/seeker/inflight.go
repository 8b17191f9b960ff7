package seeker

import (
	"sync"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// inflightCall is the shared future every caller for the same query id
// observes, replacing a "promise of promise" with a concurrent map from id
// to a single handle.
type inflightCall struct {
	done chan struct{}
	resp *model.KnowledgeResponse
	err  error
}

func newInflightCall() *inflightCall {
	return &inflightCall{done: make(chan struct{})}
}

func (c *inflightCall) finish(resp *model.KnowledgeResponse, err error) {
	c.resp, c.err = resp, err
	close(c.done)
}

// inflightRegistry is a sync.Map keyed by query id; it exists as a small
// typed wrapper to avoid interface{} casts scattered across seeker.go.
type inflightRegistry struct {
	m sync.Map
}

// loadOrStart returns the existing call for id if one is running, or
// registers and returns a fresh one (started=true) for the caller to fulfill.
func (r *inflightRegistry) loadOrStart(id string) (call *inflightCall, started bool) {
	fresh := newInflightCall()
	actual, loaded := r.m.LoadOrStore(id, fresh)
	call = actual.(*inflightCall)
	return call, !loaded
}

func (r *inflightRegistry) delete(id string) {
	r.m.Delete(id)
}
