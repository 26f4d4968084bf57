package agent

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Context is the agent's runtime identity and observable state. One is
// created per Start call and lives until the process exits; callers
// hold it (directly or through a ContextRef) but never mutate it.
type Context struct {
	id string

	mu        sync.Mutex
	state     State
	job       Job
	lastError error
}

func newContext() *Context {
	return &Context{
		id:    uuid.NewString(),
		state: StateWaiting,
	}
}

// ID returns the context's unique identity, stable for its lifetime.
func (c *Context) ID() string {
	return c.id
}

// State returns the agent's current lifecycle state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the most recent update failure, or nil if no
// attempt has failed. It is not cleared by later successes until a new
// failure replaces it.
func (c *Context) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Job returns the update currently (or most recently) being processed.
// Zero before the first notification is accepted.
func (c *Context) Job() Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

func (c *Context) setJob(job Job) {
	c.mu.Lock()
	c.job = job
	c.mu.Unlock()
}

func (c *Context) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Context) setLastError(err error) {
	c.mu.Lock()
	c.lastError = err
	c.mu.Unlock()
}

// ContextRef is the opaque callback argument. The caller allocates one,
// passes it in AgentParams, and Start stores the agent's Context into
// it before the first callback fires, so every event can be attributed
// to its agent.
type ContextRef struct {
	ptr atomic.Pointer[Context]
}

// Load returns the agent Context, or nil before Start has bound one.
func (r *ContextRef) Load() *Context {
	return r.ptr.Load()
}

func (r *ContextRef) bind(c *Context) {
	r.ptr.Store(c)
}
