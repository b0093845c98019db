package utils

import (
	"context"
	"sync"

	goutils "go.viam.com/utils"
)

// StoppableWorkers is a group of goroutines sharing one context that is cancelled by Stop.
type StoppableWorkers struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  func()
	workers sync.WaitGroup
}

// NewStoppableWorkers starts each function in its own goroutine with a context derived from ctx.
func NewStoppableWorkers(ctx context.Context, funcs ...func(context.Context)) *StoppableWorkers {
	cancelCtx, cancel := context.WithCancel(ctx)
	sw := &StoppableWorkers{ctx: cancelCtx, cancel: cancel}
	sw.AddWorkers(funcs...)
	return sw
}

// AddWorkers starts more goroutines. It does nothing once Stop has been called.
func (sw *StoppableWorkers) AddWorkers(funcs ...func(context.Context)) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.ctx.Err() != nil {
		return
	}
	sw.workers.Add(len(funcs))
	for _, f := range funcs {
		goutils.PanicCapturingGo(func() {
			defer sw.workers.Done()
			f(sw.ctx)
		})
	}
}

// Stop cancels the workers' context and waits for all of them to return.
func (sw *StoppableWorkers) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.cancel()
	sw.workers.Wait()
}

// Context is the context handed to every worker.
func (sw *StoppableWorkers) Context() context.Context {
	return sw.ctx
}
