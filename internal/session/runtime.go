package session

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Runtime drives a Machine without a terminal program. Messages are applied
// one at a time on the Run goroutine; commands run on their own goroutines
// and feed their results back.
type Runtime struct {
	exec     *Executor
	machine  Machine
	msgs     chan any
	observer func(Machine)
	wg       sync.WaitGroup
}

// NewRuntime builds a runtime. observe is called after every applied message.
func NewRuntime(exec *Executor, machine Machine, observe func(Machine)) *Runtime {
	if observe == nil {
		observe = func(Machine) {}
	}
	return &Runtime{
		exec:     exec,
		machine:  machine,
		msgs:     make(chan any, 64),
		observer: observe,
	}
}

// Send queues a message. It never blocks the caller past ctx.
func (r *Runtime) Send(ctx context.Context, msg any) {
	select {
	case r.msgs <- msg:
	case <-ctx.Done():
	}
}

// Run applies messages until the machine completes or ctx ends, and
// returns the final machine.
func (r *Runtime) Run(ctx context.Context) Machine {
	r.dispatch(ctx, r.machine.Init())
	r.observer(r.machine)
	for {
		select {
		case <-ctx.Done():
			r.exec.Close()
			return r.machine
		case msg := <-r.msgs:
			var effects []Effect
			r.machine, effects = r.machine.Update(msg)
			r.dispatch(ctx, effects)
			r.observer(r.machine)
			if r.machine.State() == Complete {
				r.exec.Close()
				return r.machine
			}
		}
	}
}

// Wait blocks until in-flight commands have returned.
func (r *Runtime) Wait() {
	r.wg.Wait()
}

func (r *Runtime) dispatch(ctx context.Context, effects []Effect) {
	for _, effect := range effects {
		cmd := r.exec.Cmd(effect)
		if cmd == nil {
			continue
		}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.deliver(ctx, cmd())
		}()
	}
}

func (r *Runtime) deliver(ctx context.Context, msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, cmd := range msg {
			if cmd != nil {
				r.deliver(ctx, cmd())
			}
		}
	default:
		r.Send(ctx, msg)
	}
}
