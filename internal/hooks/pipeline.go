// Package hooks runs ordered override hooks against a composition draft.
package hooks

import (
	"fmt"
	"sort"

	"github.com/wolfeidau/bundlecompose/internal/models"
)

// DefaultPriority keeps hooks in declaration order.
const DefaultPriority = 0

// Func mutates a draft in place. It must not keep the draft after returning.
type Func func(d *models.Draft) error

// Hook is a named override with an execution priority. Lower priorities run first.
type Hook struct {
	Name     string
	Priority int
	Fn       Func
}

// New returns a hook at DefaultPriority.
func New(name string, fn Func) Hook {
	return Hook{Name: name, Priority: DefaultPriority, Fn: fn}
}

// WithPriority returns a copy of h with the given priority.
func (h Hook) WithPriority(priority int) Hook {
	h.Priority = priority
	return h
}

type entry struct {
	hook Hook
	seq  int
}

// Pipeline is an ordered set of hooks. It is not safe for concurrent use; a
// composition builds its own pipeline per pass.
type Pipeline struct {
	entries []entry
	names   map[string]struct{}
}

// NewPipeline creates a pipeline pre-registered with hooks in order.
func NewPipeline(hooks ...Hook) (*Pipeline, error) {
	p := &Pipeline{names: make(map[string]struct{})}
	if err := p.Add(hooks...); err != nil {
		return nil, err
	}
	return p, nil
}

// Register adds fn under name with the given priority. Hooks sharing a
// priority run in registration order.
func (p *Pipeline) Register(name string, priority int, fn Func) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidHook)
	}
	if fn == nil {
		return fmt.Errorf("%w: %q has no function", ErrInvalidHook, name)
	}
	if p.names == nil {
		p.names = make(map[string]struct{})
	}
	if _, ok := p.names[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateHook, name)
	}

	p.names[name] = struct{}{}
	p.entries = append(p.entries, entry{
		hook: Hook{Name: name, Priority: priority, Fn: fn},
		seq:  len(p.entries),
	})
	return nil
}

// Add registers each hook in order, stopping at the first failure.
func (p *Pipeline) Add(hooks ...Hook) error {
	for _, h := range hooks {
		if err := p.Register(h.Name, h.Priority, h.Fn); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered hooks.
func (p *Pipeline) Len() int { return len(p.entries) }

// Hooks returns the hooks in execution order.
func (p *Pipeline) Hooks() []Hook {
	ordered := p.ordered()
	out := make([]Hook, len(ordered))
	for i, e := range ordered {
		out[i] = e.hook
	}
	return out
}

func (p *Pipeline) ordered() []entry {
	items := make([]entry, len(p.entries))
	copy(items, p.entries)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].hook.Priority == items[j].hook.Priority {
			return items[i].seq < items[j].seq
		}
		return items[i].hook.Priority < items[j].hook.Priority
	})
	return items
}

// Run applies each hook to d in execution order. The first failing hook
// aborts the run with a *HookExecutionError; later hooks do not run.
func (p *Pipeline) Run(d *models.Draft) error {
	for i, e := range p.ordered() {
		before := d.Externals().Ordered()

		if err := invoke(e.hook.Fn, d); err != nil {
			return &HookExecutionError{Hook: e.hook.Name, Position: i, Priority: e.hook.Priority, Err: err}
		}

		if !d.Externals().HasPrefix(before) {
			return &HookExecutionError{Hook: e.hook.Name, Position: i, Priority: e.hook.Priority, Err: ErrExternalsDiscarded}
		}
	}
	return nil
}

func invoke(fn Func, d *models.Draft) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHookPanicked, r)
		}
	}()
	return fn(d)
}
