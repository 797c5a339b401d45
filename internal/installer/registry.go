package installer

import (
	"fmt"

	"github.com/felixgeelhaar/devboot/internal/errors"
)

// Registry is an ordered set of tasks addressable by name.
// Registration order is run order.
type Registry struct {
	tasks []Task
	index map[string]int
}

// NewRegistry creates a registry holding tasks in the given order
func NewRegistry(tasks ...Task) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	for _, t := range tasks {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends a task; names must be unique
func (r *Registry) Register(t Task) error {
	name := NameOf(t)
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("installer %q registered twice", name)
	}
	r.index[name] = len(r.tasks)
	r.tasks = append(r.tasks, t)
	return nil
}

// All returns every task in registration order
func (r *Registry) All() []Task {
	return append([]Task(nil), r.tasks...)
}

// Names returns every task name in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.tasks))
	for i, t := range r.tasks {
		names[i] = NameOf(t)
	}
	return names
}

// Get returns the task registered under name
func (r *Registry) Get(name string) (Task, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.tasks[i], true
}

// Select returns the named tasks in registration order, not argument order,
// so dependencies between installers are preserved. No names selects all.
func (r *Registry) Select(names ...string) ([]Task, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := r.index[name]; !ok {
			return nil, errors.NewUnknownInstallerError(name, r.Names())
		}
		wanted[name] = true
	}

	var selected []Task
	for _, t := range r.tasks {
		if wanted[NameOf(t)] {
			selected = append(selected, t)
		}
	}
	return selected, nil
}
