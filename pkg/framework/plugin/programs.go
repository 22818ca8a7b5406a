package plugin

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultProgramName names the single program of a plugin without presets.
// Some hosts misbehave when a plugin reports zero programs.
const DefaultProgramName = "None"

// ErrNoSuchProgram is returned for an out-of-range program index.
var ErrNoSuchProgram = errors.New("plugin: no such program")

// Programs is a host-visible program list with a current selection.
type Programs struct {
	mu       sync.RWMutex
	names    []string
	current  int
	readOnly bool
}

// NewPrograms creates a list with the given names. An empty list gets one
// program named DefaultProgramName.
func NewPrograms(names ...string) *Programs {
	if len(names) == 0 {
		names = []string{DefaultProgramName}
	}
	return &Programs{names: append([]string(nil), names...)}
}

// ReadOnly makes Rename a no-op.
func (p *Programs) ReadOnly() *Programs {
	p.readOnly = true
	return p
}

// Count returns the number of programs.
func (p *Programs) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.names)
}

// Current returns the selected program index.
func (p *Programs) Current() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Select changes the current program.
func (p *Programs) Select(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.names) {
		return fmt.Errorf("%w: %d", ErrNoSuchProgram, index)
	}
	p.current = index
	return nil
}

// Name returns the name of a program, or "" for an unknown index.
func (p *Programs) Name(index int) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if index < 0 || index >= len(p.names) {
		return ""
	}
	return p.names[index]
}

// Rename changes a program name.
func (p *Programs) Rename(index int, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.names) {
		return fmt.Errorf("%w: %d", ErrNoSuchProgram, index)
	}
	if !p.readOnly {
		p.names[index] = name
	}
	return nil
}
