package main

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kevink2022/gochan"
)

// registry is the in-memory table of named channels the CLI's subcommands
// share for the lifetime of one process run. It exists purely for this
// harness: the gochan package itself has no notion of a name.
type registry struct {
	mu    sync.Mutex
	chans map[string]*gochan.Channel
}

func newRegistry() *registry {
	return &registry{chans: make(map[string]*gochan.Channel)}
}

// getOrCreate returns the named channel, creating one with the given
// capacity if it does not yet exist.
func (r *registry) getOrCreate(name string, cap int) (*gochan.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.chans[name]; ok {
		return ch, nil
	}
	ch, err := gochan.Create(cap)
	if err != nil {
		return nil, fmt.Errorf("gochanctl: creating channel %q: %w", name, err)
	}
	r.chans[name] = ch
	return ch, nil
}

// names returns every registered channel name, sorted, for listing output.
func (r *registry) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.chans))
	for name := range r.chans {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
