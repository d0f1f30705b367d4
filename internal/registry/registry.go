// internal/registry/registry.go
//
// Lifecycle accounting for live game sessions.
//
// Characteristics:
//   - One goroutine owns the session map; Add, Remove and Snapshot are
//     requests sent to it over channels, so callers never share the map.
//   - Safe to call from any number of connection handlers.
//   - After Close, Add and Remove are no-ops and Snapshot returns nil.
//   - No session ever sees another through the registry; it exists for
//     diagnostics only.

package registry

import (
	"sort"
	"sync"
	"time"
)

// Session is what the registry tracks.
type Session interface {
	ID() string
	Info() Info
}

// Info is a point-in-time view of one session.
type Info struct {
	ID        string    `json:"id"`
	Remote    string    `json:"remote"`
	Username  string    `json:"username,omitempty"`
	Phase     string    `json:"phase"`
	Puzzle    string    `json:"puzzle,omitempty"`
	Found     int       `json:"found"`
	Required  int       `json:"required"`
	Rounds    int       `json:"rounds"`
	StartedAt time.Time `json:"startedAt"`
}

// Registry tracks active sessions.
type Registry struct {
	add    chan Session
	remove chan string
	snap   chan chan []Session

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New starts a registry. Call Close to stop its goroutine.
func New() *Registry {
	r := &Registry{
		add:    make(chan Session),
		remove: make(chan string),
		snap:   make(chan chan []Session),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Registry) run() {
	defer close(r.done)
	sessions := make(map[string]Session)
	for {
		select {
		case s := <-r.add:
			sessions[s.ID()] = s
		case id := <-r.remove:
			delete(sessions, id)
		case reply := <-r.snap:
			out := make([]Session, 0, len(sessions))
			for _, s := range sessions {
				out = append(out, s)
			}
			reply <- out
		case <-r.quit:
			return
		}
	}
}

// Add registers s.
func (r *Registry) Add(s Session) {
	select {
	case r.add <- s:
	case <-r.done:
	}
}

// Remove forgets the session with the given id. Unknown ids are ignored.
func (r *Registry) Remove(id string) {
	select {
	case r.remove <- id:
	case <-r.done:
	}
}

// Snapshot returns the sessions registered at the time of the call, ordered by id.
func (r *Registry) Snapshot() []Session {
	reply := make(chan []Session, 1)
	select {
	case r.snap <- reply:
	case <-r.done:
		return nil
	}
	out := <-reply
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Infos returns Info for every registered session, oldest first.
func (r *Registry) Infos() []Info {
	sessions := r.Snapshot()
	out := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Info())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Len reports how many sessions are registered.
func (r *Registry) Len() int { return len(r.Snapshot()) }

// Close stops the registry goroutine and waits for it to exit.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.quit) })
	<-r.done
}
