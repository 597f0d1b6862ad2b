package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("editor session not found")
	ErrNotOwner        = errors.New("editor session belongs to another user")
	ErrPostNotFound    = errors.New("post not found")
)

type session struct {
	id      string
	owner   string
	ctrl    *Controller
	touched time.Time
}

// Registry holds the open editor sessions of this process.
type Registry struct {
	deps Deps
	idle time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry returns a registry whose sessions expire after idle without use.
func NewRegistry(deps Deps, idle time.Duration) *Registry {
	return &Registry{deps: deps.withDefaults(), idle: idle, sessions: map[string]*session{}}
}

// Open starts a session for owner. An empty postID opens a new draft,
// otherwise the post is loaded through the post gateway.
func (r *Registry) Open(ctx context.Context, owner, postID string) (string, *Controller, error) {
	draft := NewDraft()
	if postID != "" {
		callCtx := ctx
		if r.deps.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.deps.Timeout)
			defer cancel()
		}
		p, err := r.deps.Posts.Get(callCtx, postID)
		if err != nil {
			return "", nil, err
		}
		if p == nil {
			return "", nil, ErrPostNotFound
		}
		draft = DraftFromPost(p, r.deps.Location)
	}

	s := &session{
		id:      uuid.NewString(),
		owner:   owner,
		ctrl:    NewController(draft, owner, r.deps),
		touched: r.deps.Now(),
	}
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	r.deps.Log.Debug("editor session opened", zap.String("session", s.id), zap.String("post", postID))
	return s.id, s.ctrl, nil
}

// Get returns the controller of session id and marks it used.
func (r *Registry) Get(id, owner string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.owner != owner {
		return nil, ErrNotOwner
	}
	s.touched = r.deps.Now()
	return s.ctrl, nil
}

// Close discards session id.
func (r *Registry) Close(id, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.owner != owner {
		return ErrNotOwner
	}
	delete(r.sessions, id)
	return nil
}

// Sweep drops sessions idle for longer than the idle timeout. Sessions with
// a gateway call in flight are kept.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.deps.Now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.touched.After(cutoff) || s.ctrl.Busy() {
			continue
		}
		delete(r.sessions, id)
		n++
	}
	if n > 0 {
		r.deps.Log.Info("editor sessions expired", zap.Int("count", n))
	}
	return n
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
