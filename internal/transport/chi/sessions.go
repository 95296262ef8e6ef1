package chi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/faqdex/internal/domain"
	"github.com/kailas-cloud/faqdex/internal/domain/match"
	"github.com/kailas-cloud/faqdex/internal/usecase/disclosure"
	"github.com/kailas-cloud/faqdex/internal/usecase/retrieval"
)

// session is the disclosure state of one ranked result set. The registry lock
// covers all access; a session instance is never shared across query tokens.
type session struct {
	pager   *disclosure.Session
	matches []match.Match
	outcome retrieval.Outcome
	expires time.Time
}

// pageView is a consistent snapshot of a session's disclosed prefix.
type pageView struct {
	visible []match.Match
	outcome retrieval.Outcome
	total   int
}

// sessionRegistry hands out opaque query tokens and keeps each token's
// disclosure state isolated. Expired sessions are swept on create.
type sessionRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*session
}

func newSessionRegistry(ttl time.Duration) *sessionRegistry {
	return &sessionRegistry{
		ttl:      ttl,
		sessions: make(map[string]*session),
	}
}

// create registers a fresh session for a new query and returns its token and
// first page. A replaced token is dropped immediately: submitting a new query
// discards the old disclosure state.
func (r *sessionRegistry) create(pageSize int, res retrieval.Result, replaces string) (string, pageView) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.sweepLocked(now)
	if replaces != "" {
		delete(r.sessions, replaces)
	}

	id := uuid.NewString()
	s := &session{
		pager:   disclosure.NewSession(pageSize),
		matches: res.Matches,
		outcome: res.Outcome,
		expires: now.Add(r.ttl),
	}
	r.sessions[id] = s

	return id, s.view()
}

// expand grows the session's visible prefix by one page and returns the new
// snapshot. The session's lifetime is extended on use.
func (r *sessionRegistry) expand(id string) (pageView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	s, ok := r.sessions[id]
	if !ok || now.After(s.expires) {
		delete(r.sessions, id)
		return pageView{}, domain.ErrSessionNotFound
	}

	s.expires = now.Add(r.ttl)
	s.pager.Expand()
	return s.view(), nil
}

// drop removes a session, if present.
func (r *sessionRegistry) drop(id string) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *sessionRegistry) sweepLocked(now time.Time) {
	for id, s := range r.sessions {
		if now.After(s.expires) {
			delete(r.sessions, id)
		}
	}
}

func (s *session) view() pageView {
	return pageView{
		visible: s.pager.VisiblePrefix(s.matches),
		outcome: s.outcome,
		total:   len(s.matches),
	}
}
