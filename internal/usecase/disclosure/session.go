// Package disclosure meters out ranked matches in growing prefixes across
// repeated "show more" requests within one query session.
package disclosure

import "github.com/kailas-cloud/faqdex/internal/domain/match"

// DefaultPageSize is the number of matches disclosed per step. Inherited
// policy from the source system; kept as a named value rather than tuned.
const DefaultPageSize = 10

// Session is the visible-count state of one interactive query. Each session
// owns its state exclusively; concurrent users get independent instances and
// the caller owns any synchronization.
type Session struct {
	pageSize int
	visible  int
}

// NewSession creates a session showing one page. A non-positive page size
// falls back to DefaultPageSize.
func NewSession(pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{pageSize: pageSize, visible: pageSize}
}

// Reset returns the visible count to one page. Called whenever the submitted
// query changes, including the transition to an empty query.
func (s *Session) Reset() {
	s.visible = s.pageSize
}

// Expand grows the visible count by one page and returns the new count.
// No upper bound is enforced here; VisiblePrefix clamps at read time.
func (s *Session) Expand() int {
	s.visible += s.pageSize
	return s.visible
}

// Visible returns the current visible count.
func (s *Session) Visible() int { return s.visible }

// PageSize returns the per-step disclosure size.
func (s *Session) PageSize() int { return s.pageSize }

// VisiblePrefix returns the disclosed prefix of the ranked matches, clamped
// to the match count.
func (s *Session) VisiblePrefix(matches []match.Match) []match.Match {
	n := s.visible
	if n > len(matches) {
		n = len(matches)
	}
	return matches[:n]
}
