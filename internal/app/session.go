package app

import (
	"time"

	"live-quiz-service/internal/domain"
)

// Session is the single mutable record of quiz progress. It is not safe for
// concurrent use; the Gateway is its only writer.
type Session struct {
	now        func() time.Time
	catalog    []domain.Question
	phase      domain.Phase
	index      int
	roundStart time.Time
	pending    map[string]domain.PendingAnswer
}

// NewSession creates an idle session over the given catalog.
func NewSession(catalog []domain.Question) *Session {
	return NewSessionWithClock(catalog, time.Now)
}

// NewSessionWithClock allows deterministic round timing in tests.
func NewSessionWithClock(catalog []domain.Question, now func() time.Time) *Session {
	return &Session{
		now:     now,
		catalog: catalog,
		phase:   domain.PhaseIdle,
		pending: make(map[string]domain.PendingAnswer),
	}
}

// Phase returns the current lifecycle stage.
func (s *Session) Phase() domain.Phase {
	return s.phase
}

// Index returns the position of the current question.
func (s *Session) Index() int {
	return s.index
}

// Current returns the question being played, if any.
func (s *Session) Current() (domain.Question, bool) {
	if s.phase != domain.PhaseActive && s.phase != domain.PhaseResolved {
		return domain.Question{}, false
	}
	return s.catalog[s.index], true
}

// Pending returns a copy of the answers recorded for the active round, keyed by connection id.
func (s *Session) Pending() map[string]domain.PendingAnswer {
	out := make(map[string]domain.PendingAnswer, len(s.pending))
	for k, v := range s.pending {
		out[k] = v
	}
	return out
}

// Start opens the first round. It only applies to an idle session with a
// non-empty catalog.
func (s *Session) Start() bool {
	if s.phase != domain.PhaseIdle || len(s.catalog) == 0 {
		return false
	}
	s.index = 0
	s.openRound()
	return true
}

// RecordAnswer stores or overwrites the answer of connID for the active round.
// Answers arriving outside an active round are dropped.
func (s *Session) RecordAnswer(connID, displayName, option string) bool {
	if s.phase != domain.PhaseActive {
		return false
	}
	s.pending[connID] = domain.PendingAnswer{
		DisplayName: displayName,
		Option:      option,
		Elapsed:     s.now().Sub(s.roundStart),
	}
	return true
}

// Resolve closes the active round. The resolved question and its pending
// answers are returned so the caller can score them; the session then moves to
// the next question, or to Finished after the last one.
func (s *Session) Resolve() (domain.Question, map[string]domain.PendingAnswer, bool) {
	if s.phase != domain.PhaseActive {
		return domain.Question{}, nil, false
	}
	s.phase = domain.PhaseResolved
	question := s.catalog[s.index]
	answers := s.pending
	s.pending = make(map[string]domain.PendingAnswer)

	if s.index < len(s.catalog)-1 {
		s.index++
		s.openRound()
	} else {
		s.phase = domain.PhaseFinished
	}
	return question, answers, true
}

// Reset returns the session to Idle from any phase.
func (s *Session) Reset() {
	s.phase = domain.PhaseIdle
	s.index = 0
	s.pending = make(map[string]domain.PendingAnswer)
}

func (s *Session) openRound() {
	s.roundStart = s.now()
	s.pending = make(map[string]domain.PendingAnswer)
	s.phase = domain.PhaseActive
}
