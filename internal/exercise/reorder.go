// Package exercise implements the sentence-reorder ("corrections") exercise:
// word tiles are dragged between an answer row and a pool of spare words to
// build a corrected sentence. The engine is independent of any drag-and-drop
// implementation; callers translate UI gestures into MoveWord calls.
package exercise

import "strings"

// ListID identifies one of the two word lists.
type ListID string

const (
	ListAnswer ListID = "answer"
	ListPool   ListID = "pool"
)

// State is a snapshot of the two ordered word lists.
type State struct {
	Answer []string `json:"answer"`
	Pool   []string `json:"pool"`
}

// Session is the draft state of one task's reorder exercise. It is seeded
// from the task's word lists and discarded on navigation; returning to the
// task re-seeds from scratch.
//
// Invariant: a word seeded into the answer list (an "initial" word) can be
// reordered within the answer but never relocated into the pool. Moves that
// would break this are rejected without an error, matching the tile UI where
// the pool simply refuses the drop.
type Session struct {
	answer  []string
	pool    []string
	initial map[string]struct{}
}

// NewSession seeds a fresh exercise from a task's initial (mandatory) and
// alternative (spare) words.
func NewSession(initial, alternative []string) *Session {
	s := &Session{
		answer:  make([]string, len(initial)),
		pool:    make([]string, len(alternative)),
		initial: make(map[string]struct{}, len(initial)),
	}
	copy(s.answer, initial)
	copy(s.pool, alternative)
	for _, w := range initial {
		s.initial[w] = struct{}{}
	}
	return s
}

// IsInitial reports whether the word was seeded as mandatory.
func (s *Session) IsInitial(word string) bool {
	_, ok := s.initial[word]
	return ok
}

// MoveWord moves the word at from/fromIndex to to/toIndex. It returns whether
// the state changed. Rejected moves (out-of-range index, word mismatch, an
// initial word headed for the pool) and the identical source/destination
// no-op all leave the state untouched and return false.
//
// When moving within one list, toIndex addresses the list after the word has
// been taken out, so moving "down" by one lands one slot later than the
// original position.
func (s *Session) MoveWord(word string, from ListID, fromIndex int, to ListID, toIndex int) bool {
	if from == to && fromIndex == toIndex {
		return false
	}

	src := s.list(from)
	dst := s.list(to)
	if src == nil || dst == nil {
		return false
	}
	if fromIndex < 0 || fromIndex >= len(*src) {
		return false
	}
	if (*src)[fromIndex] != word {
		return false
	}

	// Mandatory words must stay part of the answer.
	if s.IsInitial(word) && to != ListAnswer {
		return false
	}

	*src = append((*src)[:fromIndex], (*src)[fromIndex+1:]...)

	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(*dst) {
		toIndex = len(*dst)
	}
	*dst = append(*dst, "")
	copy((*dst)[toIndex+1:], (*dst)[toIndex:])
	(*dst)[toIndex] = word

	return true
}

// Submit concatenates the answer words into the sentence submitted under the
// rephrase action.
func (s *Session) Submit() string {
	return strings.Join(s.answer, "")
}

// State returns a copy of both lists.
func (s *Session) State() State {
	st := State{
		Answer: make([]string, len(s.answer)),
		Pool:   make([]string, len(s.pool)),
	}
	copy(st.Answer, s.answer)
	copy(st.Pool, s.pool)
	return st
}

func (s *Session) list(id ListID) *[]string {
	switch id {
	case ListAnswer:
		return &s.answer
	case ListPool:
		return &s.pool
	default:
		return nil
	}
}
