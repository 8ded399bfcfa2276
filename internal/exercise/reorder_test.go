package exercise

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_SeedsFromTaskWords(t *testing.T) {
	s := NewSession([]string{"男孩", "拿"}, []string{"书", "猫"})

	st := s.State()
	assert.Equal(t, []string{"男孩", "拿"}, st.Answer)
	assert.Equal(t, []string{"书", "猫"}, st.Pool)

	assert.True(t, s.IsInitial("男孩"))
	assert.False(t, s.IsInitial("书"))
}

func TestMoveWord_PoolToAnswer(t *testing.T) {
	s := NewSession([]string{"男孩", "拿"}, []string{"书", "猫"})

	moved := s.MoveWord("书", ListPool, 0, ListAnswer, 2)
	require.True(t, moved)

	st := s.State()
	assert.Equal(t, []string{"男孩", "拿", "书"}, st.Answer)
	assert.Equal(t, []string{"猫"}, st.Pool)
}

func TestMoveWord_ReorderWithinAnswer(t *testing.T) {
	s := NewSession([]string{"a", "b", "c"}, nil)

	moved := s.MoveWord("a", ListAnswer, 0, ListAnswer, 2)
	require.True(t, moved)

	assert.Equal(t, []string{"b", "c", "a"}, s.State().Answer)
}

func TestMoveWord_AlternativeWordMovesFreely(t *testing.T) {
	s := NewSession([]string{"a"}, []string{"x", "y"})

	require.True(t, s.MoveWord("x", ListPool, 0, ListAnswer, 0))
	assert.Equal(t, []string{"x", "a"}, s.State().Answer)

	// And back again.
	require.True(t, s.MoveWord("x", ListAnswer, 0, ListPool, 1))
	assert.Equal(t, []string{"a"}, s.State().Answer)
	assert.Equal(t, []string{"y", "x"}, s.State().Pool)
}

func TestMoveWord_InitialWordNeverEntersPool(t *testing.T) {
	s := NewSession([]string{"a", "b"}, []string{"x"})

	moved := s.MoveWord("a", ListAnswer, 0, ListPool, 0)
	assert.False(t, moved, "initial word must be rejected silently")

	st := s.State()
	assert.Equal(t, []string{"a", "b"}, st.Answer)
	assert.Equal(t, []string{"x"}, st.Pool)
}

func TestMoveWord_IdenticalPositionIsNoOp(t *testing.T) {
	s := NewSession([]string{"a", "b"}, nil)

	assert.False(t, s.MoveWord("a", ListAnswer, 0, ListAnswer, 0))
	assert.Equal(t, []string{"a", "b"}, s.State().Answer)
}

func TestMoveWord_RejectsBadInput(t *testing.T) {
	s := NewSession([]string{"a"}, []string{"x"})

	assert.False(t, s.MoveWord("a", ListAnswer, 5, ListPool, 0), "index out of range")
	assert.False(t, s.MoveWord("zzz", ListAnswer, 0, ListPool, 0), "word mismatch")
	assert.False(t, s.MoveWord("a", "elsewhere", 0, ListAnswer, 0), "unknown list")

	st := s.State()
	assert.Equal(t, []string{"a"}, st.Answer)
	assert.Equal(t, []string{"x"}, st.Pool)
}

func TestMoveWord_ClampsDestinationIndex(t *testing.T) {
	s := NewSession([]string{"a"}, []string{"x"})

	require.True(t, s.MoveWord("x", ListPool, 0, ListAnswer, 99))
	assert.Equal(t, []string{"a", "x"}, s.State().Answer)
}

func TestSubmit_ConcatenatesAnswerWords(t *testing.T) {
	s := NewSession([]string{"男孩", "拿"}, []string{"书"})
	require.True(t, s.MoveWord("书", ListPool, 0, ListAnswer, 2))

	assert.Equal(t, "男孩拿书", s.Submit())
}

// The invariant must hold after arbitrary interleavings of valid and invalid
// moves: no initial word may ever end up in the pool.
func TestMoveWord_InvariantUnderRandomOperations(t *testing.T) {
	initial := []string{"一", "二", "三"}
	alternative := []string{"甲", "乙", "丙", "丁"}
	all := append(append([]string{}, initial...), alternative...)
	lists := []ListID{ListAnswer, ListPool}

	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		s := NewSession(initial, alternative)
		for op := 0; op < 200; op++ {
			word := all[rng.Intn(len(all))]
			from := lists[rng.Intn(2)]
			to := lists[rng.Intn(2)]
			s.MoveWord(word, from, rng.Intn(8)-1, to, rng.Intn(8)-1)
		}

		st := s.State()
		for _, w := range st.Pool {
			assert.False(t, s.IsInitial(w), "initial word %q leaked into pool", w)
		}
		// No tile is ever lost or duplicated.
		assert.Len(t, append(st.Answer, st.Pool...), len(all))
		for _, w := range initial {
			assert.Contains(t, st.Answer, w)
		}
	}
}
