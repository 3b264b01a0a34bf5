package ending_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/whatif/internal/game/ending"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, ending.ForgotPotion, ending.Escape(false, false))
	assert.Equal(t, ending.ForgotPotion, ending.Escape(false, true))
	assert.Equal(t, ending.PigChase, ending.Escape(true, false))
	assert.Equal(t, ending.TrueEscape, ending.Escape(true, true))
}

func TestState_Enter(t *testing.T) {
	var s ending.State
	assert.False(t, s.Over())

	require.NoError(t, s.Enter(ending.FrozenJump))
	assert.True(t, s.Over())
	assert.Equal(t, ending.FrozenJump, s.Ending)

	err := s.Enter(ending.TrueEscape)
	assert.True(t, errors.Is(err, ending.ErrGameOver))
	assert.Equal(t, ending.FrozenJump, s.Ending)
}

func TestState_EnterRejectsUnknown(t *testing.T) {
	var s ending.State
	assert.True(t, errors.Is(s.Enter(ending.None), ending.ErrUnknownEnding))
	assert.True(t, errors.Is(s.Enter("victory_lap"), ending.ErrUnknownEnding))
	assert.False(t, s.Over())
}

func TestScreenFor(t *testing.T) {
	for _, e := range ending.All() {
		sc := ending.ScreenFor(e)
		assert.NotEmpty(t, sc.Title, "ending %q", e)
		assert.NotEmpty(t, sc.Text, "ending %q", e)
		assert.Equal(t, e == ending.TrueEscape, sc.Victory, "ending %q", e)
	}
	assert.Empty(t, ending.ScreenFor(ending.None).Title)
}

func TestPropertyFirstEndingWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		all := ending.All()
		seq := rapid.SliceOfN(rapid.SampledFrom(all), 1, 10).Draw(t, "endings")
		var s ending.State
		for _, e := range seq {
			_ = s.Enter(e)
		}
		if s.Ending != seq[0] || !s.GameOver {
			t.Fatalf("expected %q to stick, got %q (over=%v)", seq[0], s.Ending, s.GameOver)
		}
	})
}
