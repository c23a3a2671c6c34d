package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Talts01/SocialPizza/internal/models"
)

func TestNewDecision(t *testing.T) {
	t.Run("approval without comment", func(t *testing.T) {
		d, err := NewDecision(9, models.StatusApproved, "")
		require.NoError(t, err)
		require.Equal(t, int64(9), d.EventID)
		require.Equal(t, models.StatusApproved, d.Verdict)
		require.Empty(t, d.Comment)
	})

	t.Run("rejection carries the comment", func(t *testing.T) {
		d, err := NewDecision(9, models.StatusRejected, "troppo tardi")
		require.NoError(t, err)
		require.Equal(t, models.StatusRejected, d.Verdict)
		require.Equal(t, "troppo tardi", d.Comment)
	})

	t.Run("rejection without comment fails", func(t *testing.T) {
		_, err := NewDecision(9, models.StatusRejected, "")
		require.ErrorIs(t, err, ErrCommentRequired)
	})

	t.Run("whitespace comment counts as empty", func(t *testing.T) {
		_, err := NewDecision(9, models.StatusRejected, "   \t ")
		require.ErrorIs(t, err, ErrCommentRequired)
	})

	t.Run("comment is trimmed", func(t *testing.T) {
		d, err := NewDecision(9, models.StatusRejected, "  troppo tardi  ")
		require.NoError(t, err)
		require.Equal(t, "troppo tardi", d.Comment)
	})

	t.Run("pending is not a verdict", func(t *testing.T) {
		_, err := NewDecision(9, models.StatusPending, "x")
		require.ErrorIs(t, err, ErrInvalidVerdict)
	})

	t.Run("arbitrary verdicts fail", func(t *testing.T) {
		_, err := NewDecision(9, models.EventStatus("MAYBE"), "x")
		require.ErrorIs(t, err, ErrInvalidVerdict)
	})
}
