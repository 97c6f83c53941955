package match

import (
	"testing"

	"github.com/poiesic/vehiclematch/core"
	"github.com/stretchr/testify/assert"
)

func candidateSet(scores ...float32) []core.Candidate {
	candidates := make([]core.Candidate, len(scores))
	for i, score := range scores {
		candidates[i] = core.Candidate{ID: string(rune('A' + i)), Score: score}
	}
	return candidates
}

func TestTriageCandidates_Bands(t *testing.T) {
	b := triageCandidates(candidateSet(0.95, 0.85, 0.80, 0.70, 0.69), 0.85, 0.70)

	assert.Len(t, b.high, 2)
	assert.Len(t, b.bestEffort, 2)
	assert.Equal(t, "A", b.high[0].ID)
	assert.Equal(t, "B", b.high[1].ID)
	assert.Equal(t, "C", b.bestEffort[0].ID)
	assert.Equal(t, "D", b.bestEffort[1].ID)
}

func TestTriageCandidates_Empty(t *testing.T) {
	b := triageCandidates(candidateSet(0.5, 0.3), 0.85, 0.70)
	assert.True(t, b.empty())

	b = triageCandidates(nil, 0.85, 0.70)
	assert.True(t, b.empty())
}

func TestBands_FastPath(t *testing.T) {
	t.Run("single high not strict", func(t *testing.T) {
		b := triageCandidates(candidateSet(0.90, 0.75), 0.85, 0.70)

		candidate, ok := b.fastPath(false)
		assert.True(t, ok)
		assert.Equal(t, "A", candidate.ID)
	})

	t.Run("strict disables fast path", func(t *testing.T) {
		b := triageCandidates(candidateSet(0.90), 0.85, 0.70)

		_, ok := b.fastPath(true)
		assert.False(t, ok)
	})

	t.Run("two high members", func(t *testing.T) {
		b := triageCandidates(candidateSet(0.90, 0.88), 0.85, 0.70)

		_, ok := b.fastPath(false)
		assert.False(t, ok)
	})

	t.Run("best effort only", func(t *testing.T) {
		b := triageCandidates(candidateSet(0.75), 0.85, 0.70)

		_, ok := b.fastPath(false)
		assert.False(t, ok)
	})
}

func TestBands_ArbitrationSet(t *testing.T) {
	t.Run("multiple high drops best effort", func(t *testing.T) {
		b := triageCandidates(candidateSet(0.90, 0.88, 0.75), 0.85, 0.70)

		set := b.arbitrationSet(false)
		assert.Len(t, set, 2)
		assert.Equal(t, "A", set[0].ID)
		assert.Equal(t, "B", set[1].ID)
	})

	t.Run("strict takes both bands", func(t *testing.T) {
		b := triageCandidates(candidateSet(0.90, 0.88, 0.75), 0.85, 0.70)

		set := b.arbitrationSet(true)
		assert.Len(t, set, 3)
	})

	t.Run("single high with best effort takes union", func(t *testing.T) {
		b := triageCandidates(candidateSet(0.90, 0.75, 0.72), 0.85, 0.70)

		set := b.arbitrationSet(false)
		assert.Len(t, set, 3)
	})

	t.Run("best effort only", func(t *testing.T) {
		b := triageCandidates(candidateSet(0.75, 0.72), 0.85, 0.70)

		set := b.arbitrationSet(false)
		assert.Len(t, set, 2)
	})
}
