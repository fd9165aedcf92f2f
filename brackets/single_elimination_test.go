package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knockoutParams(n int) GenerateParams {
	tournament := &models.Tournament{
		ID:       "t1",
		Settings: models.Settings{Format: models.FormatKnockout},
	}
	teams := make([]models.TournamentTeam, n)
	for i := range teams {
		teams[i] = models.TournamentTeam{
			ID:       fmt.Sprintf("team%d", i+1),
			TeamName: fmt.Sprintf("Team %d", i+1),
			Seed:     i + 1,
		}
	}
	return GenerateParams{Tournament: tournament, Teams: teams}
}

func TestSingleEliminationTreeShape(t *testing.T) {
	g := NewSingleEliminationGenerator()

	fixtures, err := g.GenerateFixtures(context.Background(), knockoutParams(8))
	require.NoError(t, err)
	require.Len(t, fixtures, 7)

	byRound := make(map[int][]models.Fixture)
	for _, f := range fixtures {
		byRound[f.Round] = append(byRound[f.Round], f)
	}
	assert.Len(t, byRound[1], 4)
	assert.Len(t, byRound[2], 2)
	assert.Len(t, byRound[3], 1)

	for _, f := range byRound[1] {
		assert.Equal(t, models.StageQuarterFinal, f.Stage)
	}
	for _, f := range byRound[2] {
		assert.Equal(t, models.StageSemiFinal, f.Stage)
	}
	assert.Equal(t, models.StageFinal, byRound[3][0].Stage)
}

func TestSingleEliminationFirstRoundPairsInputOrder(t *testing.T) {
	g := NewSingleEliminationGenerator()

	fixtures, err := g.GenerateFixtures(context.Background(), knockoutParams(4))
	require.NoError(t, err)

	round1 := fixtures[:2]
	assert.Equal(t, "team1", *round1[0].HomeTeamID)
	assert.Equal(t, "team2", *round1[0].AwayTeamID)
	assert.Equal(t, "team3", *round1[1].HomeTeamID)
	assert.Equal(t, "team4", *round1[1].AwayTeamID)
}

func TestSingleEliminationLaterRoundsStartAsTBD(t *testing.T) {
	g := NewSingleEliminationGenerator()

	fixtures, err := g.GenerateFixtures(context.Background(), knockoutParams(8))
	require.NoError(t, err)

	for _, f := range fixtures {
		if f.Round == 1 {
			continue
		}
		assert.Nil(t, f.HomeTeamID)
		assert.Nil(t, f.AwayTeamID)
		assert.Equal(t, models.TBDName, f.HomeTeamName)
		assert.Equal(t, models.TBDName, f.AwayTeamName)
	}
}

func TestSingleEliminationPromotionLinks(t *testing.T) {
	g := NewSingleEliminationGenerator()

	fixtures, err := g.GenerateFixtures(context.Background(), knockoutParams(8))
	require.NoError(t, err)

	byID := make(map[string]models.Fixture)
	for _, f := range fixtures {
		byID[f.ID] = f
	}

	feeders := make(map[string]int)
	for _, f := range fixtures {
		if f.Round == 3 {
			assert.Nil(t, f.NextFixtureID, "the final feeds nothing")
			continue
		}
		require.NotNil(t, f.NextFixtureID)
		next, ok := byID[*f.NextFixtureID]
		require.True(t, ok)
		assert.Equal(t, f.Round+1, next.Round)
		feeders[next.ID]++
	}
	for id, count := range feeders {
		assert.Equal(t, 2, count, "fixture %s must have exactly two feeders", id)
	}
}

func TestSingleEliminationRejectsBadTeamCounts(t *testing.T) {
	g := NewSingleEliminationGenerator()

	_, err := g.GenerateFixtures(context.Background(), knockoutParams(6))
	assert.ErrorIs(t, err, ErrTeamCountNotPowerOfTwo)

	_, err = g.GenerateFixtures(context.Background(), knockoutParams(1))
	assert.Error(t, err)
}

func TestPromotionSlot(t *testing.T) {
	tests := []struct {
		index     int
		nextIndex int
		homeSlot  bool
	}{
		{0, 0, true},
		{1, 0, false},
		{2, 1, true},
		{3, 1, false},
	}
	for _, tt := range tests {
		nextIndex, homeSlot := PromotionSlot(tt.index)
		assert.Equal(t, tt.nextIndex, nextIndex)
		assert.Equal(t, tt.homeSlot, homeSlot)
	}
}
