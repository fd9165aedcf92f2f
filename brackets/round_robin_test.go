package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leagueParams(matchesPerPair int, tableSizes ...int) GenerateParams {
	tournament := &models.Tournament{
		ID: "t1",
		Settings: models.Settings{
			Format:         models.FormatLeague,
			MatchesPerPair: matchesPerPair,
		},
	}
	var teams []models.TournamentTeam
	for ti, size := range tableSizes {
		table := models.Table{ID: fmt.Sprintf("table%d", ti+1), Name: fmt.Sprintf("Group %d", ti+1)}
		for i := 0; i < size; i++ {
			teamID := fmt.Sprintf("%s-team%d", table.ID, i+1)
			tableID := table.ID
			teams = append(teams, models.TournamentTeam{
				ID:       teamID,
				TeamName: teamID,
				TableID:  &tableID,
			})
			table.TeamIDs = append(table.TeamIDs, teamID)
		}
		tournament.Tables = append(tournament.Tables, table)
	}
	return GenerateParams{Tournament: tournament, Teams: teams}
}

func pairKey(f models.Fixture) string {
	a, b := *f.HomeTeamID, *f.AwayTeamID
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func TestRoundRobinSingleLegEveryPairOnce(t *testing.T) {
	g := NewRoundRobinGenerator()

	fixtures, err := g.GenerateFixtures(context.Background(), leagueParams(1, 4))
	require.NoError(t, err)
	require.Len(t, fixtures, 6) // 4 choose 2

	pairs := make(map[string]int)
	for _, f := range fixtures {
		assert.Equal(t, 1, f.Round)
		assert.Equal(t, models.StageGroup, f.Stage)
		assert.Equal(t, models.FixtureUpcoming, f.Status)
		require.NotNil(t, f.TableID)
		pairs[pairKey(f)]++
	}
	assert.Len(t, pairs, 6)
	for pair, count := range pairs {
		assert.Equal(t, 1, count, "pair %s scheduled more than once", pair)
	}
}

func TestRoundRobinTwoLegsReversesHomeAndAway(t *testing.T) {
	g := NewRoundRobinGenerator()

	fixtures, err := g.GenerateFixtures(context.Background(), leagueParams(2, 3))
	require.NoError(t, err)
	require.Len(t, fixtures, 6) // 3 pairs, two legs each

	firstLegHome := make(map[string]string)
	for _, f := range fixtures {
		if f.Round == 1 {
			firstLegHome[pairKey(f)] = *f.HomeTeamID
		}
	}
	for _, f := range fixtures {
		if f.Round == 2 {
			assert.Equal(t, firstLegHome[pairKey(f)], *f.AwayTeamID,
				"second leg must swap home and away")
		}
	}
}

func TestRoundRobinMultipleTables(t *testing.T) {
	g := NewRoundRobinGenerator()

	fixtures, err := g.GenerateFixtures(context.Background(), leagueParams(1, 4, 3))
	require.NoError(t, err)
	assert.Len(t, fixtures, 6+3)

	// No fixture crosses table boundaries.
	for _, f := range fixtures {
		homeTable := (*f.HomeTeamID)[:6]
		awayTable := (*f.AwayTeamID)[:6]
		assert.Equal(t, homeTable, awayTable)
	}

	// Match numbers are sequential and unique.
	seen := make(map[int]bool)
	for _, f := range fixtures {
		assert.False(t, seen[f.MatchNumber])
		seen[f.MatchNumber] = true
	}
}

func TestRoundRobinSkipsUndersizedTables(t *testing.T) {
	g := NewRoundRobinGenerator()

	fixtures, err := g.GenerateFixtures(context.Background(), leagueParams(1, 1, 2))
	require.NoError(t, err)
	assert.Len(t, fixtures, 1)
}

func TestRoundRobinRejectsInvalidLegCount(t *testing.T) {
	g := NewRoundRobinGenerator()

	_, err := g.GenerateFixtures(context.Background(), leagueParams(3, 4))
	assert.Error(t, err)
}
