package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedRosterTeam stores a roster team with the given number of players. The
// players are named "<teamID>-p1" and so on.
func seedRosterTeam(t *testing.T, repo repositories.RosterRepository, teamID string, playerCount, maxPlayers int) []string {
	t.Helper()
	ctx := context.Background()

	playerIDs := make([]string, 0, playerCount)
	for i := 1; i <= playerCount; i++ {
		playerID := fmt.Sprintf("%s-p%d", teamID, i)
		require.NoError(t, repo.SavePlayer(ctx, &models.RosterPlayer{
			ID:   playerID,
			Name: fmt.Sprintf("Player %s %d", teamID, i),
		}))
		playerIDs = append(playerIDs, playerID)
	}
	require.NoError(t, repo.SaveTeam(ctx, &models.RosterTeam{
		ID:         teamID,
		Name:       "Team " + teamID,
		PlayerIDs:  playerIDs,
		MaxPlayers: maxPlayers,
	}))
	return playerIDs
}

// tournamentTeamID maps an external roster team id to the tournament-scoped
// team id.
func tournamentTeamID(t *testing.T, tournament *models.Tournament, rosterTeamID string) string {
	t.Helper()
	for _, team := range tournament.Teams {
		if team.TeamID == rosterTeamID {
			return team.ID
		}
	}
	t.Fatalf("roster team %s not in tournament", rosterTeamID)
	return ""
}

// findFixture locates the fixture between two tournament team ids, in either
// home/away orientation.
func findFixture(t *testing.T, tournament *models.Tournament, teamA, teamB string) *models.Fixture {
	t.Helper()
	for i := range tournament.Fixtures {
		f := &tournament.Fixtures[i]
		if f.HomeTeamID == nil || f.AwayTeamID == nil {
			continue
		}
		if (*f.HomeTeamID == teamA && *f.AwayTeamID == teamB) ||
			(*f.HomeTeamID == teamB && *f.AwayTeamID == teamA) {
			return f
		}
	}
	t.Fatalf("no fixture between %s and %s", teamA, teamB)
	return nil
}
