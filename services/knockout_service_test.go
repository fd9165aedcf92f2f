package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKnockoutFixture(t *testing.T, teamCount int) (KnockoutService, *models.Tournament) {
	t.Helper()
	ctx := context.Background()
	tournamentRepo := repositories.NewInMemoryTournamentRepository()
	rosterRepo := repositories.NewInMemoryRosterRepository()
	svc := NewKnockoutService(tournamentRepo, rosterRepo, nil, testLogger())

	teamIDs := make([]string, 0, teamCount)
	for i := 1; i <= teamCount; i++ {
		id := fmt.Sprintf("k%d", i)
		seedRosterTeam(t, rosterRepo, id, 0, 0)
		teamIDs = append(teamIDs, id)
	}

	tournament, err := svc.CreateTournament(ctx, KnockoutDraft{
		Name:    "Test Cup",
		TeamIDs: teamIDs,
	})
	require.NoError(t, err)
	return svc, tournament
}

func TestKnockoutCreateValidation(t *testing.T) {
	ctx := context.Background()
	tournamentRepo := repositories.NewInMemoryTournamentRepository()
	rosterRepo := repositories.NewInMemoryRosterRepository()
	svc := NewKnockoutService(tournamentRepo, rosterRepo, nil, testLogger())
	for i := 1; i <= 6; i++ {
		seedRosterTeam(t, rosterRepo, fmt.Sprintf("k%d", i), 0, 0)
	}

	tests := []struct {
		name    string
		teamIDs []string
		wantErr error
	}{
		{"too few", []string{"k1"}, ErrInvalidTeamCount},
		{"not a power of two", []string{"k1", "k2", "k3", "k4", "k5", "k6"}, ErrInvalidTeamCount},
		{"duplicate", []string{"k1", "k1"}, ErrDuplicateTeam},
		{"unknown team", []string{"k1", "ghost"}, ErrTeamNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTournament(ctx, KnockoutDraft{Name: "x", TeamIDs: tt.teamIDs})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.CreateTournament(ctx, KnockoutDraft{TeamIDs: []string{"k1", "k2"}})
	assert.ErrorIs(t, err, ErrTournamentNameRequired)
}

func TestKnockoutBracketGeneration(t *testing.T) {
	svc, tournament := newKnockoutFixture(t, 8)
	ctx := context.Background()

	assert.Equal(t, models.StatusDraft, tournament.Status)
	assert.Equal(t, 3, tournament.TotalRounds)
	assert.Empty(t, tournament.Fixtures)

	generated, err := svc.GenerateBracket(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, generated.Status)
	assert.Equal(t, 1, generated.CurrentRound)
	assert.Len(t, generated.Fixtures, 7)

	// Generating twice is rejected: the tournament left draft status.
	_, err = svc.GenerateBracket(ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrTournamentNotDraft)

	bracket, err := svc.GetBracket(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, bracket, 3)
	assert.Len(t, bracket[0].Fixtures, 4)
	assert.Len(t, bracket[1].Fixtures, 2)
	assert.Len(t, bracket[2].Fixtures, 1)
	assert.Equal(t, models.StageFinal, bracket[2].Stage)
}

func TestKnockoutFullRun(t *testing.T) {
	svc, created := newKnockoutFixture(t, 8)
	ctx := context.Background()
	id := created.ID

	tournament, err := svc.GenerateBracket(ctx, id)
	require.NoError(t, err)

	// Submitting a later-round fixture with empty slots is rejected.
	semis := tournament.FixturesInRound(2)
	_, err = svc.SubmitMatchResult(ctx, id, semis[0].ID, 1, 0, nil)
	assert.ErrorIs(t, err, ErrFixtureNotReady)

	// Quarterfinals: home side wins every match 1-0.
	for _, fx := range tournament.FixturesInRound(1) {
		tournament, err = svc.SubmitMatchResult(ctx, id, fx.ID, 1, 0, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, tournament.CurrentRound)

	// Winners landed in the right semifinal slots, in feeder order.
	quarters := tournament.FixturesInRound(1)
	semis = tournament.FixturesInRound(2)
	require.NotNil(t, semis[0].HomeTeamID)
	assert.Equal(t, *quarters[0].WinnerID, *semis[0].HomeTeamID)
	assert.Equal(t, *quarters[1].WinnerID, *semis[0].AwayTeamID)
	assert.Equal(t, *quarters[2].WinnerID, *semis[1].HomeTeamID)
	assert.Equal(t, *quarters[3].WinnerID, *semis[1].AwayTeamID)
	assert.NotEqual(t, models.TBDName, semis[0].HomeTeamName)

	// Each quarterfinal loser is eliminated.
	eliminated := 0
	for _, team := range tournament.Teams {
		if team.Status == models.KnockoutEliminated {
			eliminated++
		}
	}
	assert.Equal(t, 4, eliminated)

	// A completed fixture cannot be resubmitted.
	_, err = svc.SubmitMatchResult(ctx, id, quarters[0].ID, 3, 0, nil)
	assert.ErrorIs(t, err, ErrFixtureAlreadyCompleted)

	// Semifinals.
	for _, fx := range tournament.FixturesInRound(2) {
		tournament, err = svc.SubmitMatchResult(ctx, id, fx.ID, 0, 2, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, tournament.CurrentRound)

	// Final.
	final := tournament.FixturesInRound(3)[0]
	tournament, err = svc.SubmitMatchResult(ctx, id, final.ID, 2, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, tournament.Status)
	require.NotNil(t, tournament.WinnerID)
	champion := tournament.TeamByID(*tournament.WinnerID)
	require.NotNil(t, champion)
	assert.Equal(t, models.KnockoutWinner, champion.Status)
	require.NotNil(t, tournament.WinnerName)
	assert.Equal(t, champion.TeamName, *tournament.WinnerName)

	// No result is accepted once the tournament completed.
	_, err = svc.SubmitMatchResult(ctx, id, final.ID, 9, 9, nil)
	assert.ErrorIs(t, err, ErrTournamentNotActive)
}

func TestKnockoutTieBreak(t *testing.T) {
	svc, created := newKnockoutFixture(t, 2)
	ctx := context.Background()
	id := created.ID

	tournament, err := svc.GenerateBracket(ctx, id)
	require.NoError(t, err)
	final := tournament.FixturesInRound(1)[0]
	awayID := *final.AwayTeamID

	kick := func(teamID string, scored bool) models.MatchEvent {
		return models.MatchEvent{
			TeamID:   teamID,
			Type:     models.EventPenaltyShootout,
			Shootout: &models.PenaltyShootoutDetail{Scored: scored},
		}
	}
	events := []models.MatchEvent{
		kick(*final.HomeTeamID, false),
		kick(awayID, true),
		kick(*final.HomeTeamID, true),
		kick(awayID, true),
	}

	tournament, err = svc.SubmitMatchResult(ctx, id, final.ID, 1, 1, events)
	require.NoError(t, err)

	// The shootout tally decides a level score.
	require.NotNil(t, tournament.WinnerID)
	assert.Equal(t, awayID, *tournament.WinnerID)
}

func TestKnockoutTieWithoutShootoutFavorsHome(t *testing.T) {
	svc, created := newKnockoutFixture(t, 2)
	ctx := context.Background()
	id := created.ID

	tournament, err := svc.GenerateBracket(ctx, id)
	require.NoError(t, err)
	final := tournament.FixturesInRound(1)[0]
	homeID := *final.HomeTeamID

	tournament, err = svc.SubmitMatchResult(ctx, id, final.ID, 2, 2, nil)
	require.NoError(t, err)
	require.NotNil(t, tournament.WinnerID)
	assert.Equal(t, homeID, *tournament.WinnerID)
}
