package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	sessions   SessionService
	clock      *time.Time
	league     LeagueService
	tournament *models.Tournament
	fixtureID  string
	homeTeam   string // tournament team id
	awayTeam   string
	homeRoster []string // player ids
	awayRoster []string
}

func (f *sessionFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

// newSessionFixture builds a started 2-team league with one fixture, a roster
// of 5 players per team, 2 players per side and a single-substitution limit.
func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	ctx := context.Background()

	tournamentRepo := repositories.NewInMemoryTournamentRepository()
	rosterRepo := repositories.NewInMemoryRosterRepository()
	homeRoster := seedRosterTeam(t, rosterRepo, "t1", 5, 4)
	awayRoster := seedRosterTeam(t, rosterRepo, "t2", 5, 4)

	league := NewLeagueService(tournamentRepo, rosterRepo, nil, testLogger())
	tournament, err := league.CreateTournament(ctx, LeagueDraft{
		Name:   "Session League",
		Tables: []TableDraft{{Name: "A", TeamIDs: []string{"t1", "t2"}}},
		Settings: models.Settings{
			PlayersPerSide:   2,
			MaxSubstitutions: 1,
			MatchesPerPair:   1,
		},
	})
	require.NoError(t, err)
	tournament, err = league.StartTournament(ctx, tournament.ID)
	require.NoError(t, err)

	sessions := NewSessionService(tournamentRepo, rosterRepo, nil, testLogger())
	sessions.RegisterResultSink(models.FormatLeague, league)

	clock := time.Date(2025, 5, 10, 15, 0, 0, 0, time.UTC)
	sessions.(*sessionService).now = func() time.Time { return clock }

	return &sessionFixture{
		sessions:   sessions,
		clock:      &clock,
		league:     league,
		tournament: tournament,
		fixtureID:  tournament.Fixtures[0].ID,
		homeTeam:   *tournament.Fixtures[0].HomeTeamID,
		awayTeam:   *tournament.Fixtures[0].AwayTeamID,
		homeRoster: homeRoster,
		awayRoster: awayRoster,
	}
}

func (f *sessionFixture) setLineups(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.sessions.UpdateMatchRoster(ctx, f.homeTeam, models.Lineup{
		Starters: f.homeRoster[:2],
		Bench:    f.homeRoster[2:4],
	})
	require.NoError(t, err)
	_, err = f.sessions.UpdateMatchRoster(ctx, f.awayTeam, models.Lineup{
		Starters: f.awayRoster[:2],
		Bench:    f.awayRoster[2:4],
	})
	require.NoError(t, err)
}

func (f *sessionFixture) start(t *testing.T) *models.MatchSession {
	t.Helper()
	ctx := context.Background()
	_, err := f.sessions.InitializeMatch(ctx, f.tournament.ID, f.fixtureID)
	require.NoError(t, err)
	f.setLineups(t)
	session, err := f.sessions.StartMatch(ctx)
	require.NoError(t, err)
	return session
}

func TestSessionLifecycleGuards(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.sessions.GetCurrentMatch(ctx)
	assert.ErrorIs(t, err, ErrNoActiveMatch)

	session, err := f.sessions.InitializeMatch(ctx, f.tournament.ID, f.fixtureID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionSetup, session.Status)
	assert.Equal(t, models.FormatLeague, session.Format)

	// Only one live match at a time.
	_, err = f.sessions.InitializeMatch(ctx, f.tournament.ID, f.fixtureID)
	assert.ErrorIs(t, err, ErrMatchAlreadyActive)

	// Kickoff needs both lineups.
	_, err = f.sessions.StartMatch(ctx)
	assert.ErrorIs(t, err, ErrLineupIncomplete)

	// Events only flow while playing.
	_, err = f.sessions.AddEvent(ctx, EventInput{TeamID: f.homeTeam, Type: models.EventGoal})
	assert.ErrorIs(t, err, ErrMatchNotPlaying)

	f.setLineups(t)
	session, err = f.sessions.StartMatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SessionPlaying, session.Status)

	// Roster changes are locked after kickoff.
	_, err = f.sessions.UpdateMatchRoster(ctx, f.homeTeam, models.Lineup{Starters: f.homeRoster[:2]})
	assert.ErrorIs(t, err, ErrMatchNotInSetup)

	// The fixture went in progress.
	reloaded, err := f.league.GetTournament(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FixtureInProgress, reloaded.Fixtures[0].Status)
}

func TestSessionRosterValidation(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.sessions.InitializeMatch(ctx, f.tournament.ID, f.fixtureID)
	require.NoError(t, err)

	// Unknown side.
	_, err = f.sessions.UpdateMatchRoster(ctx, "nobody", models.Lineup{Starters: f.homeRoster[:2]})
	assert.ErrorIs(t, err, ErrTeamNotInMatch)

	// Player from the wrong team.
	_, err = f.sessions.UpdateMatchRoster(ctx, f.homeTeam, models.Lineup{
		Starters: []string{f.homeRoster[0], f.awayRoster[0]},
	})
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	// Wrong starter count for the configured players per side.
	_, err = f.sessions.UpdateMatchRoster(ctx, f.homeTeam, models.Lineup{
		Starters: f.homeRoster[:3],
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	// Starters plus bench above the team's capacity of 4.
	_, err = f.sessions.UpdateMatchRoster(ctx, f.homeTeam, models.Lineup{
		Starters: f.homeRoster[:2],
		Bench:    f.homeRoster[2:5],
	})
	assert.ErrorIs(t, err, ErrRosterOverCapacity)

	// A player cannot appear twice.
	_, err = f.sessions.UpdateMatchRoster(ctx, f.homeTeam, models.Lineup{
		Starters: f.homeRoster[:2],
		Bench:    f.homeRoster[1:3],
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSessionClock(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.start(t)

	f.advance(10 * time.Minute)
	clock, err := f.sessions.GetCurrentMatchTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, clock.Minutes)
	assert.Equal(t, 0, clock.Seconds)

	// Paused time does not count.
	_, err = f.sessions.PauseMatch(ctx)
	require.NoError(t, err)
	f.advance(30 * time.Minute)
	clock, err = f.sessions.GetCurrentMatchTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, clock.Minutes)

	_, err = f.sessions.ResumeMatch(ctx)
	require.NoError(t, err)
	f.advance(5*time.Minute + 30*time.Second)
	clock, err = f.sessions.GetCurrentMatchTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, clock.Minutes)
	assert.Equal(t, 30, clock.Seconds)
}

func TestSessionScoreFromLedger(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.start(t)

	session, err := f.sessions.AddEvent(ctx, EventInput{
		TeamID:   f.homeTeam,
		Type:     models.EventGoal,
		PlayerID: f.homeRoster[0],
		Minute:   12,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, session.HomeScore)
	assert.Equal(t, 0, session.AwayScore)

	// An own goal by the away side counts for home.
	session, err = f.sessions.AddEvent(ctx, EventInput{
		TeamID:   f.awayTeam,
		Type:     models.EventGoal,
		PlayerID: f.awayRoster[0],
		Minute:   30,
		OwnGoal:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, session.HomeScore)
	assert.Equal(t, 0, session.AwayScore)

	_, err = f.sessions.AddEvent(ctx, EventInput{TeamID: "nobody", Type: models.EventGoal})
	assert.ErrorIs(t, err, ErrTeamNotInMatch)

	// Editing the own goal into a regular away goal re-derives the score.
	ownGoalID := session.Events[1].ID
	session, err = f.sessions.UpdateEvent(ctx, ownGoalID, EventInput{
		TeamID:   f.awayTeam,
		Type:     models.EventGoal,
		PlayerID: f.awayRoster[0],
		Minute:   30,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, session.HomeScore)
	assert.Equal(t, 1, session.AwayScore)

	// Removing the first goal re-derives again.
	session, err = f.sessions.RemoveEvent(ctx, session.Events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, session.HomeScore)
	assert.Equal(t, 1, session.AwayScore)

	_, err = f.sessions.RemoveEvent(ctx, "no-such-event")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestSessionSubstitutions(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.start(t)

	// Outgoing player must be on the pitch.
	_, err := f.sessions.AddEvent(ctx, EventInput{
		TeamID:     f.homeTeam,
		Type:       models.EventSubstitution,
		PlayerID:   f.homeRoster[3], // bench player
		InPlayerID: f.homeRoster[2],
		Minute:     50,
	})
	assert.ErrorIs(t, err, ErrInvalidSubstitution)

	session, err := f.sessions.AddEvent(ctx, EventInput{
		TeamID:     f.homeTeam,
		Type:       models.EventSubstitution,
		PlayerID:   f.homeRoster[0],
		InPlayerID: f.homeRoster[2],
		Minute:     55,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, session.HomeSubsUsed)

	active, bench, err := f.sessions.GetActiveRoster(ctx, f.homeTeam)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.homeRoster[1], f.homeRoster[2]}, active)
	assert.ElementsMatch(t, []string{f.homeRoster[0], f.homeRoster[3]}, bench)

	// The single-substitution limit is enforced before mutation.
	_, err = f.sessions.AddEvent(ctx, EventInput{
		TeamID:     f.homeTeam,
		Type:       models.EventSubstitution,
		PlayerID:   f.homeRoster[1],
		InPlayerID: f.homeRoster[3],
		Minute:     70,
	})
	assert.ErrorIs(t, err, ErrSubstitutionLimitReached)

	// The away side has its own counter.
	session, err = f.sessions.AddEvent(ctx, EventInput{
		TeamID:     f.awayTeam,
		Type:       models.EventSubstitution,
		PlayerID:   f.awayRoster[0],
		InPlayerID: f.awayRoster[2],
		Minute:     72,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, session.AwaySubsUsed)
	assert.Equal(t, 1, session.HomeSubsUsed)
}

func TestSessionEndMatchFeedsLeague(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.start(t)

	_, err := f.sessions.AddEvent(ctx, EventInput{
		TeamID:   f.homeTeam,
		Type:     models.EventGoal,
		PlayerID: f.homeRoster[0],
		Minute:   20,
	})
	require.NoError(t, err)

	f.advance(90 * time.Minute)
	completed, err := f.sessions.EndMatch(ctx, "full time")
	require.NoError(t, err)

	assert.Equal(t, 1, completed.HomeScore)
	assert.Equal(t, 0, completed.AwayScore)
	assert.Equal(t, 90*time.Minute, completed.Duration)
	assert.Equal(t, "full time", completed.Notes)
	require.Len(t, completed.TeamStats, 2)
	assert.Equal(t, 1, completed.TeamStats[0].Goals)
	require.NotEmpty(t, completed.PlayerStats)
	assert.Equal(t, 1, completed.PlayerStats[0].Goals)

	// The session is gone.
	_, err = f.sessions.GetCurrentMatch(ctx)
	assert.ErrorIs(t, err, ErrNoActiveMatch)

	// The league absorbed the result; the only fixture completing closes it.
	reloaded, err := f.league.GetTournament(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, reloaded.Status)
	assert.Equal(t, models.FixtureCompleted, reloaded.Fixtures[0].Status)
	require.NotNil(t, reloaded.WinnerID)
	assert.Equal(t, f.homeTeam, *reloaded.WinnerID)
	winner := reloaded.TeamByID(f.homeTeam)
	assert.Equal(t, 3, winner.Points)
	assert.Equal(t, 1, winner.Won)
}

func TestSessionAbandon(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	f.start(t)

	session, err := f.sessions.AbandonMatch(ctx, "floodlight failure")
	require.NoError(t, err)
	assert.Equal(t, models.SessionAbandoned, session.Status)
	require.NotNil(t, session.AbandonReason)
	assert.Equal(t, "floodlight failure", *session.AbandonReason)

	// No result reached the league and the fixture is playable again.
	reloaded, err := f.league.GetTournament(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, reloaded.Status)
	assert.Equal(t, models.FixtureUpcoming, reloaded.Fixtures[0].Status)
	for _, team := range reloaded.Teams {
		assert.Zero(t, team.Played)
	}

	// A new session can start for the same fixture.
	_, err = f.sessions.InitializeMatch(ctx, f.tournament.ID, f.fixtureID)
	require.NoError(t, err)
}
