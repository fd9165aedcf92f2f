package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
	"time"

	"github.com/Dosada05/matchday-engine/brackets"
	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/rs/xid"
)

type KnockoutDraft struct {
	Name string `json:"name"`
	// TeamIDs reference the external roster, in seeding order. Round 1
	// pairs them as (1,2), (3,4), and so on.
	TeamIDs  []string        `json:"team_ids"`
	Settings models.Settings `json:"settings"`
}

// BracketRound is one column of the bracket view.
type BracketRound struct {
	Round    int              `json:"round"`
	Stage    models.Stage     `json:"stage"`
	Fixtures []models.Fixture `json:"fixtures"`
}

type KnockoutService interface {
	CreateTournament(ctx context.Context, draft KnockoutDraft) (*models.Tournament, error)
	GenerateBracket(ctx context.Context, id string) (*models.Tournament, error)
	CancelTournament(ctx context.Context, id string) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]*models.Tournament, error)
	GetBracket(ctx context.Context, id string) ([]BracketRound, error)

	SubmitMatchResult(ctx context.Context, tournamentID, fixtureID string, homeScore, awayScore int, events []models.MatchEvent) (*models.Tournament, error)

	ResultSink
}

type knockoutService struct {
	tournamentRepo repositories.TournamentRepository
	roster         models.RosterAccessor
	generator      brackets.FixtureGenerator
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewKnockoutService(
	tournamentRepo repositories.TournamentRepository,
	roster models.RosterAccessor,
	hub *brackets.Hub,
	logger *slog.Logger,
) KnockoutService {
	return &knockoutService{
		tournamentRepo: tournamentRepo,
		roster:         roster,
		generator:      brackets.NewSingleEliminationGenerator(),
		hub:            hub,
		logger:         logger,
	}
}

// CreateTournament validates the draft and wraps the selected roster teams.
// The team count is checked here, before any tournament state is built; the
// bracket itself is generated by a separate explicit call.
func (s *knockoutService) CreateTournament(ctx context.Context, draft KnockoutDraft) (*models.Tournament, error) {
	if draft.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	n := len(draft.TeamIDs)
	if n < 2 || n > 32 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTeamCount, n)
	}
	seen := make(map[string]bool)
	for _, teamID := range draft.TeamIDs {
		if seen[teamID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, teamID)
		}
		seen[teamID] = true
	}

	settings := draft.Settings
	settings.Format = models.FormatKnockout
	if settings.Points == (models.PointScheme{}) {
		settings.Points = models.DefaultPointScheme()
	}
	if settings.MatchDurationMinutes <= 0 {
		settings.MatchDurationMinutes = 90
	}

	tournament := &models.Tournament{
		ID:          xid.New().String(),
		Name:        draft.Name,
		Settings:    settings,
		Status:      models.StatusDraft,
		TotalRounds: bits.Len(uint(n)) - 1,
		CreatedAt:   time.Now(),
	}

	for i, teamID := range draft.TeamIDs {
		rosterTeam, err := s.roster.GetTeamByID(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
		}
		tournament.Teams = append(tournament.Teams, models.TournamentTeam{
			ID:       xid.New().String(),
			TeamID:   rosterTeam.ID,
			TeamName: rosterTeam.Name,
			Seed:     i + 1,
			Status:   models.KnockoutActive,
		})
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("knockout tournament created",
			slog.String("tournament_id", tournament.ID),
			slog.Int("teams", n),
			slog.Int("total_rounds", tournament.TotalRounds))
	}
	return tournament.Clone(), nil
}

// GenerateBracket builds the full single-elimination tree and activates the
// tournament. Later rounds start with TBD slots that winner promotion fills.
func (s *knockoutService) GenerateBracket(ctx context.Context, id string) (*models.Tournament, error) {
	updated, err := s.updateTournament(ctx, id, func(t *models.Tournament) error {
		if t.Status != models.StatusDraft {
			return ErrTournamentNotDraft
		}
		if len(t.Fixtures) > 0 {
			return ErrBracketAlreadyGenerated
		}
		fixtures, err := s.generator.GenerateFixtures(ctx, brackets.GenerateParams{
			Tournament: t,
			Teams:      t.Teams,
		})
		if err != nil {
			return fmt.Errorf("failed to generate bracket: %w", err)
		}
		t.Fixtures = fixtures
		t.Status = models.StatusActive
		t.CurrentRound = 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(id), brackets.WebSocketMessage{
			Type:    brackets.MessageBracketUpdated,
			Payload: updated,
			RoomID:  tournamentRoom(id),
		})
	}
	return updated, nil
}

func (s *knockoutService) CancelTournament(ctx context.Context, id string) (*models.Tournament, error) {
	return s.updateTournament(ctx, id, func(t *models.Tournament) error {
		if t.Status == models.StatusCompleted || t.Status == models.StatusCancelled {
			return ErrTournamentNotActive
		}
		t.Status = models.StatusCancelled
		return nil
	})
}

func (s *knockoutService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, ErrTournamentNotFound
	}
	return t, err
}

func (s *knockoutService) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	all, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if t.Settings.Format == models.FormatKnockout {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *knockoutService) GetBracket(ctx context.Context, id string) ([]BracketRound, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	rounds := make([]BracketRound, 0, t.TotalRounds)
	for r := 1; r <= t.TotalRounds; r++ {
		round := BracketRound{
			Round: r,
			Stage: brackets.StageForRound(r, t.TotalRounds),
		}
		for _, f := range t.Fixtures {
			if f.Round == r {
				round.Fixtures = append(round.Fixtures, f)
			}
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}

// SubmitMatchResult completes a bracket fixture and promotes the winner into
// its next-round slot. A level score is decided by the penalty shootout tally
// recorded in the ledger; with no shootout the home side advances, which is
// logged since it means the tie-break was never played.
func (s *knockoutService) SubmitMatchResult(ctx context.Context, tournamentID, fixtureID string, homeScore, awayScore int, events []models.MatchEvent) (*models.Tournament, error) {
	updated, err := s.updateTournament(ctx, tournamentID, func(t *models.Tournament) error {
		if t.Status != models.StatusActive {
			return ErrTournamentNotActive
		}
		fixture := t.FixtureByID(fixtureID)
		if fixture == nil {
			return ErrFixtureNotFound
		}
		if fixture.Status == models.FixtureCompleted {
			return ErrFixtureAlreadyCompleted
		}
		if !fixture.Ready() {
			return ErrFixtureNotReady
		}

		winnerID, loserID := s.decideWinner(fixture, homeScore, awayScore, events)
		winner := t.TeamByID(winnerID)
		loser := t.TeamByID(loserID)
		if winner == nil || loser == nil {
			return ErrTeamNotFound
		}

		hs, as := homeScore, awayScore
		fixture.HomeScore = &hs
		fixture.AwayScore = &as
		fixture.Status = models.FixtureCompleted
		fixture.WinnerID = &winner.ID
		fixture.Events = models.CloneEvents(events)
		loser.Status = models.KnockoutEliminated

		if fixture.NextFixtureID == nil {
			// The final: no further fixture is touched.
			t.Status = models.StatusCompleted
			winner.Status = models.KnockoutWinner
			id := winner.ID
			name := winner.TeamName
			t.WinnerID = &id
			t.WinnerName = &name
			return nil
		}

		if err := promoteWinner(t, fixture, winner); err != nil {
			return err
		}

		if roundCompleted(t, fixture.Round) && fixture.Round == t.CurrentRound {
			t.CurrentRound = fixture.Round + 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), brackets.WebSocketMessage{
			Type:    brackets.MessageBracketUpdated,
			Payload: updated,
			RoomID:  tournamentRoom(tournamentID),
		})
	}
	return updated, nil
}

func (s *knockoutService) decideWinner(fixture *models.Fixture, homeScore, awayScore int, events []models.MatchEvent) (winnerID, loserID string) {
	home := *fixture.HomeTeamID
	away := *fixture.AwayTeamID
	switch {
	case homeScore > awayScore:
		return home, away
	case awayScore > homeScore:
		return away, home
	}

	shootoutHome, shootoutAway, taken := ShootoutScore(events, home)
	if taken && shootoutHome != shootoutAway {
		if shootoutHome > shootoutAway {
			return home, away
		}
		return away, home
	}

	if s.logger != nil {
		s.logger.Warn("level fixture decided without a shootout result, home side advances",
			slog.String("fixture_id", fixture.ID))
	}
	return home, away
}

// promoteWinner writes the winner into the next-round fixture slot derived
// from this fixture's position in its round: feeder i fills fixture i/2,
// home slot for even i, away for odd. A slot is populated exactly once.
func promoteWinner(t *models.Tournament, fixture *models.Fixture, winner *models.TournamentTeam) error {
	next := t.FixtureByID(*fixture.NextFixtureID)
	if next == nil {
		return fmt.Errorf("next fixture %s missing for fixture %s", *fixture.NextFixtureID, fixture.ID)
	}

	index := -1
	for i, f := range t.FixturesInRound(fixture.Round) {
		if f.ID == fixture.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("fixture %s not found in round %d", fixture.ID, fixture.Round)
	}

	_, homeSlot := brackets.PromotionSlot(index)
	if homeSlot {
		if next.HomeTeamID != nil {
			return fmt.Errorf("home slot of fixture %s already populated", next.ID)
		}
		id := winner.ID
		next.HomeTeamID = &id
		next.HomeTeamName = winner.TeamName
	} else {
		if next.AwayTeamID != nil {
			return fmt.Errorf("away slot of fixture %s already populated", next.ID)
		}
		id := winner.ID
		next.AwayTeamID = &id
		next.AwayTeamName = winner.TeamName
	}
	return nil
}

func roundCompleted(t *models.Tournament, round int) bool {
	for _, f := range t.Fixtures {
		if f.Round == round && f.Status != models.FixtureCompleted {
			return false
		}
	}
	return true
}

func (s *knockoutService) updateTournament(ctx context.Context, id string, fn func(*models.Tournament) error) (*models.Tournament, error) {
	updated, err := s.tournamentRepo.UpdateFunc(ctx, id, fn)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, ErrTournamentNotFound
	}
	return updated, err
}
