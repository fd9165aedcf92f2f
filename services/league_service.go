package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/matchday-engine/brackets"
	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/rs/xid"
)

// TableDraft is one group of a league creation draft. TeamIDs reference the
// external roster.
type TableDraft struct {
	Name    string   `json:"name"`
	TeamIDs []string `json:"team_ids"`
}

type LeagueDraft struct {
	Name     string          `json:"name"`
	Tables   []TableDraft    `json:"tables"`
	Settings models.Settings `json:"settings"`
}

type LeagueService interface {
	CreateTournament(ctx context.Context, draft LeagueDraft) (*models.Tournament, error)
	StartTournament(ctx context.Context, id string) (*models.Tournament, error)
	CancelTournament(ctx context.Context, id string) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]*models.Tournament, error)

	SubmitMatchResult(ctx context.Context, tournamentID, fixtureID string, homeScore, awayScore int, events []models.MatchEvent) (*models.Tournament, error)

	GetTable(ctx context.Context, id, tableID string) ([]models.TournamentTeam, error)
	GetUpcomingFixtures(ctx context.Context, id string) ([]models.Fixture, error)
	GetCompletedFixtures(ctx context.Context, id string) ([]models.Fixture, error)
	GetAdvancingTeams(ctx context.Context, id string) ([]models.TournamentTeam, error)

	ResultSink
}

type leagueService struct {
	tournamentRepo repositories.TournamentRepository
	roster         models.RosterAccessor
	generator      brackets.FixtureGenerator
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewLeagueService(
	tournamentRepo repositories.TournamentRepository,
	roster models.RosterAccessor,
	hub *brackets.Hub,
	logger *slog.Logger,
) LeagueService {
	return &leagueService{
		tournamentRepo: tournamentRepo,
		roster:         roster,
		generator:      brackets.NewRoundRobinGenerator(),
		hub:            hub,
		logger:         logger,
	}
}

// CreateTournament validates the draft, wraps the selected roster teams into
// tournament-scoped teams and generates the full fixture list. The tournament
// starts in draft status; no results are accepted until it is started.
func (s *leagueService) CreateTournament(ctx context.Context, draft LeagueDraft) (*models.Tournament, error) {
	settings, err := normalizeLeagueSettings(draft.Settings)
	if err != nil {
		return nil, err
	}
	if draft.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if len(draft.Tables) == 0 {
		return nil, fmt.Errorf("%w: at least one table is required", ErrValidationFailed)
	}
	seen := make(map[string]bool)
	for _, table := range draft.Tables {
		if len(table.TeamIDs) < 2 {
			return nil, fmt.Errorf("%w: table %q has %d", ErrNotEnoughTeams, table.Name, len(table.TeamIDs))
		}
		for _, teamID := range table.TeamIDs {
			if seen[teamID] {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, teamID)
			}
			seen[teamID] = true
		}
	}

	tournament := &models.Tournament{
		ID:          xid.New().String(),
		Name:        draft.Name,
		Settings:    settings,
		Status:      models.StatusDraft,
		TotalRounds: settings.MatchesPerPair,
		CreatedAt:   time.Now(),
	}

	for _, tableDraft := range draft.Tables {
		table := models.Table{
			ID:   xid.New().String(),
			Name: tableDraft.Name,
		}
		for _, teamID := range tableDraft.TeamIDs {
			rosterTeam, err := s.roster.GetTeamByID(ctx, teamID)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
			}
			tableID := table.ID
			team := models.TournamentTeam{
				ID:       xid.New().String(),
				TeamID:   rosterTeam.ID,
				TeamName: rosterTeam.Name,
				TableID:  &tableID,
			}
			table.TeamIDs = append(table.TeamIDs, team.ID)
			tournament.Teams = append(tournament.Teams, team)
		}
		tournament.Tables = append(tournament.Tables, table)
	}

	fixtures, err := s.generator.GenerateFixtures(ctx, brackets.GenerateParams{
		Tournament: tournament,
		Teams:      tournament.Teams,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate league fixtures: %w", err)
	}
	tournament.Fixtures = fixtures

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("league tournament created",
			slog.String("tournament_id", tournament.ID),
			slog.Int("teams", len(tournament.Teams)),
			slog.Int("fixtures", len(tournament.Fixtures)))
	}
	return tournament.Clone(), nil
}

func (s *leagueService) StartTournament(ctx context.Context, id string) (*models.Tournament, error) {
	return s.updateTournament(ctx, id, func(t *models.Tournament) error {
		if t.Status != models.StatusDraft {
			return ErrTournamentNotDraft
		}
		t.Status = models.StatusActive
		t.CurrentRound = 1
		return nil
	})
}

func (s *leagueService) CancelTournament(ctx context.Context, id string) (*models.Tournament, error) {
	return s.updateTournament(ctx, id, func(t *models.Tournament) error {
		if t.Status == models.StatusCompleted || t.Status == models.StatusCancelled {
			return ErrTournamentNotActive
		}
		t.Status = models.StatusCancelled
		return nil
	})
}

func (s *leagueService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, ErrTournamentNotFound
	}
	return t, err
}

func (s *leagueService) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	all, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if t.Settings.Format == models.FormatLeague {
			out = append(out, t)
		}
	}
	return out, nil
}

// SubmitMatchResult marks the fixture completed and folds the score into both
// teams' cumulative stats. When the last fixture completes the tournament is
// closed and the team topping the standings is recorded as winner.
func (s *leagueService) SubmitMatchResult(ctx context.Context, tournamentID, fixtureID string, homeScore, awayScore int, events []models.MatchEvent) (*models.Tournament, error) {
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

		home := t.TeamByID(*fixture.HomeTeamID)
		away := t.TeamByID(*fixture.AwayTeamID)
		if home == nil || away == nil {
			return ErrTeamNotFound
		}

		hs, as := homeScore, awayScore
		fixture.HomeScore = &hs
		fixture.AwayScore = &as
		fixture.Status = models.FixtureCompleted
		fixture.Events = models.CloneEvents(events)

		home.ApplyResult(homeScore, awayScore, t.Settings.Points)
		away.ApplyResult(awayScore, homeScore, t.Settings.Points)

		if allFixturesCompleted(t) {
			t.Status = models.StatusCompleted
			standings := append([]models.TournamentTeam(nil), t.Teams...)
			SortStandings(standings)
			if len(standings) > 0 {
				winnerID := standings[0].ID
				winnerName := standings[0].TeamName
				t.WinnerID = &winnerID
				t.WinnerName = &winnerName
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), brackets.WebSocketMessage{
			Type:    brackets.MessageTableUpdated,
			Payload: updated,
			RoomID:  tournamentRoom(tournamentID),
		})
	}
	return updated, nil
}

// GetTable returns the group's teams in standings order: points, then goal
// difference, then goals scored, descending; stable beyond that.
func (s *leagueService) GetTable(ctx context.Context, id, tableID string) ([]models.TournamentTeam, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.TableByID(tableID) == nil {
		return nil, ErrTableNotFound
	}
	var teams []models.TournamentTeam
	for _, team := range t.Teams {
		if team.TableID != nil && *team.TableID == tableID {
			teams = append(teams, team)
		}
	}
	SortStandings(teams)
	return teams, nil
}

func (s *leagueService) GetUpcomingFixtures(ctx context.Context, id string) ([]models.Fixture, error) {
	return s.fixturesByStatus(ctx, id, models.FixtureUpcoming)
}

func (s *leagueService) GetCompletedFixtures(ctx context.Context, id string) ([]models.Fixture, error) {
	return s.fixturesByStatus(ctx, id, models.FixtureCompleted)
}

// GetAdvancingTeams returns the top-N teams of every table in standings
// order, the seed list for a follow-up knockout stage. Bracket generation
// from it stays a manual step.
func (s *leagueService) GetAdvancingTeams(ctx context.Context, id string) ([]models.TournamentTeam, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	n := t.Settings.AdvancingTeamsPerTable
	if n <= 0 {
		return nil, ErrAdvancementNotConfigured
	}
	var advancing []models.TournamentTeam
	for _, table := range t.Tables {
		teams, err := s.GetTable(ctx, id, table.ID)
		if err != nil {
			return nil, err
		}
		if n < len(teams) {
			teams = teams[:n]
		}
		advancing = append(advancing, teams...)
	}
	return advancing, nil
}

func (s *leagueService) fixturesByStatus(ctx context.Context, id string, status models.FixtureStatus) ([]models.Fixture, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	var out []models.Fixture
	for _, f := range t.Fixtures {
		if f.Status == status {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *leagueService) updateTournament(ctx context.Context, id string, fn func(*models.Tournament) error) (*models.Tournament, error) {
	updated, err := s.tournamentRepo.UpdateFunc(ctx, id, fn)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, ErrTournamentNotFound
	}
	return updated, err
}

func normalizeLeagueSettings(settings models.Settings) (models.Settings, error) {
	settings.Format = models.FormatLeague
	if settings.MatchesPerPair == 0 {
		settings.MatchesPerPair = 1
	}
	if settings.MatchesPerPair != 1 && settings.MatchesPerPair != 2 {
		return settings, ErrInvalidMatchesPerPair
	}
	if settings.Points == (models.PointScheme{}) {
		settings.Points = models.DefaultPointScheme()
	}
	if settings.Points.Win < settings.Points.Draw {
		return settings, ErrInvalidPointScheme
	}
	if settings.MatchDurationMinutes <= 0 {
		settings.MatchDurationMinutes = 90
	}
	if settings.MaxSubstitutions < 0 {
		return settings, fmt.Errorf("%w: negative substitution limit", ErrValidationFailed)
	}
	return settings, nil
}

// SortStandings orders teams by points, goal difference and goals scored,
// all descending. The sort is stable so equal teams keep their table order.
func SortStandings(teams []models.TournamentTeam) {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Points != teams[j].Points {
			return teams[i].Points > teams[j].Points
		}
		if teams[i].GoalDifference != teams[j].GoalDifference {
			return teams[i].GoalDifference > teams[j].GoalDifference
		}
		return teams[i].GoalsFor > teams[j].GoalsFor
	})
}

func allFixturesCompleted(t *models.Tournament) bool {
	for _, f := range t.Fixtures {
		if f.Status != models.FixtureCompleted {
			return false
		}
	}
	return len(t.Fixtures) > 0
}

func tournamentRoom(tournamentID string) string {
	return "tournament_" + tournamentID
}
