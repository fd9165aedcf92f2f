package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/matchday-engine/brackets"
	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/rs/xid"
)

// EventInput is the request shape for recording or editing a ledger entry.
// Type selects which of the optional fields are read: OwnGoal and
// AssistPlayerID for goals, CardSeverity for cards, InPlayerID for
// substitutions (PlayerID is the outgoing player), ShootoutScored for
// penalty shootout kicks.
type EventInput struct {
	TeamID   string           `json:"team_id"`
	Type     models.EventType `json:"type"`
	PlayerID string           `json:"player_id"`

	Minute    int  `json:"minute"`
	Seconds   int  `json:"seconds"`
	ExtraTime bool `json:"extra_time"`

	OwnGoal        bool                `json:"own_goal,omitempty"`
	AssistPlayerID *string             `json:"assist_player_id,omitempty"`
	CardSeverity   models.CardSeverity `json:"card_severity,omitempty"`
	InPlayerID     string              `json:"in_player_id,omitempty"`
	ShootoutScored bool                `json:"shootout_scored,omitempty"`
}

type SessionService interface {
	InitializeMatch(ctx context.Context, tournamentID, fixtureID string) (*models.MatchSession, error)
	UpdateMatchRoster(ctx context.Context, teamID string, lineup models.Lineup) (*models.MatchSession, error)
	StartMatch(ctx context.Context) (*models.MatchSession, error)
	PauseMatch(ctx context.Context) (*models.MatchSession, error)
	ResumeMatch(ctx context.Context) (*models.MatchSession, error)

	AddEvent(ctx context.Context, input EventInput) (*models.MatchSession, error)
	UpdateEvent(ctx context.Context, eventID string, input EventInput) (*models.MatchSession, error)
	RemoveEvent(ctx context.Context, eventID string) (*models.MatchSession, error)

	GetCurrentMatch(ctx context.Context) (*models.MatchSession, error)
	GetCurrentMatchTime(ctx context.Context) (*models.MatchClock, error)
	GetActiveRoster(ctx context.Context, teamID string) (active, bench []string, err error)

	EndMatch(ctx context.Context, notes string) (*models.CompletedMatch, error)
	AbandonMatch(ctx context.Context, reason string) (*models.MatchSession, error)

	RestoreSession(ctx context.Context, session *models.MatchSession) error
	RegisterResultSink(format models.TournamentFormat, sink ResultSink)
}

// sessionService holds at most one live match. All operations work on that
// single session under the mutex; a second InitializeMatch while one is live
// is rejected.
type sessionService struct {
	mu       sync.Mutex
	active   *models.MatchSession
	settings models.Settings

	tournamentRepo repositories.TournamentRepository
	roster         models.RosterAccessor
	sinks          map[models.TournamentFormat]ResultSink
	hub            *brackets.Hub
	logger         *slog.Logger

	now func() time.Time
}

func NewSessionService(
	tournamentRepo repositories.TournamentRepository,
	roster models.RosterAccessor,
	hub *brackets.Hub,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		tournamentRepo: tournamentRepo,
		roster:         roster,
		sinks:          make(map[models.TournamentFormat]ResultSink),
		hub:            hub,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *sessionService) RegisterResultSink(format models.TournamentFormat, sink ResultSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks[format] = sink
}

// InitializeMatch opens a live session for a ready fixture of an active
// tournament. The session starts in setup; lineups are filled in before
// kickoff.
func (s *sessionService) InitializeMatch(ctx context.Context, tournamentID, fixtureID string) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && s.active.Status != models.SessionFinished && s.active.Status != models.SessionAbandoned {
		return nil, ErrMatchAlreadyActive
	}

	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, ErrTournamentNotFound
	}
	if t.Status != models.StatusActive {
		return nil, ErrTournamentNotActive
	}
	fixture := t.FixtureByID(fixtureID)
	if fixture == nil {
		return nil, ErrFixtureNotFound
	}
	if fixture.Status == models.FixtureCompleted {
		return nil, ErrFixtureAlreadyCompleted
	}
	if !fixture.Ready() {
		return nil, ErrFixtureNotReady
	}

	session := &models.MatchSession{
		ID:           xid.New().String(),
		TournamentID: tournamentID,
		FixtureID:    fixtureID,
		Format:       t.Settings.Format,
		HomeTeamID:   *fixture.HomeTeamID,
		AwayTeamID:   *fixture.AwayTeamID,
		Status:       models.SessionSetup,
		CreatedAt:    s.now(),
	}
	s.active = session
	s.settings = t.Settings

	if s.logger != nil {
		s.logger.Info("match session initialized",
			slog.String("session_id", session.ID),
			slog.String("tournament_id", tournamentID),
			slog.String("fixture_id", fixtureID))
	}
	return session.Clone(), nil
}

// UpdateMatchRoster replaces one side's starting lineup and bench during
// setup. Every player must belong to the side's roster team, the starters
// must match the configured players-per-side, and the combined lineup must
// fit within the team's player capacity.
func (s *sessionService) UpdateMatchRoster(ctx context.Context, teamID string, lineup models.Lineup) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionSetup {
		return nil, ErrMatchNotInSetup
	}
	if teamID != session.HomeTeamID && teamID != session.AwayTeamID {
		return nil, ErrTeamNotInMatch
	}

	rosterTeam, err := s.rosterTeamFor(ctx, session, teamID)
	if err != nil {
		return nil, err
	}

	if n := s.settings.PlayersPerSide; n > 0 && len(lineup.Starters) != n {
		return nil, fmt.Errorf("%w: expected %d starters, got %d", ErrValidationFailed, n, len(lineup.Starters))
	}
	total := len(lineup.Starters) + len(lineup.Bench)
	if rosterTeam.MaxPlayers > 0 && total > rosterTeam.MaxPlayers {
		return nil, fmt.Errorf("%w: %d players against a capacity of %d", ErrRosterOverCapacity, total, rosterTeam.MaxPlayers)
	}

	members := make(map[string]bool, len(rosterTeam.PlayerIDs))
	for _, id := range rosterTeam.PlayerIDs {
		members[id] = true
	}
	seen := make(map[string]bool, total)
	for _, id := range append(append([]string(nil), lineup.Starters...), lineup.Bench...) {
		if !members[id] {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: player %s listed twice", ErrValidationFailed, id)
		}
		seen[id] = true
	}

	if teamID == session.HomeTeamID {
		session.HomeLineup = lineup.Clone()
	} else {
		session.AwayLineup = lineup.Clone()
	}
	return session.Clone(), nil
}

// StartMatch moves the session from setup to playing and anchors the clock.
func (s *sessionService) StartMatch(ctx context.Context) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionSetup {
		return nil, ErrMatchNotInSetup
	}
	if len(session.HomeLineup.Starters) == 0 || len(session.AwayLineup.Starters) == 0 {
		return nil, ErrLineupIncomplete
	}

	if err := s.setFixtureStatus(ctx, session, models.FixtureInProgress); err != nil {
		return nil, err
	}

	now := s.now()
	session.Status = models.SessionPlaying
	session.TimerStartedAt = &now

	s.broadcast(session, brackets.MessageMatchEvent)
	return session.Clone(), nil
}

// PauseMatch folds the running span into the accumulated elapsed time and
// clears the clock anchor.
func (s *sessionService) PauseMatch(ctx context.Context) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requirePlaying()
	if err != nil {
		return nil, err
	}
	if session.TimerStartedAt != nil {
		session.ElapsedBefore += s.now().Sub(*session.TimerStartedAt)
		session.TimerStartedAt = nil
	}
	return session.Clone(), nil
}

func (s *sessionService) ResumeMatch(ctx context.Context) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requirePlaying()
	if err != nil {
		return nil, err
	}
	if session.TimerStartedAt == nil {
		now := s.now()
		session.TimerStartedAt = &now
	}
	return session.Clone(), nil
}

// AddEvent validates and appends a ledger entry, then re-derives the score
// and substitution counters from the full ledger so stored state always
// agrees with a from-scratch replay.
func (s *sessionService) AddEvent(ctx context.Context, input EventInput) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requirePlaying()
	if err != nil {
		return nil, err
	}

	event, err := s.buildEvent(ctx, session, session.Events, input)
	if err != nil {
		return nil, err
	}

	session.Events = append(session.Events, *event)
	models.SortEvents(session.Events)
	s.rederive(session)

	s.broadcast(session, brackets.MessageMatchEvent)
	if event.Type == models.EventGoal {
		s.broadcast(session, brackets.MessageScoreUpdated)
	}
	return session.Clone(), nil
}

// UpdateEvent replaces an existing ledger entry in place. The replacement is
// validated against the ledger without the old entry, then everything derived
// from the ledger is recomputed.
func (s *sessionService) UpdateEvent(ctx context.Context, eventID string, input EventInput) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requirePlaying()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range session.Events {
		if session.Events[i].ID == eventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrEventNotFound
	}

	rest := make([]models.MatchEvent, 0, len(session.Events)-1)
	rest = append(rest, session.Events[:idx]...)
	rest = append(rest, session.Events[idx+1:]...)

	event, err := s.buildEvent(ctx, session, rest, input)
	if err != nil {
		return nil, err
	}
	event.ID = eventID
	event.Timestamp = session.Events[idx].Timestamp

	session.Events[idx] = *event
	models.SortEvents(session.Events)
	s.rederive(session)

	s.broadcast(session, brackets.MessageScoreUpdated)
	return session.Clone(), nil
}

func (s *sessionService) RemoveEvent(ctx context.Context, eventID string) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requirePlaying()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range session.Events {
		if session.Events[i].ID == eventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrEventNotFound
	}

	session.Events = append(session.Events[:idx], session.Events[idx+1:]...)
	s.rederive(session)

	s.broadcast(session, brackets.MessageScoreUpdated)
	return session.Clone(), nil
}

func (s *sessionService) GetCurrentMatch(ctx context.Context) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

func (s *sessionService) GetCurrentMatchTime(ctx context.Context) (*models.MatchClock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	elapsed := session.Elapsed(s.now())
	return &models.MatchClock{
		Minutes: int(elapsed.Minutes()),
		Seconds: int(elapsed.Seconds()) % 60,
	}, nil
}

// GetActiveRoster replays substitutions over one side's starting lineup and
// returns who is on the pitch and who is on the bench right now.
func (s *sessionService) GetActiveRoster(ctx context.Context, teamID string) (active, bench []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requireActive()
	if err != nil {
		return nil, nil, err
	}
	lineup, err := lineupFor(session, teamID)
	if err != nil {
		return nil, nil, err
	}
	active, bench, warnings := DeriveActiveRoster(session.Events, lineup.Starters, lineup.Bench, teamID)
	if s.logger != nil {
		for _, w := range warnings {
			s.logger.Warn("inconsistent substitution in ledger", slog.String("detail", w))
		}
	}
	return active, bench, nil
}

// EndMatch finalizes the session. The completed snapshot is handed to the
// sink registered for the tournament's format first; only a successful
// hand-off marks the session finished, so a failure can be retried.
func (s *sessionService) EndMatch(ctx context.Context, notes string) (*models.CompletedMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requirePlaying()
	if err != nil {
		return nil, err
	}
	sink, ok := s.sinks[session.Format]
	if !ok {
		return nil, fmt.Errorf("no result sink registered for format %q", session.Format)
	}

	s.rederive(session)
	completed := &models.CompletedMatch{
		TournamentID: session.TournamentID,
		FixtureID:    session.FixtureID,
		Format:       session.Format,
		HomeTeamID:   session.HomeTeamID,
		AwayTeamID:   session.AwayTeamID,
		HomeScore:    session.HomeScore,
		AwayScore:    session.AwayScore,
		Duration:     session.Elapsed(s.now()),
		Events:       models.CloneEvents(session.Events),
		TeamStats:    BuildTeamStats(session.Events, session.HomeTeamID, session.AwayTeamID),
		PlayerStats:  BuildPlayerStats(session.Events),
		Notes:        notes,
	}

	if err := sink.SubmitCompletedMatch(ctx, completed); err != nil {
		return nil, fmt.Errorf("failed to submit match result: %w", err)
	}

	session.Status = models.SessionFinished
	session.TimerStartedAt = nil
	finished := session
	s.active = nil

	s.broadcast(finished, brackets.MessageMatchEnded)
	if s.logger != nil {
		s.logger.Info("match ended",
			slog.String("session_id", finished.ID),
			slog.String("fixture_id", finished.FixtureID),
			slog.Int("home_score", completed.HomeScore),
			slog.Int("away_score", completed.AwayScore))
	}
	return completed, nil
}

// AbandonMatch discards the session without submitting a result. The fixture
// goes back to upcoming so the match can be replayed later.
func (s *sessionService) AbandonMatch(ctx context.Context, reason string) (*models.MatchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionSetup && session.Status != models.SessionPlaying {
		return nil, ErrMatchNotPlaying
	}

	if session.Status == models.SessionPlaying {
		if err := s.setFixtureStatus(ctx, session, models.FixtureUpcoming); err != nil {
			return nil, err
		}
	}

	session.Status = models.SessionAbandoned
	session.TimerStartedAt = nil
	session.AbandonReason = &reason
	abandoned := session
	s.active = nil

	s.broadcast(abandoned, brackets.MessageMatchEnded)
	if s.logger != nil {
		s.logger.Warn("match abandoned",
			slog.String("session_id", abandoned.ID),
			slog.String("reason", reason))
	}
	return abandoned.Clone(), nil
}

// RestoreSession reinstates a snapshotted live session at boot. A nil session
// is a no-op so callers can pass whatever the snapshot store returned.
func (s *sessionService) RestoreSession(ctx context.Context, session *models.MatchSession) error {
	if session == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return ErrMatchAlreadyActive
	}
	t, err := s.tournamentRepo.GetByID(ctx, session.TournamentID)
	if err != nil {
		return ErrTournamentNotFound
	}
	s.active = session.Clone()
	s.settings = t.Settings
	return nil
}

func (s *sessionService) requireActive() (*models.MatchSession, error) {
	if s.active == nil {
		return nil, ErrNoActiveMatch
	}
	return s.active, nil
}

func (s *sessionService) requirePlaying() (*models.MatchSession, error) {
	session, err := s.requireActive()
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionPlaying {
		return nil, ErrMatchNotPlaying
	}
	return session, nil
}

// buildEvent validates the input against the given ledger and resolves player
// names from the roster. For substitutions the ledger passed in determines
// both the used-substitution count and the current on-pitch roster, which is
// why edits validate against the ledger minus the entry being replaced.
func (s *sessionService) buildEvent(ctx context.Context, session *models.MatchSession, ledger []models.MatchEvent, input EventInput) (*models.MatchEvent, error) {
	if input.TeamID != session.HomeTeamID && input.TeamID != session.AwayTeamID {
		return nil, ErrTeamNotInMatch
	}
	if input.Minute < 0 || input.Seconds < 0 || input.Seconds > 59 {
		return nil, fmt.Errorf("%w: invalid event time %d:%02d", ErrValidationFailed, input.Minute, input.Seconds)
	}

	event := &models.MatchEvent{
		ID:        xid.New().String(),
		TeamID:    input.TeamID,
		Type:      input.Type,
		PlayerID:  input.PlayerID,
		Minute:    input.Minute,
		Seconds:   input.Seconds,
		ExtraTime: input.ExtraTime,
		Timestamp: s.now(),
	}

	if input.PlayerID != "" {
		name, err := s.playerName(ctx, input.PlayerID)
		if err != nil {
			return nil, err
		}
		event.PlayerName = name
	}

	switch input.Type {
	case models.EventGoal:
		goal := &models.GoalDetail{OwnGoal: input.OwnGoal}
		if input.AssistPlayerID != nil {
			name, err := s.playerName(ctx, *input.AssistPlayerID)
			if err != nil {
				return nil, err
			}
			id := *input.AssistPlayerID
			goal.AssistPlayerID = &id
			goal.AssistPlayerName = name
		}
		event.Goal = goal

	case models.EventCard:
		switch input.CardSeverity {
		case models.CardYellow, models.CardSecondYellow, models.CardRed:
		default:
			return nil, fmt.Errorf("%w: unknown card severity %q", ErrValidationFailed, input.CardSeverity)
		}
		event.Card = &models.CardDetail{Severity: input.CardSeverity}

	case models.EventSubstitution:
		sub, err := s.buildSubstitution(ctx, session, ledger, input)
		if err != nil {
			return nil, err
		}
		event.Substitution = sub
		event.PlayerName = sub.OutPlayerName

	case models.EventPenaltyShootout:
		event.Shootout = &models.PenaltyShootoutDetail{Scored: input.ShootoutScored}

	case models.EventFoul, models.EventCorner, models.EventOffside:
		// No detail payload.

	default:
		return nil, fmt.Errorf("%w: unknown event type %q", ErrValidationFailed, input.Type)
	}

	return event, nil
}

func (s *sessionService) buildSubstitution(ctx context.Context, session *models.MatchSession, ledger []models.MatchEvent, input EventInput) (*models.SubstitutionDetail, error) {
	limit := s.settings.MaxSubstitutions
	if limit > 0 && SubstitutionsUsed(ledger, input.TeamID) >= limit {
		return nil, ErrSubstitutionLimitReached
	}

	lineup, err := lineupFor(session, input.TeamID)
	if err != nil {
		return nil, err
	}
	active, bench, _ := DeriveActiveRoster(ledger, lineup.Starters, lineup.Bench, input.TeamID)
	if indexOf(active, input.PlayerID) < 0 {
		return nil, fmt.Errorf("%w: outgoing player %s is not on the pitch", ErrInvalidSubstitution, input.PlayerID)
	}
	if indexOf(bench, input.InPlayerID) < 0 {
		return nil, fmt.Errorf("%w: incoming player %s is not on the bench", ErrInvalidSubstitution, input.InPlayerID)
	}

	outName, err := s.playerName(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	inName, err := s.playerName(ctx, input.InPlayerID)
	if err != nil {
		return nil, err
	}
	return &models.SubstitutionDetail{
		OutPlayerID:   input.PlayerID,
		OutPlayerName: outName,
		InPlayerID:    input.InPlayerID,
		InPlayerName:  inName,
	}, nil
}

// rederive recomputes every ledger-derived field from scratch.
func (s *sessionService) rederive(session *models.MatchSession) {
	session.HomeScore, session.AwayScore = DeriveScore(session.Events, session.HomeTeamID)
	session.HomeSubsUsed = SubstitutionsUsed(session.Events, session.HomeTeamID)
	session.AwaySubsUsed = SubstitutionsUsed(session.Events, session.AwayTeamID)
}

func (s *sessionService) playerName(ctx context.Context, playerID string) (string, error) {
	player, err := s.roster.GetPlayerByID(ctx, playerID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return player.Name, nil
}

func (s *sessionService) rosterTeamFor(ctx context.Context, session *models.MatchSession, teamID string) (*models.RosterTeam, error) {
	t, err := s.tournamentRepo.GetByID(ctx, session.TournamentID)
	if err != nil {
		return nil, ErrTournamentNotFound
	}
	team := t.TeamByID(teamID)
	if team == nil {
		return nil, ErrTeamNotFound
	}
	rosterTeam, err := s.roster.GetTeamByID(ctx, team.TeamID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, team.TeamID)
	}
	return rosterTeam, nil
}

func (s *sessionService) setFixtureStatus(ctx context.Context, session *models.MatchSession, status models.FixtureStatus) error {
	_, err := s.tournamentRepo.UpdateFunc(ctx, session.TournamentID, func(t *models.Tournament) error {
		fixture := t.FixtureByID(session.FixtureID)
		if fixture == nil {
			return ErrFixtureNotFound
		}
		if fixture.Status == models.FixtureCompleted {
			return ErrFixtureAlreadyCompleted
		}
		fixture.Status = status
		return nil
	})
	return err
}

func lineupFor(session *models.MatchSession, teamID string) (models.Lineup, error) {
	switch teamID {
	case session.HomeTeamID:
		return session.HomeLineup, nil
	case session.AwayTeamID:
		return session.AwayLineup, nil
	default:
		return models.Lineup{}, ErrTeamNotInMatch
	}
}

func (s *sessionService) broadcast(session *models.MatchSession, messageType string) {
	if s.hub == nil {
		return
	}
	room := tournamentRoom(session.TournamentID)
	s.hub.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    messageType,
		Payload: session.Clone(),
		RoomID:  room,
	})
}
