package models

import "time"

// SessionStatus is the live match state machine: setup -> playing ->
// finished, with abandoned as a terminal escape from playing.
type SessionStatus string

const (
	SessionSetup     SessionStatus = "setup"
	SessionPlaying   SessionStatus = "playing"
	SessionFinished  SessionStatus = "finished"
	SessionAbandoned SessionStatus = "abandoned"
)

// Lineup is one side's starting eleven and bench at kickoff. The active
// lineup at any later point is derived by replaying substitution events.
type Lineup struct {
	Starters []string `json:"starters"`
	Bench    []string `json:"bench"`
}

func (l Lineup) Clone() Lineup {
	return Lineup{
		Starters: append([]string(nil), l.Starters...),
		Bench:    append([]string(nil), l.Bench...),
	}
}

// MatchSession is the single in-progress match context. The clock is
// pull-based: elapsed time is ElapsedBefore plus the wall-clock distance from
// TimerStartedAt, recomputed on read. Pausing clears the anchor after folding
// the running span into ElapsedBefore.
type MatchSession struct {
	ID           string           `json:"id"`
	TournamentID string           `json:"tournament_id"`
	FixtureID    string           `json:"fixture_id"`
	Format       TournamentFormat `json:"format"`

	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	HomeLineup Lineup `json:"home_lineup"`
	AwayLineup Lineup `json:"away_lineup"`

	Events    []MatchEvent `json:"events"`
	HomeScore int          `json:"home_score"`
	AwayScore int          `json:"away_score"`

	Status         SessionStatus `json:"status"`
	TimerStartedAt *time.Time    `json:"timer_started_at,omitempty"`
	ElapsedBefore  time.Duration `json:"elapsed_before"`

	HomeSubsUsed int `json:"home_subs_used"`
	AwaySubsUsed int `json:"away_subs_used"`

	CreatedAt     time.Time `json:"created_at"`
	AbandonReason *string   `json:"abandon_reason,omitempty"`
}

// Elapsed returns the total playing time at the given instant.
func (s *MatchSession) Elapsed(now time.Time) time.Duration {
	d := s.ElapsedBefore
	if s.TimerStartedAt != nil {
		d += now.Sub(*s.TimerStartedAt)
	}
	return d
}

func (s *MatchSession) Clone() *MatchSession {
	cp := *s
	cp.HomeLineup = s.HomeLineup.Clone()
	cp.AwayLineup = s.AwayLineup.Clone()
	cp.Events = CloneEvents(s.Events)
	if s.TimerStartedAt != nil {
		t := *s.TimerStartedAt
		cp.TimerStartedAt = &t
	}
	cp.AbandonReason = cloneStringPtr(s.AbandonReason)
	return &cp
}

// MatchClock is the elapsed time split for display.
type MatchClock struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

type TeamMatchStats struct {
	TeamID        string `json:"team_id"`
	Goals         int    `json:"goals"`
	Cards         int    `json:"cards"`
	Fouls         int    `json:"fouls"`
	Corners       int    `json:"corners"`
	Offsides      int    `json:"offsides"`
	Substitutions int    `json:"substitutions"`
}

type PlayerMatchStats struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
	Cards      int    `json:"cards"`
	Fouls      int    `json:"fouls"`
}

// CompletedMatch is the finalized snapshot handed to the engine owning the
// fixture once a session ends. The ledger inside it is frozen.
type CompletedMatch struct {
	TournamentID string           `json:"tournament_id"`
	FixtureID    string           `json:"fixture_id"`
	Format       TournamentFormat `json:"format"`

	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	HomeScore  int    `json:"home_score"`
	AwayScore  int    `json:"away_score"`

	Duration time.Duration `json:"duration"`
	Events   []MatchEvent  `json:"events"`

	TeamStats   []TeamMatchStats   `json:"team_stats"`
	PlayerStats []PlayerMatchStats `json:"player_stats"`

	Abandoned     bool   `json:"abandoned"`
	AbandonReason string `json:"abandon_reason,omitempty"`
	Notes         string `json:"notes,omitempty"`
}
