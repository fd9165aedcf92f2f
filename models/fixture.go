package models

type FixtureStatus string

const (
	FixtureUpcoming   FixtureStatus = "upcoming"
	FixtureInProgress FixtureStatus = "in_progress"
	FixtureCompleted  FixtureStatus = "completed"
)

// Stage names the phase a fixture belongs to. Knockout stages are derived
// from the fixture's distance to the final round.
type Stage string

const (
	StageGroup        Stage = "group_stage"
	StageRoundOf16    Stage = "round_of_16"
	StageQuarterFinal Stage = "quarter_final"
	StageSemiFinal    Stage = "semi_final"
	StageFinal        Stage = "final"
)

// TBDName is the placeholder shown for knockout slots whose feeder fixture
// has not completed yet.
const TBDName = "TBD"

type Fixture struct {
	ID          string `json:"id"`
	Round       int    `json:"round"`
	Stage       Stage  `json:"stage"`
	MatchNumber int    `json:"match_number"`

	// Team slots are nil for knockout fixtures whose feeders have not
	// finished. Names carry the TBD placeholder in that case.
	HomeTeamID   *string `json:"home_team_id,omitempty"`
	AwayTeamID   *string `json:"away_team_id,omitempty"`
	HomeTeamName string  `json:"home_team_name"`
	AwayTeamName string  `json:"away_team_name"`

	TableID *string `json:"table_id,omitempty"`

	Status    FixtureStatus `json:"status"`
	HomeScore *int          `json:"home_score,omitempty"`
	AwayScore *int          `json:"away_score,omitempty"`
	WinnerID  *string       `json:"winner_id,omitempty"`

	NextFixtureID *string `json:"next_fixture_id,omitempty"`

	// Events holds the finalized ledger of the match, set on completion.
	Events []MatchEvent `json:"events,omitempty"`
}

// Ready reports whether both team slots are populated.
func (f *Fixture) Ready() bool {
	return f.HomeTeamID != nil && f.AwayTeamID != nil
}

func (f *Fixture) Clone() *Fixture {
	cp := *f
	cp.HomeTeamID = cloneStringPtr(f.HomeTeamID)
	cp.AwayTeamID = cloneStringPtr(f.AwayTeamID)
	cp.TableID = cloneStringPtr(f.TableID)
	cp.HomeScore = cloneIntPtr(f.HomeScore)
	cp.AwayScore = cloneIntPtr(f.AwayScore)
	cp.WinnerID = cloneStringPtr(f.WinnerID)
	cp.NextFixtureID = cloneStringPtr(f.NextFixtureID)
	cp.Events = CloneEvents(f.Events)
	return &cp
}
