package models

import "time"

type TournamentFormat string

const (
	FormatLeague   TournamentFormat = "league"
	FormatKnockout TournamentFormat = "knockout"
)

// TournamentStatus tracks the lifecycle of a tournament.
type TournamentStatus string

const (
	StatusDraft     TournamentStatus = "draft"
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
	StatusCancelled TournamentStatus = "cancelled"
)

// PointScheme defines how many points a result awards in a league table.
type PointScheme struct {
	Win  int `json:"win"`
	Draw int `json:"draw"`
	Loss int `json:"loss"`
}

func DefaultPointScheme() PointScheme {
	return PointScheme{Win: 3, Draw: 1, Loss: 0}
}

// Settings carries the per-tournament configuration chosen at creation time.
type Settings struct {
	Format               TournamentFormat `json:"format"`
	PlayersPerSide       int              `json:"players_per_side"`
	MaxSubstitutions     int              `json:"max_substitutions"`
	MatchDurationMinutes int              `json:"match_duration_minutes"`
	// MatchesPerPair is league-only: 1 for a single round-robin, 2 for
	// home/away double round-robin.
	MatchesPerPair         int         `json:"matches_per_pair,omitempty"`
	AdvancingTeamsPerTable int         `json:"advancing_teams_per_table,omitempty"`
	Points                 PointScheme `json:"points"`
}

// Table is one round-robin group within a league tournament.
type Table struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	TeamIDs []string `json:"team_ids"`
}

type Tournament struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Settings Settings         `json:"settings"`
	Status   TournamentStatus `json:"status"`

	Teams    []TournamentTeam `json:"teams"`
	Fixtures []Fixture        `json:"fixtures"`
	Tables   []Table          `json:"tables,omitempty"`

	CurrentRound int `json:"current_round"`
	TotalRounds  int `json:"total_rounds"`

	WinnerID   *string `json:"winner_id,omitempty"`
	WinnerName *string `json:"winner_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TeamByID returns a pointer into Teams so callers can mutate stats in place.
func (t *Tournament) TeamByID(id string) *TournamentTeam {
	for i := range t.Teams {
		if t.Teams[i].ID == id {
			return &t.Teams[i]
		}
	}
	return nil
}

func (t *Tournament) FixtureByID(id string) *Fixture {
	for i := range t.Fixtures {
		if t.Fixtures[i].ID == id {
			return &t.Fixtures[i]
		}
	}
	return nil
}

func (t *Tournament) TableByID(id string) *Table {
	for i := range t.Tables {
		if t.Tables[i].ID == id {
			return &t.Tables[i]
		}
	}
	return nil
}

// FixturesInRound returns the fixtures of one knockout round ordered by match
// number. Promotion slot math relies on this ordering.
func (t *Tournament) FixturesInRound(round int) []*Fixture {
	var out []*Fixture
	for i := range t.Fixtures {
		if t.Fixtures[i].Round == round {
			out = append(out, &t.Fixtures[i])
		}
	}
	return out
}

// Clone produces a deep copy. Repositories hand clones to readers so nobody
// observes a half-updated tournament.
func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Teams = make([]TournamentTeam, len(t.Teams))
	for i, team := range t.Teams {
		cp.Teams[i] = *team.Clone()
	}
	cp.Fixtures = make([]Fixture, len(t.Fixtures))
	for i, f := range t.Fixtures {
		cp.Fixtures[i] = *f.Clone()
	}
	if t.Tables != nil {
		cp.Tables = make([]Table, len(t.Tables))
		for i, tb := range t.Tables {
			cp.Tables[i] = tb
			cp.Tables[i].TeamIDs = append([]string(nil), tb.TeamIDs...)
		}
	}
	cp.WinnerID = cloneStringPtr(t.WinnerID)
	cp.WinnerName = cloneStringPtr(t.WinnerName)
	return &cp
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneIntPtr(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
