package models

// KnockoutStatus tracks a team's fate inside a knockout bracket.
type KnockoutStatus string

const (
	KnockoutActive     KnockoutStatus = "active"
	KnockoutEliminated KnockoutStatus = "eliminated"
	KnockoutWinner     KnockoutStatus = "winner"
)

// TournamentTeam wraps an external roster team for the duration of one
// tournament. Cumulative stats are mutated only by result submission.
type TournamentTeam struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`

	TableID *string `json:"table_id,omitempty"`
	Seed    int     `json:"seed,omitempty"`

	Played         int `json:"played"`
	Won            int `json:"won"`
	Drawn          int `json:"drawn"`
	Lost           int `json:"lost"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	GoalDifference int `json:"goal_difference"`
	Points         int `json:"points"`

	Status KnockoutStatus `json:"status,omitempty"`
}

// ApplyResult folds one completed fixture into the team's cumulative stats.
// GoalDifference and Points are recomputed from the updated counters so the
// table invariants hold after every submission.
func (t *TournamentTeam) ApplyResult(goalsFor, goalsAgainst int, scheme PointScheme) {
	t.Played++
	t.GoalsFor += goalsFor
	t.GoalsAgainst += goalsAgainst
	switch {
	case goalsFor > goalsAgainst:
		t.Won++
	case goalsFor < goalsAgainst:
		t.Lost++
	default:
		t.Drawn++
	}
	t.GoalDifference = t.GoalsFor - t.GoalsAgainst
	t.Points = t.Won*scheme.Win + t.Drawn*scheme.Draw + t.Lost*scheme.Loss
}

func (t *TournamentTeam) Clone() *TournamentTeam {
	cp := *t
	cp.TableID = cloneStringPtr(t.TableID)
	return &cp
}
